package usecase_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/lynkupro-api/internal/entity"
	"github.com/xavierca1/lynkupro-api/internal/infra/queue"
	"github.com/xavierca1/lynkupro-api/internal/mocks"
	"github.com/xavierca1/lynkupro-api/internal/usecase"
	"github.com/xuri/excelize/v2"
)

func ptr[T any](v T) *T { return &v }

func TestGetLeadNotFound(t *testing.T) {
	repo := new(mocks.LeadRepository)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, entity.ErrLeadNotFound)

	_, err := usecase.NewGetLeadUseCase(repo).Execute(context.Background(), "missing")

	de, ok := usecase.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, usecase.CodeNotFound, de.Code)
}

func TestListLeadsPagination(t *testing.T) {
	repo := new(mocks.LeadRepository)
	filter := entity.LeadFilter{AssignedTo: entity.AssignedToUnassigned}
	repo.On("List", mock.Anything, filter, entity.ListOptions{Page: 2, Limit: 25, Sort: "-createdAt"}).
		Return([]entity.Lead{*storedLead(entity.StatusNew)}, int64(26), nil)

	out, err := usecase.NewListLeadsUseCase(repo).Execute(context.Background(), usecase.ListLeadsInput{
		Filter:  filter,
		Options: entity.ListOptions{Page: 2},
	})

	require.NoError(t, err)
	assert.Len(t, out.Data, 1)
	assert.Equal(t, usecase.Pagination{Page: 2, Limit: 25, Total: 26, TotalPages: 2}, out.Pagination)
}

func TestListLeadsRejectsUnknownEnumsAndSort(t *testing.T) {
	uc := usecase.NewListLeadsUseCase(new(mocks.LeadRepository))

	_, err := uc.Execute(context.Background(), usecase.ListLeadsInput{
		Filter:  entity.LeadFilter{Status: "bogus"},
		Options: entity.ListOptions{Sort: "password"},
	})

	de, ok := usecase.AsDomainError(err)
	require.True(t, ok)
	assert.Len(t, de.Fields, 2)
}

func TestUpdateLeadRejectsDedicatedFields(t *testing.T) {
	repo := new(mocks.LeadRepository)
	uc := usecase.NewUpdateLeadUseCase(repo)

	_, err := uc.Execute(context.Background(), usecase.UpdateLeadInput{
		ID:     leadID,
		Fields: []string{"name", "status", "assignedTo", "notes", "createdBy"},
	})

	de, ok := usecase.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, usecase.CodeValidation, de.Code)
	assert.Len(t, de.Fields, 4)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestUpdateLeadRevalidatesMergedLead(t *testing.T) {
	repo := new(mocks.LeadRepository)
	lead := storedLead(entity.StatusProposal)
	lead.Budget = entity.Budget{Max: ptr(1000.0)}
	repo.On("FindByID", mock.Anything, leadID).Return(lead, nil)

	_, err := usecase.NewUpdateLeadUseCase(repo).Execute(context.Background(), usecase.UpdateLeadInput{
		ID:     leadID,
		Patch:  entity.LeadPatch{Budget: &entity.Budget{Min: ptr(5000.0), Max: ptr(1000.0)}},
		Fields: []string{"budget"},
	})

	assert.True(t, usecase.IsDomainError(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateLeadAppliesPatch(t *testing.T) {
	repo := new(mocks.LeadRepository)
	patch := entity.LeadPatch{Value: ptr(60000.0), Probability: ptr(50)}
	updated := storedLead(entity.StatusNegotiation)
	updated.Value = 60000
	updated.Probability = 50

	repo.On("FindByID", mock.Anything, leadID).Return(storedLead(entity.StatusNegotiation), nil)
	repo.On("Update", mock.Anything, leadID, patch).Return(updated, nil)

	out, err := usecase.NewUpdateLeadUseCase(repo).Execute(context.Background(), usecase.UpdateLeadInput{
		ID: leadID, Patch: patch, Fields: []string{"value", "probability"},
	})

	require.NoError(t, err)
	assert.Equal(t, 60000.0, out.Value)
	assert.Equal(t, entity.StatusNegotiation, out.Status)
}

func TestUpdateLeadStoresTrimmedValues(t *testing.T) {
	repo := new(mocks.LeadRepository)
	stored := entity.LeadPatch{Email: ptr("jane.doe@x.com"), Name: ptr("Jane Q. Doe")}
	updated := storedLead(entity.StatusNew)
	updated.Email = "jane.doe@x.com"

	repo.On("FindByID", mock.Anything, leadID).Return(storedLead(entity.StatusNew), nil)
	repo.On("Update", mock.Anything, leadID, stored).Return(updated, nil)

	out, err := usecase.NewUpdateLeadUseCase(repo).Execute(context.Background(), usecase.UpdateLeadInput{
		ID:     leadID,
		Patch:  entity.LeadPatch{Email: ptr(" jane.doe@x.com "), Name: ptr("  Jane Q. Doe ")},
		Fields: []string{"email", "name"},
	})

	require.NoError(t, err)
	assert.Equal(t, "jane.doe@x.com", out.Email)
	repo.AssertExpectations(t)
}

func TestUpdateLeadRejectsNegativeBudgetMax(t *testing.T) {
	repo := new(mocks.LeadRepository)
	repo.On("FindByID", mock.Anything, leadID).Return(storedLead(entity.StatusNew), nil)

	_, err := usecase.NewUpdateLeadUseCase(repo).Execute(context.Background(), usecase.UpdateLeadInput{
		ID:     leadID,
		Patch:  entity.LeadPatch{Budget: &entity.Budget{Max: ptr(-5.0)}},
		Fields: []string{"budget"},
	})

	de, ok := usecase.AsDomainError(err)
	require.True(t, ok)
	require.Len(t, de.Fields, 1)
	assert.Equal(t, "budget.max", de.Fields[0].Field)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateLeadRejectsUnsafeCustomFieldKeys(t *testing.T) {
	repo := new(mocks.LeadRepository)
	repo.On("FindByID", mock.Anything, leadID).Return(storedLead(entity.StatusNew), nil)

	_, err := usecase.NewUpdateLeadUseCase(repo).Execute(context.Background(), usecase.UpdateLeadInput{
		ID:     leadID,
		Patch:  entity.LeadPatch{CustomFields: map[string]interface{}{"$where": 1}},
		Fields: []string{"customFields"},
	})

	de, ok := usecase.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "customFields", de.Fields[0].Field)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignLeadToUser(t *testing.T) {
	repo := new(mocks.LeadRepository)
	users := new(mocks.UserRepository)
	events := new(mocks.EventPublisher)

	user := &entity.User{ID: "64b000000000000000000002", Name: "Ana Lima", Email: "ana@lynkupro.com"}
	assigned := storedLead(entity.StatusNew)
	ref := user.Ref()
	assigned.AssignedTo = &ref

	users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Assign", mock.Anything, leadID, &user.ID).Return(assigned, nil)
	events.On("PublishLeadEvent", mock.Anything, mock.MatchedBy(func(e queue.LeadEvent) bool {
		return e.Type == queue.EventLeadAssigned && e.AssigneeEmail == "ana@lynkupro.com"
	})).Return(nil)

	out, err := usecase.NewAssignLeadUseCase(repo, users, events, nil).Execute(context.Background(), usecase.AssignLeadInput{
		ID: leadID, UserID: ptr(user.ID),
	})

	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", out.AssignedTo.Name)
	events.AssertExpectations(t)
}

func TestAssignLeadUnassign(t *testing.T) {
	repo := new(mocks.LeadRepository)
	repo.On("Assign", mock.Anything, leadID, (*string)(nil)).Return(storedLead(entity.StatusNew), nil)

	out, err := usecase.NewAssignLeadUseCase(repo, new(mocks.UserRepository), nil, nil).
		Execute(context.Background(), usecase.AssignLeadInput{ID: leadID, UserID: ptr("  ")})

	require.NoError(t, err)
	assert.Nil(t, out.AssignedTo)
}

func TestAssignLeadUnknownUser(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("FindByID", mock.Anything, "ghost").Return(nil, entity.ErrUserNotFound)
	repo := new(mocks.LeadRepository)

	_, err := usecase.NewAssignLeadUseCase(repo, users, nil, nil).
		Execute(context.Background(), usecase.AssignLeadInput{ID: leadID, UserID: ptr("ghost")})

	de, ok := usecase.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, usecase.CodeValidation, de.Code)
	repo.AssertNotCalled(t, "Assign", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddNoteAppendsWithAuthor(t *testing.T) {
	repo := new(mocks.LeadRepository)
	withNote := storedLead(entity.StatusContacted)
	withNote.Notes = []entity.Note{{ID: "n1", Text: "Called, wants a quote", CreatedBy: creator}}

	repo.On("AddNote", mock.Anything, leadID, mock.MatchedBy(func(n entity.Note) bool {
		return n.Text == "Called, wants a quote" && n.CreatedBy.ID == creator.ID && !n.CreatedAt.IsZero()
	})).Return(withNote, nil)

	out, err := usecase.NewAddLeadNoteUseCase(repo).Execute(context.Background(), usecase.AddNoteInput{
		ID: leadID, Text: "  Called, wants a quote ", Author: creator,
	})

	require.NoError(t, err)
	assert.Len(t, out.Notes, 1)
}

func TestAddNoteRequiresText(t *testing.T) {
	_, err := usecase.NewAddLeadNoteUseCase(new(mocks.LeadRepository)).
		Execute(context.Background(), usecase.AddNoteInput{ID: leadID, Text: "   "})

	assert.True(t, usecase.IsDomainError(err))
}

func TestDeleteLeadTwiceReportsNotFound(t *testing.T) {
	repo := new(mocks.LeadRepository)
	repo.On("Delete", mock.Anything, leadID).Return(nil).Once()
	repo.On("Delete", mock.Anything, leadID).Return(entity.ErrLeadNotFound)

	uc := usecase.NewDeleteLeadUseCase(repo, nil)

	require.NoError(t, uc.Execute(context.Background(), leadID, creator))

	err := uc.Execute(context.Background(), leadID, creator)
	de, ok := usecase.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, usecase.CodeNotFound, de.Code)
}

func TestLeadStats(t *testing.T) {
	repo := new(mocks.LeadRepository)
	repo.On("FindAll", mock.Anything, entity.LeadFilter{}, entity.DefaultSort).Return([]entity.Lead{
		{Status: entity.StatusWon, Source: entity.SourceWebsite, Value: 30000},
		{Status: entity.StatusNew, Source: entity.SourceWebsite, Value: 10000},
	}, nil)

	stats, err := usecase.NewLeadStatsUseCase(repo).Execute(context.Background(), entity.LeadFilter{})

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 20000.0, stats.AverageValue)
	assert.Equal(t, 50.0, stats.ConversionRate)
}

func TestExportLeadsWritesWorkbook(t *testing.T) {
	repo := new(mocks.LeadRepository)
	lead := storedLead(entity.StatusProposal)
	lead.Value = 120000
	repo.On("FindAll", mock.Anything, entity.LeadFilter{}, entity.DefaultSort).Return([]entity.Lead{*lead}, nil)

	var buf bytes.Buffer
	n, err := usecase.NewExportLeadsUseCase(repo).Execute(context.Background(), usecase.ListLeadsInput{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Leads")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "Jane Doe", rows[1][1])
	assert.Equal(t, "proposal", rows[1][5])
}
