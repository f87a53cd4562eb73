package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/lynkupro-api/internal/entity"
	"github.com/xavierca1/lynkupro-api/internal/infra/queue"
	"github.com/xavierca1/lynkupro-api/internal/mocks"
	"github.com/xavierca1/lynkupro-api/internal/usecase"
)

const leadID = "64b0000000000000000000aa"

func storedLead(status entity.Status) *entity.Lead {
	l := entity.NewLead("Jane Doe", "jane@x.com", "5551234567", creator)
	l.ID = leadID
	l.Status = status
	return l
}

func TestChangeStatusRejectsUnknownStatusWithoutTouchingStore(t *testing.T) {
	repo := new(mocks.LeadRepository)
	uc := usecase.NewChangeLeadStatusUseCase(repo, nil, nil)

	_, err := uc.Execute(context.Background(), usecase.ChangeStatusInput{ID: leadID, Status: "bogus"})

	de, ok := usecase.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, usecase.CodeInvalidStatus, de.Code)
	assert.Equal(t, "Invalid status", de.Message)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeStatusAnyToAny(t *testing.T) {
	for _, from := range entity.Statuses {
		for _, to := range entity.Statuses {
			repo := new(mocks.LeadRepository)
			repo.On("FindByID", mock.Anything, leadID).Return(storedLead(from), nil)
			repo.On("UpdateStatus", mock.Anything, leadID, to).Return(storedLead(to), nil)

			uc := usecase.NewChangeLeadStatusUseCase(repo, nil, nil)
			out, err := uc.Execute(context.Background(), usecase.ChangeStatusInput{ID: leadID, Status: to})

			require.NoError(t, err, "%s -> %s", from, to)
			assert.Equal(t, to, out.Status)
		}
	}
}

func TestChangeStatusPublishesTransition(t *testing.T) {
	repo := new(mocks.LeadRepository)
	events := new(mocks.EventPublisher)
	repo.On("FindByID", mock.Anything, leadID).Return(storedLead(entity.StatusQualified), nil)
	repo.On("UpdateStatus", mock.Anything, leadID, entity.StatusWon).Return(storedLead(entity.StatusWon), nil)
	events.On("PublishLeadEvent", mock.Anything, mock.MatchedBy(func(e queue.LeadEvent) bool {
		return e.Type == queue.EventLeadStatusChanged && e.FromStatus == "qualified" && e.ToStatus == "won"
	})).Return(nil).Once()

	uc := usecase.NewChangeLeadStatusUseCase(repo, events, nil)
	_, err := uc.Execute(context.Background(), usecase.ChangeStatusInput{ID: leadID, Status: entity.StatusWon})

	require.NoError(t, err)
	events.AssertExpectations(t)
}

func TestChangeStatusIsIdempotent(t *testing.T) {
	repo := new(mocks.LeadRepository)
	events := new(mocks.EventPublisher)
	repo.On("FindByID", mock.Anything, leadID).Return(storedLead(entity.StatusContacted), nil)
	repo.On("UpdateStatus", mock.Anything, leadID, entity.StatusContacted).Return(storedLead(entity.StatusContacted), nil)

	uc := usecase.NewChangeLeadStatusUseCase(repo, events, nil)

	for i := 0; i < 2; i++ {
		out, err := uc.Execute(context.Background(), usecase.ChangeStatusInput{ID: leadID, Status: entity.StatusContacted})
		require.NoError(t, err)
		assert.Equal(t, entity.StatusContacted, out.Status)
		assert.Empty(t, out.Notes)
	}
	events.AssertNotCalled(t, "PublishLeadEvent", mock.Anything, mock.Anything)
}

func TestChangeStatusNotFound(t *testing.T) {
	repo := new(mocks.LeadRepository)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, entity.ErrLeadNotFound)

	uc := usecase.NewChangeLeadStatusUseCase(repo, nil, nil)
	_, err := uc.Execute(context.Background(), usecase.ChangeStatusInput{ID: "missing", Status: entity.StatusWon})

	de, ok := usecase.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, usecase.CodeNotFound, de.Code)
}
