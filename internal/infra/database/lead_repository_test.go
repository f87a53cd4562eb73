package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/lynkupro-api/internal/entity"
	"github.com/xavierca1/lynkupro-api/internal/mocks"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func toD(t testing.TB, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func sampleDoc(status entity.Status) leadDocument {
	now := time.Now().UTC().Truncate(time.Millisecond)
	owner := "64b000000000000000000002"
	return leadDocument{
		ID:          primitive.NewObjectID(),
		Name:        "Jane Doe",
		Email:       "jane@x.com",
		Phone:       "5551234567",
		Status:      string(status),
		Source:      string(entity.SourceWebsite),
		Value:       120000,
		Probability: 80,
		AssignedTo:  &owner,
		Tags:        []string{"roof"},
		Notes: []noteDocument{
			{ID: primitive.NewObjectID(), Text: "first call", CreatedBy: "64b000000000000000000001", CreatedAt: now},
		},
		CreatedBy: "64b000000000000000000001",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestLeadRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := NewLeadRepository(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		lead := entity.NewLead("Jane Doe", "jane@x.com", "5551234567", entity.UserRef{ID: "64b000000000000000000001"})
		require.NoError(mt, repo.Create(context.Background(), lead))

		assert.True(mt, primitive.IsValidObjectID(lead.ID))
		assert.Equal(mt, entity.StatusNew, lead.Status)
	})

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		repo := NewLeadRepository(mt.Coll, nil)

		_, err := repo.FindByID(context.Background(), "not-an-id")
		assert.ErrorIs(mt, err, entity.ErrLeadNotFound)

		assert.ErrorIs(mt, repo.Delete(context.Background(), "not-an-id"), entity.ErrLeadNotFound)
	})

	mt.Run("find missing lead", func(mt *mtest.T) {
		repo := NewLeadRepository(mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, entity.ErrLeadNotFound)
	})

	mt.Run("find populates user references", func(mt *mtest.T) {
		users := new(mocks.UserRepository)
		users.On("FindByID", mock.Anything, "64b000000000000000000001").
			Return(&entity.User{ID: "64b000000000000000000001", Name: "Sam Sales", Email: "sam@lynkupro.com"}, nil)
		users.On("FindByID", mock.Anything, "64b000000000000000000002").
			Return(&entity.User{ID: "64b000000000000000000002", Name: "Ana Lima", Email: "ana@lynkupro.com"}, nil)

		repo := NewLeadRepository(mt.Coll, users)
		doc := sampleDoc(entity.StatusProposal)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, toD(mt, doc)))

		lead, err := repo.FindByID(context.Background(), doc.ID.Hex())
		require.NoError(mt, err)

		assert.Equal(mt, doc.ID.Hex(), lead.ID)
		assert.Equal(mt, entity.StatusProposal, lead.Status)
		assert.Equal(mt, "Ana Lima", lead.AssignedTo.Name)
		assert.Equal(mt, "Sam Sales", lead.CreatedBy.Name)
		require.Len(mt, lead.Notes, 1)
		assert.Equal(mt, "Sam Sales", lead.Notes[0].CreatedBy.Name)
	})

	mt.Run("list returns page and total", func(mt *mtest.T) {
		repo := NewLeadRepository(mt.Coll, nil)
		a, b := sampleDoc(entity.StatusNew), sampleDoc(entity.StatusWon)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(2)}}),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, toD(mt, a), toD(mt, b)),
		)

		leads, total, err := repo.List(context.Background(), entity.LeadFilter{}, entity.ListOptions{})
		require.NoError(mt, err)

		assert.Equal(mt, int64(2), total)
		require.Len(mt, leads, 2)
		assert.Equal(mt, a.ID.Hex(), leads[0].ID)
		assert.Equal(mt, entity.StatusWon, leads[1].Status)
	})

	mt.Run("update status returns updated lead", func(mt *mtest.T) {
		repo := NewLeadRepository(mt.Coll, nil)
		doc := sampleDoc(entity.StatusWon)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: toD(mt, doc)}})

		lead, err := repo.UpdateStatus(context.Background(), doc.ID.Hex(), entity.StatusWon)
		require.NoError(mt, err)
		assert.Equal(mt, entity.StatusWon, lead.Status)
	})

	mt.Run("update of missing lead", func(mt *mtest.T) {
		repo := NewLeadRepository(mt.Coll, nil)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := repo.Assign(context.Background(), primitive.NewObjectID().Hex(), nil)
		assert.ErrorIs(mt, err, entity.ErrLeadNotFound)
	})

	mt.Run("add note", func(mt *mtest.T) {
		repo := NewLeadRepository(mt.Coll, nil)
		doc := sampleDoc(entity.StatusContacted)
		doc.Notes = append(doc.Notes, noteDocument{ID: primitive.NewObjectID(), Text: "sent quote", CreatedBy: "64b000000000000000000001"})
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: toD(mt, doc)}})

		lead, err := repo.AddNote(context.Background(), doc.ID.Hex(), entity.Note{Text: "sent quote"})
		require.NoError(mt, err)
		assert.Len(mt, lead.Notes, 2)
		assert.Equal(mt, "sent quote", lead.Notes[1].Text)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewLeadRepository(mt.Coll, nil)
		id := primitive.NewObjectID().Hex()
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}},
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}},
		)

		require.NoError(mt, repo.Delete(context.Background(), id))
		assert.ErrorIs(mt, repo.Delete(context.Background(), id), entity.ErrLeadNotFound)
	})

	mt.Run("mark follow-up notified", func(mt *mtest.T) {
		repo := NewLeadRepository(mt.Coll, nil)
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}},
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}},
		)

		require.NoError(mt, repo.MarkFollowUpNotified(context.Background(), primitive.NewObjectID().Hex(), time.Now()))
		assert.ErrorIs(mt, repo.MarkFollowUpNotified(context.Background(), primitive.NewObjectID().Hex(), time.Now()), entity.ErrLeadNotFound)
	})
}
