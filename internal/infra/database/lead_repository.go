package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/lynkupro-api/internal/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LeadRepository struct {
	Coll  *mongo.Collection
	Users entity.UserRepositoryInterface
	now   func() time.Time
}

// NewLeadRepository builds the store. users may be nil, in which case user
// references come back with ids only.
func NewLeadRepository(coll *mongo.Collection, users entity.UserRepositoryInterface) *LeadRepository {
	return &LeadRepository{
		Coll:  coll,
		Users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	now := r.now()
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	lead.UpdatedAt = lead.CreatedAt
	if lead.Status == "" {
		lead.Status = entity.StatusNew
	}

	doc := newLeadDocument(lead)
	res, err := r.Coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert lead: unexpected id type %T", res.InsertedID)
	}
	lead.ID = oid.Hex()
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, entity.ErrLeadNotFound
	}

	var doc leadDocument
	if err := r.Coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}

	lead := doc.toEntity()
	r.populate(ctx, &lead)
	return &lead, nil
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter, opts entity.ListOptions) ([]entity.Lead, int64, error) {
	opts = opts.Normalize()
	query := buildLeadQuery(filter)

	total, err := r.Coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	findOpts := options.Find().
		SetSort(buildSort(opts.Sort)).
		SetSkip(opts.Skip()).
		SetLimit(int64(opts.Limit))

	leads, err := r.find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func (r *LeadRepository) FindAll(ctx context.Context, filter entity.LeadFilter, sort string) ([]entity.Lead, error) {
	return r.find(ctx, buildLeadQuery(filter), options.Find().SetSort(buildSort(sort)))
}

func (r *LeadRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]entity.Lead, error) {
	cursor, err := r.Coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find leads: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []leadDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode leads: %w", err)
	}

	leads := make([]entity.Lead, 0, len(docs))
	for _, d := range docs {
		leads = append(leads, d.toEntity())
	}
	for i := range leads {
		r.populate(ctx, &leads[i])
	}
	return leads, nil
}

func (r *LeadRepository) Update(ctx context.Context, id string, patch entity.LeadPatch) (*entity.Lead, error) {
	update := bson.M{"$set": patchSet(patch, r.now())}
	if patch.NextFollowUp != nil {
		// a new follow-up date arms the reminder again
		update["$unset"] = bson.M{"followUpNotifiedAt": ""}
	}
	return r.findOneAndUpdate(ctx, id, update)
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status entity.Status) (*entity.Lead, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"status":    string(status),
		"updatedAt": r.now(),
	}})
}

func (r *LeadRepository) Assign(ctx context.Context, id string, userID *string) (*entity.Lead, error) {
	var assignee interface{}
	if userID != nil {
		assignee = *userID
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"assignedTo": assignee,
		"updatedAt":  r.now(),
	}})
}

func (r *LeadRepository) AddNote(ctx context.Context, id string, note entity.Note) (*entity.Lead, error) {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = r.now()
	}
	doc := noteDocument{
		ID:        primitive.NewObjectID(),
		Text:      note.Text,
		CreatedBy: note.CreatedBy.ID,
		CreatedAt: note.CreatedAt,
	}
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$push": bson.M{"notes": doc},
		"$set":  bson.M{"updatedAt": r.now()},
	})
}

func (r *LeadRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*entity.Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, entity.ErrLeadNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc leadDocument
	err = r.Coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}

	lead := doc.toEntity()
	r.populate(ctx, &lead)
	return &lead, nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return entity.ErrLeadNotFound
	}

	res, err := r.Coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if res.DeletedCount == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// FindDueFollowUps returns open leads whose follow-up date has passed and
// that have not been reminded about it yet.
func (r *LeadRepository) FindDueFollowUps(ctx context.Context, dueBefore time.Time, limit int) ([]entity.Lead, error) {
	query := bson.M{
		"nextFollowUp":       bson.M{"$lte": dueBefore},
		"status":             bson.M{"$nin": []string{string(entity.StatusWon), string(entity.StatusLost)}},
		"followUpNotifiedAt": nil,
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "nextFollowUp", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, query, opts)
}

func (r *LeadRepository) MarkFollowUpNotified(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return entity.ErrLeadNotFound
	}

	res, err := r.Coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"followUpNotifiedAt": at}})
	if err != nil {
		return fmt.Errorf("mark follow-up: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// populate fills display fields of every user reference. Unknown users keep
// the bare id.
func (r *LeadRepository) populate(ctx context.Context, lead *entity.Lead) {
	if r.Users == nil {
		return
	}
	resolve := func(ref *entity.UserRef) {
		if ref == nil || ref.ID == "" {
			return
		}
		u, err := r.Users.FindByID(ctx, ref.ID)
		if err != nil {
			return
		}
		ref.Name = u.Name
		ref.Email = u.Email
	}

	resolve(lead.AssignedTo)
	resolve(&lead.CreatedBy)
	for i := range lead.Notes {
		resolve(&lead.Notes[i].CreatedBy)
	}
}
