package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/xavierca1/lynkupro-api/internal/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCacheTTL = 5 * time.Minute

type userDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
	Role  string             `bson:"role"`
}

// UserRepository reads the users collection, which is owned by the auth
// service. Lookups are cached because every lead read resolves a few users.
type UserRepository struct {
	Coll  *mongo.Collection
	cache *cache.Cache
}

func NewUserRepository(coll *mongo.Collection) *UserRepository {
	return &UserRepository{
		Coll:  coll,
		cache: cache.New(userCacheTTL, 10*time.Minute),
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if cached, ok := r.cache.Get(id); ok {
		u := cached.(entity.User)
		return &u, nil
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, entity.ErrUserNotFound
	}

	opts := options.FindOne().SetProjection(bson.M{"name": 1, "email": 1, "role": 1})

	var doc userDocument
	if err := r.Coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	u := entity.User{ID: doc.ID.Hex(), Name: doc.Name, Email: doc.Email, Role: doc.Role}
	r.cache.Set(id, u, cache.DefaultExpiration)
	return &u, nil
}
