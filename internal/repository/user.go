// Package repository provides MongoDB-backed persistence for users and tasks.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhub/backend/internal/models"
)

var (
	// ErrNotFound is returned when no document matches the query. It is
	// returned both for documents that do not exist and for documents
	// owned by another user, so callers cannot tell the cases apart.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an insert violates the unique
	// email index.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidID is returned when an identifier is not a valid
	// 24-character hex object id.
	ErrInvalidID = errors.New("invalid id format")
)

// ParseObjectID converts a hex string into an ObjectID, returning
// ErrInvalidID for anything that is not a 24-character hex identifier.
func ParseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// MongoUserRepository implements user persistence against a MongoDB collection.
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository using the given database.
func NewMongoUserRepository(database *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: database.Collection("users")}
}

// CreateUser inserts a new user, assigning its identifier and timestamps.
// A violation of the unique email index yields ErrDuplicateEmail.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UserByEmail fetches a user by its normalized email address.
// Returns ErrNotFound if no such user exists.
func (r *MongoUserRepository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// UserByID fetches a user by its hex identifier.
// Returns ErrInvalidID for a malformed identifier and ErrNotFound when
// the user does not exist.
func (r *MongoUserRepository) UserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := ParseObjectID(id)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}
