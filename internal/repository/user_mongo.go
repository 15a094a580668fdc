package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/c-victorino/dishcord-web-app/internal/models"
	"github.com/c-victorino/dishcord-web-app/internal/service"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserStore keeps user documents in the users collection with a
// unique index on userName. It implements service.UserStore plus the
// by-id lookup the session middleware needs.
type MongoUserStore struct {
	users *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{users: db.Collection("users")}
}

// EnsureIndexes creates the unique userName index. Call once at startup.
func (s *MongoUserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userName", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("%w: create user index: %v", service.ErrPersistence, err)
	}
	return nil
}

func (s *MongoUserStore) FindByUserName(ctx context.Context, userName string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"userName": userName}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: unable to find user: %s", service.ErrNotFound, userName)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %v", service.ErrPersistence, err)
	}
	return &user, nil
}

// FindByID resolves the hex object id carried in session claims.
func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: bad user id", service.ErrNotFound)
	}
	var user models.User
	err = s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: user %s", service.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %v", service.ErrPersistence, err)
	}
	return &user, nil
}

func (s *MongoUserStore) Insert(ctx context.Context, user *models.User) error {
	res, err := s.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", service.ErrDuplicateUser, user.UserName)
	}
	if err != nil {
		return fmt.Errorf("%w: insert user: %v", service.ErrPersistence, err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (s *MongoUserStore) AppendLoginHistory(ctx context.Context, userName string, event models.LoginEvent) error {
	_, err := s.users.UpdateOne(ctx,
		bson.M{"userName": userName},
		bson.M{"$push": bson.M{"loginHistory": event}},
	)
	if err != nil {
		return fmt.Errorf("%w: append login history: %v", service.ErrPersistence, err)
	}
	return nil
}

func (s *MongoUserStore) Count(ctx context.Context) (int64, error) {
	n, err := s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("%w: count users: %v", service.ErrPersistence, err)
	}
	return n, nil
}
