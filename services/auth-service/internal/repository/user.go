package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/mobile-onboarding/services/auth-service/internal/model"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// FindOrCreateByPhone returns the user owning phone, creating it on first login.
	FindOrCreateByPhone(ctx context.Context, phone string) (*model.User, error)

	GetUserByPhone(ctx context.Context, phone string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id string) error
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) FindOrCreateByPhone(ctx context.Context, phone string) (*model.User, error) {
	user, err := r.GetUserByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	now := time.Now()
	user = &model.User{
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		// a concurrent first login for the same phone won the insert
		if mongo.IsDuplicateKeyError(err) {
			return r.GetUserByPhone(ctx, phone)
		}
		return nil, err
	}

	objectID, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}
	user.ID = objectID

	return user, nil
}

func (r *userMongoRepository) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"phone": phone})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) UpdateLastLogin(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = r.db.Collection(userCollection).UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"last_login_at": now, "updated_at": now}},
	)
	return err
}
