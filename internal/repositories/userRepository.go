package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"snapecabs/internal/database"
	"snapecabs/internal/models"
	"snapecabs/internal/utils"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhone(ctx context.Context, phoneNumber string) (*models.User, error)
	UpdateStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error)
	ListByStatus(ctx context.Context, status models.UserStatus) ([]models.User, error)
}

type userRepository struct {
	db database.MongoService
}

func NewUserRepository(db database.MongoService) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) collection() *mongo.Collection {
	return r.db.Database().Collection(usersCollection)
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	timer := utils.NewQueryTimer("create", "user")
	defer timer.Done()

	user.ID = primitive.NewObjectID().Hex()
	user.CreatedAt = time.Now().UTC()
	if user.Status == "" {
		user.Status = models.UserStatusPending
	}

	if _, err := r.collection().InsertOne(ctx, user); err != nil {
		timer.Fail()
		if dup := mongoDuplicateKey(err, userIndexFields); dup != nil {
			return nil, dup
		}
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to insert user into database")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *userRepository) findOne(ctx context.Context, queryType string, filter bson.M) (*models.User, error) {
	timer := utils.NewQueryTimer(queryType, "user")
	defer timer.Done()

	var user models.User
	err := r.collection().FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		timer.Fail()
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "findById", bson.M{"_id": id})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "findByEmail", bson.M{"email": email})
}

func (r *userRepository) FindByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	return r.findOne(ctx, "findByPhone", bson.M{"phone_number": phoneNumber})
}

func (r *userRepository) UpdateStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error) {
	timer := utils.NewQueryTimer("updateStatus", "user")
	defer timer.Done()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		timer.Fail()
		log.Error().Err(err).Str("user_id", id).Msg("Error updating user status")
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	return &user, nil
}

func (r *userRepository) ListByStatus(ctx context.Context, status models.UserStatus) ([]models.User, error) {
	timer := utils.NewQueryTimer("listByStatus", "user")
	defer timer.Done()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection().Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		timer.Fail()
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		timer.Fail()
		return nil, fmt.Errorf("error decoding users: %w", err)
	}
	return users, nil
}
