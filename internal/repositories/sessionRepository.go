package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"snapecabs/internal/database"
	"snapecabs/internal/models"
	"snapecabs/internal/utils"
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) (*models.Session, error)
	FindByToken(ctx context.Context, token string) (*models.Session, error)
	// DeleteByToken reports whether a session was removed.
	DeleteByToken(ctx context.Context, token string) (bool, error)
}

type sessionRepository struct {
	db database.MongoService
}

func NewSessionRepository(db database.MongoService) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) collection() *mongo.Collection {
	return r.db.Database().Collection(sessionsCollection)
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {
	timer := utils.NewQueryTimer("create", "session")
	defer timer.Done()

	session.ID = primitive.NewObjectID().Hex()
	session.CreatedAt = time.Now().UTC()

	if _, err := r.collection().InsertOne(ctx, session); err != nil {
		timer.Fail()
		if dup := mongoDuplicateKey(err, sessionIndexFields); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (r *sessionRepository) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	timer := utils.NewQueryTimer("findByToken", "session")
	defer timer.Done()

	var session models.Session
	err := r.collection().FindOne(ctx, bson.M{"token": token}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		timer.Fail()
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) (bool, error) {
	timer := utils.NewQueryTimer("deleteByToken", "session")
	defer timer.Done()

	result, err := r.collection().DeleteOne(ctx, bson.M{"token": token})
	if err != nil {
		timer.Fail()
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return result.DeletedCount == 1, nil
}
