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

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	ListByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)
}

type bookingRepository struct {
	db database.MongoService
}

func NewBookingRepository(db database.MongoService) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) collection() *mongo.Collection {
	return r.db.Database().Collection(bookingsCollection)
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	timer := utils.NewQueryTimer("create", "booking")
	defer timer.Done()

	booking.ID = primitive.NewObjectID().Hex()
	booking.CreatedAt = time.Now().UTC()
	if booking.Status == "" {
		booking.Status = models.BookingStatusPending
	}

	if _, err := r.collection().InsertOne(ctx, booking); err != nil {
		timer.Fail()
		log.Error().Err(err).Str("user_id", booking.UserID).Msg("Failed to insert booking into database")
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return booking, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	timer := utils.NewQueryTimer("findById", "booking")
	defer timer.Done()

	var booking models.Booking
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		timer.Fail()
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) list(ctx context.Context, queryType string, filter bson.M) ([]models.Booking, error) {
	timer := utils.NewQueryTimer(queryType, "booking")
	defer timer.Done()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		timer.Fail()
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]models.Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		timer.Fail()
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	return r.list(ctx, "listByStatus", bson.M{"status": status})
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.list(ctx, "listByUser", bson.M{"user_id": userID})
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	timer := utils.NewQueryTimer("updateStatus", "booking")
	defer timer.Done()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	err := r.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}}, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		timer.Fail()
		log.Error().Err(err).Str("booking_id", id).Msg("Error updating booking status")
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	return &booking, nil
}
