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

type AllocationRepository interface {
	// Allocate records the allocation and marks its driver busy as one unit.
	// A second allocation for the same booking fails with a DuplicateKeyError
	// on FieldBookingID and leaves both drivers untouched.
	Allocate(ctx context.Context, allocation *models.Allocation) (*models.Allocation, error)
	FindByBookingID(ctx context.Context, bookingID string) (*models.Allocation, error)
	List(ctx context.Context) ([]models.Allocation, error)
}

type allocationRepository struct {
	db database.MongoService
}

func NewAllocationRepository(db database.MongoService) AllocationRepository {
	return &allocationRepository{db: db}
}

func (r *allocationRepository) collection() *mongo.Collection {
	return r.db.Database().Collection(allocationsCollection)
}

// Allocate relies on the unique booking_id index to reject a second
// allocation before the driver is touched. If marking the driver busy fails
// the allocation row is removed again.
func (r *allocationRepository) Allocate(ctx context.Context, allocation *models.Allocation) (*models.Allocation, error) {
	timer := utils.NewQueryTimer("allocate", "allocation")
	defer timer.Done()

	allocation.ID = primitive.NewObjectID().Hex()
	allocation.CreatedAt = time.Now().UTC()
	if allocation.Status == "" {
		allocation.Status = models.AllocationStatusAllocated
	}

	if _, err := r.collection().InsertOne(ctx, allocation); err != nil {
		timer.Fail()
		if dup := mongoDuplicateKey(err, allocationIndexFields); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to create allocation: %w", err)
	}

	drivers := r.db.Database().Collection(driversCollection)
	result, err := drivers.UpdateOne(ctx,
		bson.M{"_id": allocation.DriverID},
		bson.M{"$set": bson.M{"status": models.DriverStatusBusy}},
	)
	if err == nil && result.MatchedCount == 0 {
		err = ErrNotFound
	}
	if err != nil {
		timer.Fail()
		if _, delErr := r.collection().DeleteOne(context.WithoutCancel(ctx), bson.M{"_id": allocation.ID}); delErr != nil {
			log.Error().Err(delErr).Str("allocation_id", allocation.ID).Msg("Failed to roll back allocation")
		}
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to mark driver busy: %w", err)
	}

	return allocation, nil
}

func (r *allocationRepository) FindByBookingID(ctx context.Context, bookingID string) (*models.Allocation, error) {
	timer := utils.NewQueryTimer("findByBookingId", "allocation")
	defer timer.Done()

	var allocation models.Allocation
	err := r.collection().FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&allocation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		timer.Fail()
		return nil, fmt.Errorf("failed to find allocation: %w", err)
	}
	return &allocation, nil
}

func (r *allocationRepository) List(ctx context.Context) ([]models.Allocation, error) {
	timer := utils.NewQueryTimer("list", "allocation")
	defer timer.Done()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		timer.Fail()
		return nil, fmt.Errorf("failed to retrieve allocations: %w", err)
	}
	defer cursor.Close(ctx)

	allocations := make([]models.Allocation, 0)
	if err := cursor.All(ctx, &allocations); err != nil {
		timer.Fail()
		return nil, fmt.Errorf("error decoding allocations: %w", err)
	}
	return allocations, nil
}
