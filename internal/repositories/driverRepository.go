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

type DriverRepository interface {
	Create(ctx context.Context, driver *models.Driver) (*models.Driver, error)
	FindByID(ctx context.Context, id string) (*models.Driver, error)
	List(ctx context.Context) ([]models.Driver, error)
	ListByStatus(ctx context.Context, status models.DriverStatus) ([]models.Driver, error)
	Count(ctx context.Context) (int64, error)
}

type driverRepository struct {
	db database.MongoService
}

func NewDriverRepository(db database.MongoService) DriverRepository {
	return &driverRepository{db: db}
}

func (r *driverRepository) collection() *mongo.Collection {
	return r.db.Database().Collection(driversCollection)
}

func (r *driverRepository) Create(ctx context.Context, driver *models.Driver) (*models.Driver, error) {
	timer := utils.NewQueryTimer("create", "driver")
	defer timer.Done()

	driver.ID = primitive.NewObjectID().Hex()
	driver.CreatedAt = time.Now().UTC()
	if driver.Status == "" {
		driver.Status = models.DriverStatusAvailable
	}

	if _, err := r.collection().InsertOne(ctx, driver); err != nil {
		timer.Fail()
		if dup := mongoDuplicateKey(err, driverIndexFields); dup != nil {
			return nil, dup
		}
		log.Error().Err(err).Str("license_number", driver.LicenseNumber).Msg("Failed to insert driver into database")
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}
	return driver, nil
}

func (r *driverRepository) FindByID(ctx context.Context, id string) (*models.Driver, error) {
	timer := utils.NewQueryTimer("findById", "driver")
	defer timer.Done()

	var driver models.Driver
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&driver)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		timer.Fail()
		return nil, fmt.Errorf("failed to find driver: %w", err)
	}
	return &driver, nil
}

func (r *driverRepository) list(ctx context.Context, queryType string, filter bson.M) ([]models.Driver, error) {
	timer := utils.NewQueryTimer(queryType, "driver")
	defer timer.Done()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		timer.Fail()
		return nil, fmt.Errorf("failed to retrieve drivers: %w", err)
	}
	defer cursor.Close(ctx)

	drivers := make([]models.Driver, 0)
	if err := cursor.All(ctx, &drivers); err != nil {
		timer.Fail()
		return nil, fmt.Errorf("error decoding drivers: %w", err)
	}
	return drivers, nil
}

func (r *driverRepository) List(ctx context.Context) ([]models.Driver, error) {
	return r.list(ctx, "list", bson.M{})
}

func (r *driverRepository) ListByStatus(ctx context.Context, status models.DriverStatus) ([]models.Driver, error) {
	return r.list(ctx, "listByStatus", bson.M{"status": status})
}

func (r *driverRepository) Count(ctx context.Context) (int64, error) {
	timer := utils.NewQueryTimer("count", "driver")
	defer timer.Done()

	n, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		timer.Fail()
		return 0, fmt.Errorf("failed to count drivers: %w", err)
	}
	return n, nil
}
