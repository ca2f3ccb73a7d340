package repositories

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"snapecabs/internal/database"
)

const (
	usersCollection       = "users"
	otpsCollection        = "otps"
	bookingsCollection    = "bookings"
	driversCollection     = "drivers"
	allocationsCollection = "allocations"
	sessionsCollection    = "sessions"

	idxUsersEmail           = "users_email_unique"
	idxUsersPhone           = "users_phone_number_unique"
	idxDriversPhone         = "drivers_phone_number_unique"
	idxDriversLicense       = "drivers_license_number_unique"
	idxAllocationsBookingID = "allocations_booking_id_unique"
	idxSessionsToken        = "sessions_token_unique"
)

var (
	userIndexFields = map[string]string{
		idxUsersEmail: FieldEmail,
		idxUsersPhone: FieldPhoneNumber,
	}
	driverIndexFields = map[string]string{
		idxDriversPhone:   FieldPhoneNumber,
		idxDriversLicense: FieldLicenseNumber,
	}
	allocationIndexFields = map[string]string{
		idxAllocationsBookingID: FieldBookingID,
	}
	sessionIndexFields = map[string]string{
		idxSessionsToken: FieldToken,
	}
)

func uniqueIndex(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(name).SetUnique(true),
	}
}

// EnsureIndexes creates the unique and TTL indexes the repositories rely on.
// TTL indexes let MongoDB remove expired sessions and passcodes itself.
func EnsureIndexes(ctx context.Context, db database.MongoService) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			uniqueIndex(idxUsersEmail, bson.D{{Key: "email", Value: 1}}),
			uniqueIndex(idxUsersPhone, bson.D{{Key: "phone_number", Value: 1}}),
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		otpsCollection: {
			{Keys: bson.D{{Key: "phone_number", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
		bookingsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		driversCollection: {
			uniqueIndex(idxDriversPhone, bson.D{{Key: "phone_number", Value: 1}}),
			uniqueIndex(idxDriversLicense, bson.D{{Key: "license_number", Value: 1}}),
		},
		allocationsCollection: {
			uniqueIndex(idxAllocationsBookingID, bson.D{{Key: "booking_id", Value: 1}}),
		},
		sessionsCollection: {
			uniqueIndex(idxSessionsToken, bson.D{{Key: "token", Value: 1}}),
			{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
	}

	for name, models := range specs {
		if _, err := db.Database().Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", name, err)
		}
	}

	log.Info().Msg("MongoDB indexes created")
	return nil
}
