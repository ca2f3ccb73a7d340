package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"snapecabs/internal/database"
	"snapecabs/internal/models"
	"snapecabs/internal/utils"
)

type OTPRepository interface {
	// Replace removes every passcode issued to otp.PhoneNumber and stores otp.
	Replace(ctx context.Context, otp *models.OTP) (*models.OTP, error)
	FindLatestByPhone(ctx context.Context, phoneNumber string) (*models.OTP, error)
	// MarkVerified flips is_verified on an unverified passcode. It reports
	// false when the passcode was already verified or is gone.
	MarkVerified(ctx context.Context, id string) (bool, error)
}

type otpRepository struct {
	db database.MongoService
}

func NewOTPRepository(db database.MongoService) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) collection() *mongo.Collection {
	return r.db.Database().Collection(otpsCollection)
}

func (r *otpRepository) Replace(ctx context.Context, otp *models.OTP) (*models.OTP, error) {
	timer := utils.NewQueryTimer("replace", "otp")
	defer timer.Done()

	if _, err := r.collection().DeleteMany(ctx, bson.M{"phone_number": otp.PhoneNumber}); err != nil {
		timer.Fail()
		return nil, fmt.Errorf("failed to remove previous OTPs: %w", err)
	}

	otp.ID = primitive.NewObjectID().Hex()
	otp.CreatedAt = time.Now().UTC()
	otp.IsVerified = false
	if _, err := r.collection().InsertOne(ctx, otp); err != nil {
		timer.Fail()
		return nil, fmt.Errorf("failed to create OTP: %w", err)
	}
	return otp, nil
}

func (r *otpRepository) FindLatestByPhone(ctx context.Context, phoneNumber string) (*models.OTP, error) {
	timer := utils.NewQueryTimer("findLatestByPhone", "otp")
	defer timer.Done()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var otp models.OTP
	err := r.collection().FindOne(ctx, bson.M{"phone_number": phoneNumber}, opts).Decode(&otp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		timer.Fail()
		return nil, fmt.Errorf("failed to find OTP: %w", err)
	}
	return &otp, nil
}

func (r *otpRepository) MarkVerified(ctx context.Context, id string) (bool, error) {
	timer := utils.NewQueryTimer("markVerified", "otp")
	defer timer.Done()

	filter := bson.M{"_id": id, "is_verified": false}
	update := bson.M{"$set": bson.M{"is_verified": true}}
	result, err := r.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		timer.Fail()
		return false, fmt.Errorf("failed to mark OTP verified: %w", err)
	}
	return result.ModifiedCount == 1, nil
}
