// Package postgres is a gorm-backed store backend.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"snapecabs/internal/database"
	"snapecabs/internal/models"
	"snapecabs/internal/repositories"
	"snapecabs/internal/utils"
)

const uniqueViolation = "23505"

var constraintFields = map[string]string{
	"idx_users_email":            repositories.FieldEmail,
	"idx_users_phone_number":     repositories.FieldPhoneNumber,
	"idx_drivers_phone_number":   repositories.FieldPhoneNumber,
	"idx_drivers_license_number": repositories.FieldLicenseNumber,
	"idx_allocations_booking_id": repositories.FieldBookingID,
	"idx_sessions_token":         repositories.FieldToken,
}

// NewStore builds a Store on top of a PostgreSQL connection.
func NewStore(db database.PostgresService) *repositories.Store {
	return &repositories.Store{
		DB:          db,
		Users:       &userRepository{db: db.DB()},
		OTPs:        &otpRepository{db: db.DB()},
		Bookings:    &bookingRepository{db: db.DB()},
		Drivers:     &driverRepository{db: db.DB()},
		Allocations: &allocationRepository{db: db.DB()},
		Sessions:    &sessionRepository{db: db.DB()},
		EnsureSchema: func(ctx context.Context) error {
			return Migrate(ctx, db.DB())
		},
	}
}

// Migrate creates or updates every table and unique index.
func Migrate(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.OTP{},
		&models.Booking{},
		&models.Driver{},
		&models.Allocation{},
		&models.Session{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info().Msg("PostgreSQL schema migrated")
	return nil
}

// mapError turns driver errors into the repositories error vocabulary.
func mapError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		field, ok := constraintFields[pgErr.ConstraintName]
		if !ok {
			field = "unknown"
		}
		return &repositories.DuplicateKeyError{Field: field, Err: err}
	}
	return err
}

// finish records the query outcome and maps err.
func finish(timer *utils.QueryTimer, err error) error {
	if err == nil {
		return nil
	}
	mapped := mapError(err)
	if !errors.Is(mapped, repositories.ErrNotFound) {
		timer.Fail()
	}
	return mapped
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	timer := utils.NewQueryTimer("create", "user")
	defer timer.Done()

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	if user.Status == "" {
		user.Status = models.UserStatusPending
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, finish(timer, err)
	}
	return user, nil
}

func (r *userRepository) first(ctx context.Context, queryType, query string, arg any) (*models.User, error) {
	timer := utils.NewQueryTimer(queryType, "user")
	defer timer.Done()

	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, finish(timer, err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "findById", "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "findByEmail", "email = ?", email)
}

func (r *userRepository) FindByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	return r.first(ctx, "findByPhone", "phone_number = ?", phoneNumber)
}

func (r *userRepository) UpdateStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error) {
	timer := utils.NewQueryTimer("updateStatus", "user")
	defer timer.Done()

	var user models.User
	result := r.db.WithContext(ctx).Model(&user).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return nil, finish(timer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (r *userRepository) ListByStatus(ctx context.Context, status models.UserStatus) ([]models.User, error) {
	timer := utils.NewQueryTimer("listByStatus", "user")
	defer timer.Done()

	users := make([]models.User, 0)
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at").Find(&users).Error; err != nil {
		return nil, finish(timer, err)
	}
	return users, nil
}

type otpRepository struct {
	db *gorm.DB
}

func (r *otpRepository) Replace(ctx context.Context, otp *models.OTP) (*models.OTP, error) {
	timer := utils.NewQueryTimer("replace", "otp")
	defer timer.Done()

	otp.ID = uuid.NewString()
	otp.CreatedAt = time.Now().UTC()
	otp.IsVerified = false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("phone_number = ?", otp.PhoneNumber).Delete(&models.OTP{}).Error; err != nil {
			return err
		}
		return tx.Create(otp).Error
	})
	if err != nil {
		return nil, finish(timer, err)
	}
	return otp, nil
}

func (r *otpRepository) FindLatestByPhone(ctx context.Context, phoneNumber string) (*models.OTP, error) {
	timer := utils.NewQueryTimer("findLatestByPhone", "otp")
	defer timer.Done()

	var otp models.OTP
	err := r.db.WithContext(ctx).
		Where("phone_number = ?", phoneNumber).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return nil, finish(timer, err)
	}
	return &otp, nil
}

func (r *otpRepository) MarkVerified(ctx context.Context, id string) (bool, error) {
	timer := utils.NewQueryTimer("markVerified", "otp")
	defer timer.Done()

	result := r.db.WithContext(ctx).Model(&models.OTP{}).
		Where("id = ? AND is_verified = ?", id, false).
		Update("is_verified", true)
	if result.Error != nil {
		return false, finish(timer, result.Error)
	}
	return result.RowsAffected == 1, nil
}

type bookingRepository struct {
	db *gorm.DB
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	timer := utils.NewQueryTimer("create", "booking")
	defer timer.Done()

	booking.ID = uuid.NewString()
	booking.CreatedAt = time.Now().UTC()
	if booking.Status == "" {
		booking.Status = models.BookingStatusPending
	}
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, finish(timer, err)
	}
	return booking, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	timer := utils.NewQueryTimer("findById", "booking")
	defer timer.Done()

	var booking models.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, finish(timer, err)
	}
	return &booking, nil
}

func (r *bookingRepository) list(ctx context.Context, queryType, query string, arg any) ([]models.Booking, error) {
	timer := utils.NewQueryTimer(queryType, "booking")
	defer timer.Done()

	bookings := make([]models.Booking, 0)
	if err := r.db.WithContext(ctx).Where(query, arg).Order("created_at").Find(&bookings).Error; err != nil {
		return nil, finish(timer, err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	return r.list(ctx, "listByStatus", "status = ?", status)
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.list(ctx, "listByUser", "user_id = ?", userID)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	timer := utils.NewQueryTimer("updateStatus", "booking")
	defer timer.Done()

	var booking models.Booking
	result := r.db.WithContext(ctx).Model(&booking).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return nil, finish(timer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repositories.ErrNotFound
	}
	return &booking, nil
}

type driverRepository struct {
	db *gorm.DB
}

func (r *driverRepository) Create(ctx context.Context, driver *models.Driver) (*models.Driver, error) {
	timer := utils.NewQueryTimer("create", "driver")
	defer timer.Done()

	driver.ID = uuid.NewString()
	driver.CreatedAt = time.Now().UTC()
	if driver.Status == "" {
		driver.Status = models.DriverStatusAvailable
	}
	if err := r.db.WithContext(ctx).Create(driver).Error; err != nil {
		return nil, finish(timer, err)
	}
	return driver, nil
}

func (r *driverRepository) FindByID(ctx context.Context, id string) (*models.Driver, error) {
	timer := utils.NewQueryTimer("findById", "driver")
	defer timer.Done()

	var driver models.Driver
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&driver).Error; err != nil {
		return nil, finish(timer, err)
	}
	return &driver, nil
}

func (r *driverRepository) List(ctx context.Context) ([]models.Driver, error) {
	timer := utils.NewQueryTimer("list", "driver")
	defer timer.Done()

	drivers := make([]models.Driver, 0)
	if err := r.db.WithContext(ctx).Order("name").Find(&drivers).Error; err != nil {
		return nil, finish(timer, err)
	}
	return drivers, nil
}

func (r *driverRepository) ListByStatus(ctx context.Context, status models.DriverStatus) ([]models.Driver, error) {
	timer := utils.NewQueryTimer("listByStatus", "driver")
	defer timer.Done()

	drivers := make([]models.Driver, 0)
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("name").Find(&drivers).Error; err != nil {
		return nil, finish(timer, err)
	}
	return drivers, nil
}

func (r *driverRepository) Count(ctx context.Context) (int64, error) {
	timer := utils.NewQueryTimer("count", "driver")
	defer timer.Done()

	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Driver{}).Count(&n).Error; err != nil {
		return 0, finish(timer, err)
	}
	return n, nil
}

type allocationRepository struct {
	db *gorm.DB
}

func (r *allocationRepository) Allocate(ctx context.Context, allocation *models.Allocation) (*models.Allocation, error) {
	timer := utils.NewQueryTimer("allocate", "allocation")
	defer timer.Done()

	allocation.ID = uuid.NewString()
	allocation.CreatedAt = time.Now().UTC()
	if allocation.Status == "" {
		allocation.Status = models.AllocationStatusAllocated
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(allocation).Error; err != nil {
			return err
		}
		result := tx.Model(&models.Driver{}).
			Where("id = ?", allocation.DriverID).
			Update("status", models.DriverStatusBusy)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, finish(timer, err)
	}
	return allocation, nil
}

func (r *allocationRepository) FindByBookingID(ctx context.Context, bookingID string) (*models.Allocation, error) {
	timer := utils.NewQueryTimer("findByBookingId", "allocation")
	defer timer.Done()

	var allocation models.Allocation
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&allocation).Error; err != nil {
		return nil, finish(timer, err)
	}
	return &allocation, nil
}

func (r *allocationRepository) List(ctx context.Context) ([]models.Allocation, error) {
	timer := utils.NewQueryTimer("list", "allocation")
	defer timer.Done()

	allocations := make([]models.Allocation, 0)
	if err := r.db.WithContext(ctx).Order("created_at").Find(&allocations).Error; err != nil {
		return nil, finish(timer, err)
	}
	return allocations, nil
}

type sessionRepository struct {
	db *gorm.DB
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {
	timer := utils.NewQueryTimer("create", "session")
	defer timer.Done()

	session.ID = uuid.NewString()
	session.CreatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, finish(timer, err)
	}
	return session, nil
}

func (r *sessionRepository) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	timer := utils.NewQueryTimer("findByToken", "session")
	defer timer.Done()

	var session models.Session
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&session).Error; err != nil {
		return nil, finish(timer, err)
	}
	return &session, nil
}

func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) (bool, error) {
	timer := utils.NewQueryTimer("deleteByToken", "session")
	defer timer.Done()

	result := r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{})
	if result.Error != nil {
		return false, finish(timer, result.Error)
	}
	return result.RowsAffected == 1, nil
}
