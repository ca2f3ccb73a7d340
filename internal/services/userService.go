package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"snapecabs/internal/metrics"
	"snapecabs/internal/models"
	"snapecabs/internal/repositories"
)

// UserService defines the interface for employee account business logic.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterUserRequest) (*models.User, error)
	VerifyRegistration(ctx context.Context, phoneNumber, code string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	ListPending(ctx context.Context) ([]models.User, error)
	ListApproved(ctx context.Context) ([]models.User, error)
	SetStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error)
}

// userService implements UserService using a UserRepository.
type userService struct {
	userRepo   repositories.UserRepository
	otpService OTPService
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, otpService OTPService) UserService {
	return &userService{userRepo: userRepo, otpService: otpService}
}

// Register creates a pending account and sends a verification passcode to
// its phone. When delivery fails the account is kept and ErrDeliveryFailed is
// returned alongside it.
func (s *userService) Register(ctx context.Context, req *models.RegisterUserRequest) (*models.User, error) {
	log.Debug().Str("email", req.Email).Msg("Attempting to register user")

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByPhone(ctx, req.PhoneNumber); err == nil {
		return nil, ErrPhoneTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &models.User{
		Name:           req.Name,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		EmployeeNumber: req.EmployeeNumber,
		Department:     req.Department,
		Status:         models.UserStatusPending,
	})
	switch {
	case repositories.IsDuplicateKey(err, repositories.FieldEmail):
		return nil, ErrEmailTaken
	case repositories.IsDuplicateKey(err, repositories.FieldPhoneNumber):
		return nil, ErrPhoneTaken
	case err != nil:
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.UsersRegisteredTotal.Inc()
	log.Info().Str("user_id", user.ID).Msg("User registered")

	userID := user.ID
	if err := s.otpService.Request(ctx, user.PhoneNumber, &userID); err != nil {
		return user, err
	}
	return user, nil
}

func (s *userService) VerifyRegistration(ctx context.Context, phoneNumber, code string) (*models.User, error) {
	ok, err := s.otpService.Verify(ctx, phoneNumber, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidOTP
	}

	user, err := s.userRepo.FindByPhone(ctx, phoneNumber)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	log.Info().Str("user_id", user.ID).Msg("Phone number verified")
	return user, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *userService) ListPending(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListByStatus(ctx, models.UserStatusPending)
}

func (s *userService) ListApproved(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListByStatus(ctx, models.UserStatusApproved)
}

func (s *userService) SetStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error) {
	user, err := s.userRepo.UpdateStatus(ctx, id, status)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	metrics.UserStatusChangesTotal.WithLabelValues(string(status)).Inc()
	log.Info().Str("user_id", id).Str("status", string(status)).Msg("User status updated")
	return user, nil
}
