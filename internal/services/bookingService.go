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

type BookingService interface {
	Create(ctx context.Context, userID string, req *models.CreateBookingRequest) (*models.Booking, error)
	ListMine(ctx context.Context, userID string) ([]models.Booking, error)
	ListPending(ctx context.Context) ([]models.BookingWithUser, error)
	ListApproved(ctx context.Context) ([]models.ApprovedBooking, error)
	SetStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)
}

type bookingService struct {
	bookingRepo    repositories.BookingRepository
	userRepo       repositories.UserRepository
	allocationRepo repositories.AllocationRepository
	driverRepo     repositories.DriverRepository
}

func NewBookingService(store *repositories.Store) BookingService {
	return &bookingService{
		bookingRepo:    store.Bookings,
		userRepo:       store.Users,
		allocationRepo: store.Allocations,
		driverRepo:     store.Drivers,
	}
}

func (s *bookingService) Create(ctx context.Context, userID string, req *models.CreateBookingRequest) (*models.Booking, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Status != models.UserStatusApproved {
		log.Warn().Str("user_id", userID).Str("status", string(user.Status)).Msg("Booking refused for unapproved account")
		return nil, ErrAccountNotApproved
	}

	booking, err := s.bookingRepo.Create(ctx, &models.Booking{
		UserID:         userID,
		Purpose:        req.Purpose,
		PickupAddress:  req.PickupAddress,
		DropAddress:    req.DropAddress,
		PickupDateTime: req.PickupDateTime,
		ReturnDateTime: req.ReturnDateTime,
		Status:         models.BookingStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.BookingsCreatedTotal.Inc()
	log.Info().Str("user_id", userID).Str("booking_id", booking.ID).Msg("Booking created")
	return booking, nil
}

func (s *bookingService) ListMine(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.bookingRepo.ListByUser(ctx, userID)
}

// requester returns nil rather than failing when the user row is gone.
func (s *bookingService) requester(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

func (s *bookingService) ListPending(ctx context.Context) ([]models.BookingWithUser, error) {
	bookings, err := s.bookingRepo.ListByStatus(ctx, models.BookingStatusPending)
	if err != nil {
		return nil, err
	}

	out := make([]models.BookingWithUser, 0, len(bookings))
	for _, b := range bookings {
		user, err := s.requester(ctx, b.UserID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.BookingWithUser{Booking: b, User: user})
	}
	return out, nil
}

func (s *bookingService) ListApproved(ctx context.Context) ([]models.ApprovedBooking, error) {
	bookings, err := s.bookingRepo.ListByStatus(ctx, models.BookingStatusApproved)
	if err != nil {
		return nil, err
	}

	out := make([]models.ApprovedBooking, 0, len(bookings))
	for _, b := range bookings {
		user, err := s.requester(ctx, b.UserID)
		if err != nil {
			return nil, err
		}
		entry := models.ApprovedBooking{Booking: b, User: user}

		allocation, err := s.allocationRepo.FindByBookingID(ctx, b.ID)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
		case err != nil:
			return nil, err
		default:
			driver, err := s.driverRepo.FindByID(ctx, allocation.DriverID)
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return nil, err
			}
			entry.Allocation = &models.AllocationWithDriver{Allocation: *allocation, Driver: driver}
		}
		out = append(out, entry)
	}
	return out, nil
}

// SetStatus overwrites the booking status. Any booking can be moved to
// approved or rejected, including one already decided.
func (s *bookingService) SetStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	booking, err := s.bookingRepo.UpdateStatus(ctx, id, status)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	metrics.BookingStatusChangesTotal.WithLabelValues(string(status)).Inc()
	log.Info().Str("booking_id", id).Str("status", string(status)).Msg("Booking status updated")
	return booking, nil
}
