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

type AllocationService interface {
	Allocate(ctx context.Context, bookingID, driverID string) (*models.Allocation, error)
}

type allocationService struct {
	bookingRepo    repositories.BookingRepository
	driverRepo     repositories.DriverRepository
	allocationRepo repositories.AllocationRepository
}

func NewAllocationService(store *repositories.Store) AllocationService {
	return &allocationService{
		bookingRepo:    store.Bookings,
		driverRepo:     store.Drivers,
		allocationRepo: store.Allocations,
	}
}

// Allocate binds driverID to an approved booking and marks the driver busy.
// Exclusivity per booking is enforced by the store, so concurrent calls for
// the same booking yield exactly one allocation.
func (s *allocationService) Allocate(ctx context.Context, bookingID, driverID string) (*models.Allocation, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusApproved {
		return nil, ErrBookingNotApproved
	}

	if _, err := s.driverRepo.FindByID(ctx, driverID); errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrDriverNotFound
	} else if err != nil {
		return nil, err
	}

	allocation, err := s.allocationRepo.Allocate(ctx, &models.Allocation{
		BookingID: bookingID,
		DriverID:  driverID,
		Status:    models.AllocationStatusAllocated,
	})
	switch {
	case repositories.IsDuplicateKey(err, repositories.FieldBookingID):
		metrics.AllocationsTotal.WithLabelValues("conflict").Inc()
		log.Warn().Str("booking_id", bookingID).Msg("Booking already allocated")
		return nil, ErrAlreadyAllocated
	case errors.Is(err, repositories.ErrNotFound):
		metrics.AllocationsTotal.WithLabelValues("error").Inc()
		return nil, ErrDriverNotFound
	case err != nil:
		metrics.AllocationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to allocate driver: %w", err)
	}

	metrics.AllocationsTotal.WithLabelValues("allocated").Inc()
	log.Info().Str("booking_id", bookingID).Str("driver_id", driverID).Msg("Driver allocated")
	return allocation, nil
}
