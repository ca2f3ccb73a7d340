package repositories

import (
	"context"

	"snapecabs/internal/database"
)

// Store bundles the repositories of one backend. Backends are chosen at
// process start and injected; nothing in the core refers to a concrete store.
type Store struct {
	DB          database.Service
	Users       UserRepository
	OTPs        OTPRepository
	Bookings    BookingRepository
	Drivers     DriverRepository
	Allocations AllocationRepository
	Sessions    SessionRepository

	// EnsureSchema creates indexes or tables the backend relies on for
	// uniqueness. It is idempotent.
	EnsureSchema func(ctx context.Context) error
}

// NewMongoStore builds a Store on top of a MongoDB database.
func NewMongoStore(db database.MongoService) *Store {
	return &Store{
		DB:          db,
		Users:       NewUserRepository(db),
		OTPs:        NewOTPRepository(db),
		Bookings:    NewBookingRepository(db),
		Drivers:     NewDriverRepository(db),
		Allocations: NewAllocationRepository(db),
		Sessions:    NewSessionRepository(db),
		EnsureSchema: func(ctx context.Context) error {
			return EnsureIndexes(ctx, db)
		},
	}
}
