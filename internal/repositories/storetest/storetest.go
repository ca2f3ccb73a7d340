// Package storetest holds behaviour checks shared by every store backend.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapecabs/internal/models"
	"snapecabs/internal/repositories"
)

// Factory returns an empty, schema-ready store.
type Factory func(t *testing.T) *repositories.Store

// Run exercises a backend against the contract the services depend on.
func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("OTPs", func(t *testing.T) { testOTPs(t, newStore(t)) })
	t.Run("Bookings", func(t *testing.T) { testBookings(t, newStore(t)) })
	t.Run("Drivers", func(t *testing.T) { testDrivers(t, newStore(t)) })
	t.Run("Allocations", func(t *testing.T) { testAllocations(t, newStore(t)) })
	t.Run("Sessions", func(t *testing.T) { testSessions(t, newStore(t)) })
}

func newUser(email, phone string) *models.User {
	return &models.User{
		Name:           "Asha Rao",
		Email:          email,
		PhoneNumber:    phone,
		EmployeeNumber: "E-1001",
		Department:     "Finance",
	}
}

func testUsers(t *testing.T, store *repositories.Store) {
	ctx := context.Background()

	created, err := store.Users.Create(ctx, newUser("asha@example.com", "+911111111111"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.UserStatusPending, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := store.Users.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", byID.Email)

	byEmail, err := store.Users.FindByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byPhone, err := store.Users.FindByPhone(ctx, "+911111111111")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPhone.ID)

	_, err = store.Users.FindByID(ctx, "000000000000000000000000")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = store.Users.Create(ctx, newUser("asha@example.com", "+912222222222"))
	assert.True(t, repositories.IsDuplicateKey(err, repositories.FieldEmail), "got %v", err)

	_, err = store.Users.Create(ctx, newUser("other@example.com", "+911111111111"))
	assert.True(t, repositories.IsDuplicateKey(err, repositories.FieldPhoneNumber), "got %v", err)

	pending, err := store.Users.ListByStatus(ctx, models.UserStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	updated, err := store.Users.UpdateStatus(ctx, created.ID, models.UserStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusApproved, updated.Status)

	pending, err = store.Users.ListByStatus(ctx, models.UserStatusPending)
	require.NoError(t, err)
	assert.NotNil(t, pending)
	assert.Empty(t, pending)

	_, err = store.Users.UpdateStatus(ctx, "000000000000000000000000", models.UserStatusApproved)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func testOTPs(t *testing.T, store *repositories.Store) {
	ctx := context.Background()
	phone := "+913333333333"

	first, err := store.OTPs.Replace(ctx, &models.OTP{
		PhoneNumber: phone,
		Code:        "111111",
		ExpiresAt:   time.Now().Add(time.Minute),
	})
	require.NoError(t, err)

	second, err := store.OTPs.Replace(ctx, &models.OTP{
		PhoneNumber: phone,
		Code:        "222222",
		ExpiresAt:   time.Now().Add(time.Minute),
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	latest, err := store.OTPs.FindLatestByPhone(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "222222", latest.Code)
	assert.False(t, latest.IsVerified)

	ok, err := store.OTPs.MarkVerified(ctx, latest.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.OTPs.MarkVerified(ctx, latest.ID)
	require.NoError(t, err)
	assert.False(t, ok, "a passcode can be verified once")

	ok, err = store.OTPs.MarkVerified(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, ok, "replaced passcodes are gone")

	_, err = store.OTPs.FindLatestByPhone(ctx, "+910000000000")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func testBookings(t *testing.T, store *repositories.Store) {
	ctx := context.Background()

	ret := "2026-11-02T18:00"
	created, err := store.Bookings.Create(ctx, &models.Booking{
		UserID:         "user-1",
		Purpose:        "Client visit",
		PickupAddress:  "Head office",
		DropAddress:    "Airport",
		PickupDateTime: "2026-11-02T09:00",
		ReturnDateTime: &ret,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, created.Status)

	_, err = store.Bookings.Create(ctx, &models.Booking{
		UserID:         "user-2",
		Purpose:        "Site survey",
		PickupAddress:  "Plant 2",
		DropAddress:    "Head office",
		PickupDateTime: "2026-11-03T09:00",
	})
	require.NoError(t, err)

	found, err := store.Bookings.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found.ReturnDateTime)
	assert.Equal(t, ret, *found.ReturnDateTime)

	mine, err := store.Bookings.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	pending, err := store.Bookings.ListByStatus(ctx, models.BookingStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	approved, err := store.Bookings.UpdateStatus(ctx, created.ID, models.BookingStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusApproved, approved.Status)

	list, err := store.Bookings.ListByStatus(ctx, models.BookingStatusApproved)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	_, err = store.Bookings.UpdateStatus(ctx, "000000000000000000000000", models.BookingStatusRejected)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = store.Bookings.FindByID(ctx, "000000000000000000000000")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func testDrivers(t *testing.T, store *repositories.Store) {
	ctx := context.Background()

	n, err := store.Drivers.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	d1, err := store.Drivers.Create(ctx, &models.Driver{Name: "Rajesh Kumar", PhoneNumber: "+91 8765432100", LicenseNumber: "DL-1234567890"})
	require.NoError(t, err)
	assert.Equal(t, models.DriverStatusAvailable, d1.Status)

	_, err = store.Drivers.Create(ctx, &models.Driver{Name: "Amit Singh", PhoneNumber: "+91 8765432101", LicenseNumber: "DL-2345678901", Status: models.DriverStatusUnavailable})
	require.NoError(t, err)

	_, err = store.Drivers.Create(ctx, &models.Driver{Name: "Copy", PhoneNumber: "+91 8765432100", LicenseNumber: "DL-9999999999"})
	assert.True(t, repositories.IsDuplicateKey(err, repositories.FieldPhoneNumber), "got %v", err)

	_, err = store.Drivers.Create(ctx, &models.Driver{Name: "Copy", PhoneNumber: "+91 8765432199", LicenseNumber: "DL-1234567890"})
	assert.True(t, repositories.IsDuplicateKey(err, repositories.FieldLicenseNumber), "got %v", err)

	all, err := store.Drivers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	available, err := store.Drivers.ListByStatus(ctx, models.DriverStatusAvailable)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, d1.ID, available[0].ID)

	n, err = store.Drivers.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = store.Drivers.FindByID(ctx, "000000000000000000000000")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func testAllocations(t *testing.T, store *repositories.Store) {
	ctx := context.Background()

	d1, err := store.Drivers.Create(ctx, &models.Driver{Name: "Vijay Sharma", PhoneNumber: "+91 8765432102", LicenseNumber: "DL-3456789012"})
	require.NoError(t, err)
	d2, err := store.Drivers.Create(ctx, &models.Driver{Name: "Rakesh Patel", PhoneNumber: "+91 8765432103", LicenseNumber: "DL-4567890123"})
	require.NoError(t, err)

	allocation, err := store.Allocations.Allocate(ctx, &models.Allocation{BookingID: "booking-1", DriverID: d1.ID})
	require.NoError(t, err)
	assert.Equal(t, models.AllocationStatusAllocated, allocation.Status)

	busy, err := store.Drivers.FindByID(ctx, d1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DriverStatusBusy, busy.Status)

	_, err = store.Allocations.Allocate(ctx, &models.Allocation{BookingID: "booking-1", DriverID: d2.ID})
	assert.True(t, repositories.IsDuplicateKey(err, repositories.FieldBookingID), "got %v", err)

	untouched, err := store.Drivers.FindByID(ctx, d2.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DriverStatusAvailable, untouched.Status)

	_, err = store.Allocations.Allocate(ctx, &models.Allocation{BookingID: "booking-2", DriverID: "000000000000000000000000"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = store.Allocations.FindByBookingID(ctx, "booking-2")
	assert.ErrorIs(t, err, repositories.ErrNotFound, "a failed allocation leaves no row behind")

	found, err := store.Allocations.FindByBookingID(ctx, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, d1.ID, found.DriverID)

	all, err := store.Allocations.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testSessions(t *testing.T, store *repositories.Store) {
	ctx := context.Background()

	session, err := store.Sessions.Create(ctx, &models.Session{
		UserID:    "user-1",
		Token:     "token-abc",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)

	found, err := store.Sessions.FindByToken(ctx, "token-abc")
	require.NoError(t, err)
	assert.Equal(t, "user-1", found.UserID)

	deleted, err := store.Sessions.DeleteByToken(ctx, "token-abc")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Sessions.DeleteByToken(ctx, "token-abc")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = store.Sessions.FindByToken(ctx, "token-abc")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
