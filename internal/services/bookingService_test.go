package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapecabs/internal/models"
)

func bookingRequest() *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		Purpose:        "Client visit",
		PickupAddress:  "Head office",
		DropAddress:    "Airport",
		PickupDateTime: "2026-11-02T09:00",
	}
}

func TestBookingService_ApprovalGating(t *testing.T) {
	store := newMemoryStore()
	svc := NewBookingService(store)
	ctx := context.Background()

	user, err := store.Users.Create(ctx, &models.User{Email: "a@example.com", PhoneNumber: "+911111111111"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, user.ID, bookingRequest())
	assert.ErrorIs(t, err, ErrAccountNotApproved)

	_, err = store.Users.UpdateStatus(ctx, user.ID, models.UserStatusApproved)
	require.NoError(t, err)

	booking, err := svc.Create(ctx, user.ID, bookingRequest())
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, user.ID, booking.UserID)

	_, err = svc.Create(ctx, "missing", bookingRequest())
	assert.ErrorIs(t, err, ErrUserNotFound)

	mine, err := svc.ListMine(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestBookingService_Listings(t *testing.T) {
	store := newMemoryStore()
	svc := NewBookingService(store)
	ctx := context.Background()

	user := approvedUser(t, store, "a@example.com", "+911111111111")
	booking, err := svc.Create(ctx, user.ID, bookingRequest())
	require.NoError(t, err)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NotNil(t, pending[0].User)
	assert.Equal(t, user.Email, pending[0].User.Email)

	_, err = svc.SetStatus(ctx, booking.ID, models.BookingStatusApproved)
	require.NoError(t, err)

	approved, err := svc.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Nil(t, approved[0].Allocation)

	driver, err := store.Drivers.Create(ctx, &models.Driver{Name: "Rajesh Kumar", PhoneNumber: "+91 8765432100", LicenseNumber: "DL-1234567890"})
	require.NoError(t, err)
	_, err = NewAllocationService(store).Allocate(ctx, booking.ID, driver.ID)
	require.NoError(t, err)

	approved, err = svc.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	require.NotNil(t, approved[0].Allocation)
	require.NotNil(t, approved[0].Allocation.Driver)
	assert.Equal(t, "Rajesh Kumar", approved[0].Allocation.Driver.Name)
}

func TestBookingService_SetStatus(t *testing.T) {
	store := newMemoryStore()
	svc := NewBookingService(store)
	ctx := context.Background()

	user := approvedUser(t, store, "a@example.com", "+911111111111")
	booking, err := svc.Create(ctx, user.ID, bookingRequest())
	require.NoError(t, err)

	rejected, err := svc.SetStatus(ctx, booking.ID, models.BookingStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusRejected, rejected.Status)

	approved, err := svc.SetStatus(ctx, booking.ID, models.BookingStatusApproved)
	require.NoError(t, err, "decided bookings can be decided again")
	assert.Equal(t, models.BookingStatusApproved, approved.Status)

	_, err = svc.SetStatus(ctx, "missing", models.BookingStatusApproved)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
