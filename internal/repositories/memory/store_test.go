package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapecabs/internal/models"
	"snapecabs/internal/repositories"
	"snapecabs/internal/repositories/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) *repositories.Store {
		return NewStore()
	})
}

func TestAllocate_ConcurrentSingleWinner(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	drivers := make([]*models.Driver, 8)
	for i := range drivers {
		d, err := store.Drivers.Create(ctx, &models.Driver{
			Name:          fmt.Sprintf("Driver %d", i),
			PhoneNumber:   fmt.Sprintf("+91 90000000%02d", i),
			LicenseNumber: fmt.Sprintf("DL-%010d", i),
		})
		require.NoError(t, err)
		drivers[i] = d
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for _, d := range drivers {
		wg.Add(1)
		go func(driverID string) {
			defer wg.Done()
			_, err := store.Allocations.Allocate(ctx, &models.Allocation{BookingID: "booking-1", DriverID: driverID})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.True(t, repositories.IsDuplicateKey(err, repositories.FieldBookingID))
		}(d.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	busy, err := store.Drivers.ListByStatus(ctx, models.DriverStatusBusy)
	require.NoError(t, err)
	assert.Len(t, busy, 1)
}

func TestReturnsCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	u, err := store.Users.Create(ctx, &models.User{Email: "a@example.com", PhoneNumber: "+911"})
	require.NoError(t, err)
	u.Status = models.UserStatusApproved

	found, err := store.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusPending, found.Status)
}
