package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"snapecabs/internal/models"
	"snapecabs/internal/repositories"
	"snapecabs/internal/repositories/memory"
)

const testSecret = "this-is-a-test-secret-with-32-bytes!"

// recordingSender remembers the last code sent to each phone.
type recordingSender struct {
	mu    sync.Mutex
	codes map[string]string
	fail  bool
}

func newRecordingSender() *recordingSender {
	return &recordingSender{codes: make(map[string]string)}
}

func (s *recordingSender) Send(_ context.Context, phoneNumber, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("gateway unavailable")
	}
	s.codes[phoneNumber] = code
	return nil
}

func (s *recordingSender) last(phoneNumber string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[phoneNumber]
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func registerRequest(email, phone string) *models.RegisterUserRequest {
	return &models.RegisterUserRequest{
		Name:           "Asha Rao",
		Email:          email,
		PhoneNumber:    phone,
		EmployeeNumber: "E-1001",
		Department:     "Finance",
	}
}

// approvedUser creates a user directly in the store with the approved status.
func approvedUser(t *testing.T, store *repositories.Store, email, phone string) *models.User {
	t.Helper()
	user, err := store.Users.Create(context.Background(), &models.User{
		Name:           "Asha Rao",
		Email:          email,
		PhoneNumber:    phone,
		EmployeeNumber: "E-1001",
		Department:     "Finance",
		Status:         models.UserStatusApproved,
	})
	require.NoError(t, err)
	return user
}

func newMemoryStore() *repositories.Store {
	return memory.NewStore()
}
