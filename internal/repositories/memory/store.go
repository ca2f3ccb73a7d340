// Package memory is an in-process store backend. It keeps every table behind
// one lock so that multi-row operations such as Allocate are atomic.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"snapecabs/internal/database"
	"snapecabs/internal/models"
	"snapecabs/internal/repositories"
)

type state struct {
	mu          sync.RWMutex
	users       map[string]models.User
	otps        map[string]models.OTP
	bookings    map[string]models.Booking
	drivers     map[string]models.Driver
	allocations map[string]models.Allocation
	sessions    map[string]models.Session
	clock       time.Time
}

// NewStore returns an empty in-memory Store.
func NewStore() *repositories.Store {
	s := &state{
		users:       make(map[string]models.User),
		otps:        make(map[string]models.OTP),
		bookings:    make(map[string]models.Booking),
		drivers:     make(map[string]models.Driver),
		allocations: make(map[string]models.Allocation),
		sessions:    make(map[string]models.Session),
	}
	return &repositories.Store{
		DB:           database.NewMemory(),
		Users:        &userRepository{s},
		OTPs:         &otpRepository{s},
		Bookings:     &bookingRepository{s},
		Drivers:      &driverRepository{s},
		Allocations:  &allocationRepository{s},
		Sessions:     &sessionRepository{s},
		EnsureSchema: func(context.Context) error { return nil },
	}
}

func newID() string {
	return uuid.NewString()
}

// now returns a strictly increasing timestamp so that rows created within the
// same clock tick still sort in insertion order. Callers hold mu.
func (s *state) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.clock) {
		t = s.clock.Add(time.Microsecond)
	}
	s.clock = t
	return t
}

func sortByCreated[T any](items []T, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return created(items[i]).Before(created(items[j]))
	})
}

type userRepository struct{ s *state }

func (r *userRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, &repositories.DuplicateKeyError{Field: repositories.FieldEmail}
		}
		if u.PhoneNumber == user.PhoneNumber {
			return nil, &repositories.DuplicateKeyError{Field: repositories.FieldPhoneNumber}
		}
	}

	user.ID = newID()
	user.CreatedAt = r.s.now()
	if user.Status == "" {
		user.Status = models.UserStatusPending
	}
	r.s.users[user.ID] = *user
	out := *user
	return &out, nil
}

func (r *userRepository) find(match func(models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *userRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *userRepository) FindByPhone(_ context.Context, phoneNumber string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.PhoneNumber == phoneNumber })
}

func (r *userRepository) UpdateStatus(_ context.Context, id string, status models.UserStatus) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	u.Status = status
	r.s.users[id] = u
	return &u, nil
}

func (r *userRepository) ListByStatus(_ context.Context, status models.UserStatus) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]models.User, 0)
	for _, u := range r.s.users {
		if u.Status == status {
			users = append(users, u)
		}
	}
	sortByCreated(users, func(u models.User) time.Time { return u.CreatedAt })
	return users, nil
}

type otpRepository struct{ s *state }

func (r *otpRepository) Replace(_ context.Context, otp *models.OTP) (*models.OTP, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, o := range r.s.otps {
		if o.PhoneNumber == otp.PhoneNumber {
			delete(r.s.otps, id)
		}
	}

	otp.ID = newID()
	otp.CreatedAt = r.s.now()
	otp.IsVerified = false
	r.s.otps[otp.ID] = *otp
	out := *otp
	return &out, nil
}

func (r *otpRepository) FindLatestByPhone(_ context.Context, phoneNumber string) (*models.OTP, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var latest *models.OTP
	for _, o := range r.s.otps {
		if o.PhoneNumber != phoneNumber {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			o := o
			latest = &o
		}
	}
	if latest == nil {
		return nil, repositories.ErrNotFound
	}
	return latest, nil
}

func (r *otpRepository) MarkVerified(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.otps[id]
	if !ok || o.IsVerified {
		return false, nil
	}
	o.IsVerified = true
	r.s.otps[id] = o
	return true, nil
}

type bookingRepository struct{ s *state }

func (r *bookingRepository) Create(_ context.Context, booking *models.Booking) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	booking.ID = newID()
	booking.CreatedAt = r.s.now()
	if booking.Status == "" {
		booking.Status = models.BookingStatusPending
	}
	r.s.bookings[booking.ID] = *booking
	out := *booking
	return &out, nil
}

func (r *bookingRepository) FindByID(_ context.Context, id string) (*models.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &b, nil
}

func (r *bookingRepository) list(match func(models.Booking) bool) []models.Booking {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bookings := make([]models.Booking, 0)
	for _, b := range r.s.bookings {
		if match(b) {
			bookings = append(bookings, b)
		}
	}
	sortByCreated(bookings, func(b models.Booking) time.Time { return b.CreatedAt })
	return bookings
}

func (r *bookingRepository) ListByStatus(_ context.Context, status models.BookingStatus) ([]models.Booking, error) {
	return r.list(func(b models.Booking) bool { return b.Status == status }), nil
}

func (r *bookingRepository) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	return r.list(func(b models.Booking) bool { return b.UserID == userID }), nil
}

func (r *bookingRepository) UpdateStatus(_ context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	b.Status = status
	r.s.bookings[id] = b
	return &b, nil
}

type driverRepository struct{ s *state }

func (r *driverRepository) Create(_ context.Context, driver *models.Driver) (*models.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, d := range r.s.drivers {
		if d.PhoneNumber == driver.PhoneNumber {
			return nil, &repositories.DuplicateKeyError{Field: repositories.FieldPhoneNumber}
		}
		if d.LicenseNumber == driver.LicenseNumber {
			return nil, &repositories.DuplicateKeyError{Field: repositories.FieldLicenseNumber}
		}
	}

	driver.ID = newID()
	driver.CreatedAt = r.s.now()
	if driver.Status == "" {
		driver.Status = models.DriverStatusAvailable
	}
	r.s.drivers[driver.ID] = *driver
	out := *driver
	return &out, nil
}

func (r *driverRepository) FindByID(_ context.Context, id string) (*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.drivers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &d, nil
}

func (r *driverRepository) list(match func(models.Driver) bool) []models.Driver {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	drivers := make([]models.Driver, 0)
	for _, d := range r.s.drivers {
		if match(d) {
			drivers = append(drivers, d)
		}
	}
	sort.SliceStable(drivers, func(i, j int) bool { return drivers[i].Name < drivers[j].Name })
	return drivers
}

func (r *driverRepository) List(_ context.Context) ([]models.Driver, error) {
	return r.list(func(models.Driver) bool { return true }), nil
}

func (r *driverRepository) ListByStatus(_ context.Context, status models.DriverStatus) ([]models.Driver, error) {
	return r.list(func(d models.Driver) bool { return d.Status == status }), nil
}

func (r *driverRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.drivers)), nil
}

type allocationRepository struct{ s *state }

func (r *allocationRepository) Allocate(_ context.Context, allocation *models.Allocation) (*models.Allocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.allocations {
		if a.BookingID == allocation.BookingID {
			return nil, &repositories.DuplicateKeyError{Field: repositories.FieldBookingID}
		}
	}
	driver, ok := r.s.drivers[allocation.DriverID]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	allocation.ID = newID()
	allocation.CreatedAt = r.s.now()
	if allocation.Status == "" {
		allocation.Status = models.AllocationStatusAllocated
	}
	r.s.allocations[allocation.ID] = *allocation

	driver.Status = models.DriverStatusBusy
	r.s.drivers[driver.ID] = driver

	out := *allocation
	return &out, nil
}

func (r *allocationRepository) FindByBookingID(_ context.Context, bookingID string) (*models.Allocation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.allocations {
		if a.BookingID == bookingID {
			return &a, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *allocationRepository) List(_ context.Context) ([]models.Allocation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	allocations := make([]models.Allocation, 0, len(r.s.allocations))
	for _, a := range r.s.allocations {
		allocations = append(allocations, a)
	}
	sortByCreated(allocations, func(a models.Allocation) time.Time { return a.CreatedAt })
	return allocations, nil
}

type sessionRepository struct{ s *state }

func (r *sessionRepository) Create(_ context.Context, session *models.Session) (*models.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.sessions {
		if existing.Token == session.Token {
			return nil, &repositories.DuplicateKeyError{Field: repositories.FieldToken}
		}
	}

	session.ID = newID()
	session.CreatedAt = r.s.now()
	r.s.sessions[session.ID] = *session
	out := *session
	return &out, nil
}

func (r *sessionRepository) FindByToken(_ context.Context, token string) (*models.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, session := range r.s.sessions {
		if session.Token == token {
			return &session, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *sessionRepository) DeleteByToken(_ context.Context, token string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, session := range r.s.sessions {
		if session.Token == token {
			delete(r.s.sessions, id)
			return true, nil
		}
	}
	return false, nil
}
