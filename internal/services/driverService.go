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

// DefaultDrivers are created by SeedDefaults on an empty store.
var DefaultDrivers = []models.CreateDriverRequest{
	{Name: "Rajesh Kumar", PhoneNumber: "+91 8765432100", LicenseNumber: "DL-1234567890"},
	{Name: "Amit Singh", PhoneNumber: "+91 8765432101", LicenseNumber: "DL-2345678901"},
	{Name: "Vijay Sharma", PhoneNumber: "+91 8765432102", LicenseNumber: "DL-3456789012"},
	{Name: "Rakesh Patel", PhoneNumber: "+91 8765432103", LicenseNumber: "DL-4567890123"},
}

type DriverService interface {
	List(ctx context.Context) ([]models.Driver, error)
	ListAvailable(ctx context.Context) ([]models.Driver, error)
	Create(ctx context.Context, req *models.CreateDriverRequest) (*models.Driver, error)
	SeedDefaults(ctx context.Context) (int, error)
}

type driverService struct {
	driverRepo repositories.DriverRepository
}

func NewDriverService(driverRepo repositories.DriverRepository) DriverService {
	return &driverService{driverRepo: driverRepo}
}

func (s *driverService) List(ctx context.Context) ([]models.Driver, error) {
	return s.driverRepo.List(ctx)
}

func (s *driverService) ListAvailable(ctx context.Context) ([]models.Driver, error) {
	return s.driverRepo.ListByStatus(ctx, models.DriverStatusAvailable)
}

func (s *driverService) Create(ctx context.Context, req *models.CreateDriverRequest) (*models.Driver, error) {
	driver, err := s.driverRepo.Create(ctx, &models.Driver{
		Name:          req.Name,
		PhoneNumber:   req.PhoneNumber,
		LicenseNumber: req.LicenseNumber,
		Status:        models.DriverStatusAvailable,
	})
	switch {
	case repositories.IsDuplicateKey(err, repositories.FieldPhoneNumber):
		return nil, ErrDriverPhoneTaken
	case repositories.IsDuplicateKey(err, repositories.FieldLicenseNumber):
		return nil, ErrLicenseTaken
	case err != nil:
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	metrics.DriversCreatedTotal.Inc()
	log.Info().Str("driver_id", driver.ID).Msg("Driver created")
	return driver, nil
}

// SeedDefaults inserts DefaultDrivers when no driver exists yet and returns
// how many were created.
func (s *driverService) SeedDefaults(ctx context.Context) (int, error) {
	n, err := s.driverRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	created := 0
	for i := range DefaultDrivers {
		_, err := s.Create(ctx, &DefaultDrivers[i])
		if errors.Is(err, ErrDriverPhoneTaken) || errors.Is(err, ErrLicenseTaken) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}
	log.Info().Int("count", created).Msg("Seeded sample drivers")
	return created, nil
}
