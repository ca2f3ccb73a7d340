package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"snapecabs/internal/metrics"
	"snapecabs/internal/models"
	"snapecabs/internal/repositories"
	"snapecabs/internal/utils"
)

// OTPService issues and checks one-time passcodes bound to phone numbers.
type OTPService interface {
	// Request replaces any earlier passcode for phoneNumber with a new one
	// and delivers it. A delivery failure is reported as ErrDeliveryFailed.
	Request(ctx context.Context, phoneNumber string, userID *string) error
	// Verify reports whether code is the latest unexpired, unused passcode
	// for phoneNumber, consuming it when it is.
	Verify(ctx context.Context, phoneNumber, code string) (bool, error)
}

type otpService struct {
	otpRepo repositories.OTPRepository
	sender  Sender
	ttl     time.Duration
	now     func() time.Time
}

func NewOTPService(otpRepo repositories.OTPRepository, sender Sender, ttl time.Duration) OTPService {
	return &otpService{otpRepo: otpRepo, sender: sender, ttl: ttl, now: time.Now}
}

func (s *otpService) Request(ctx context.Context, phoneNumber string, userID *string) error {
	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	otp := &models.OTP{
		UserID:      userID,
		PhoneNumber: phoneNumber,
		Code:        code,
		ExpiresAt:   s.now().Add(s.ttl).UTC(),
	}
	if _, err := s.otpRepo.Replace(ctx, otp); err != nil {
		return err
	}

	if err := s.sender.Send(ctx, phoneNumber, code); err != nil {
		metrics.OTPIssuedTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("phone", phoneNumber).Msg("Failed to deliver OTP")
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	metrics.OTPIssuedTotal.WithLabelValues("sent").Inc()
	log.Info().Str("phone", phoneNumber).Msg("OTP issued")
	return nil
}

func (s *otpService) Verify(ctx context.Context, phoneNumber, code string) (bool, error) {
	otp, err := s.otpRepo.FindLatestByPhone(ctx, phoneNumber)
	if errors.Is(err, repositories.ErrNotFound) {
		metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) != 1 || !otp.Active(s.now()) {
		metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
		return false, nil
	}

	ok, err := s.otpRepo.MarkVerified(ctx, otp.ID)
	if err != nil {
		return false, err
	}
	if !ok {
		metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
		return false, nil
	}

	metrics.OTPVerificationsTotal.WithLabelValues("valid").Inc()
	return true, nil
}
