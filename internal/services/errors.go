package services

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrDriverNotFound     = errors.New("driver not found")
	ErrAccountNotApproved = errors.New("account not approved")
	ErrAlreadyAllocated   = errors.New("booking already allocated")
	ErrBookingNotApproved = errors.New("booking not approved")

	ErrEmailTaken       = errors.New("email already registered")
	ErrPhoneTaken       = errors.New("phone number already registered")
	ErrDriverPhoneTaken = errors.New("driver phone number already registered")
	ErrLicenseTaken     = errors.New("license number already registered")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionNotFound    = errors.New("session not found")
	ErrDeliveryFailed     = errors.New("failed to send OTP")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
)
