package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"snapecabs/internal/services"
	"snapecabs/internal/utils"
)

const notApprovedMessage = "Your account is not approved yet. Please wait for admin approval."

var errorResponses = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
	{services.ErrDriverNotFound, http.StatusNotFound, "Driver not found"},
	{services.ErrAccountNotApproved, http.StatusForbidden, notApprovedMessage},
	{services.ErrAlreadyAllocated, http.StatusBadRequest, "Booking already allocated to a driver"},
	{services.ErrBookingNotApproved, http.StatusBadRequest, "Booking must be approved before allocation"},
	{services.ErrEmailTaken, http.StatusBadRequest, "Email already registered"},
	{services.ErrPhoneTaken, http.StatusBadRequest, "Phone number already registered"},
	{services.ErrDriverPhoneTaken, http.StatusBadRequest, "Driver phone number already registered"},
	{services.ErrLicenseTaken, http.StatusBadRequest, "License number already registered"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{services.ErrInvalidOTP, http.StatusBadRequest, "Invalid or expired OTP"},
	{services.ErrSessionNotFound, http.StatusBadRequest, "Invalid token"},
	{services.ErrInvalidToken, http.StatusBadRequest, "Invalid token"},
	{services.ErrDeliveryFailed, http.StatusInternalServerError, "Failed to send OTP"},
}

// respondWithServiceError maps a service error onto a status and message.
// Unknown errors are logged and reported as 500.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range errorResponses {
		if errors.Is(err, e.err) {
			utils.RespondWithError(w, e.status, e.message)
			return
		}
	}
	hlog.FromRequest(r).Error().Err(err).Msg("Request failed")
	utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
}
