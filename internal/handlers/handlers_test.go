package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapecabs/internal/database"
	"snapecabs/internal/models"
	"snapecabs/internal/services"
)

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantErrors map[string]string
	}{
		{
			name:   "valid",
			body:   `{"name":"Asha","email":"asha@example.com","phoneNumber":"+911111111111","employeeNumber":"E1","department":"Finance"}`,
			wantOK: true,
		},
		{
			name:   "malformed json",
			body:   `{"name":`,
			wantOK: false,
		},
		{
			name:       "missing and invalid fields",
			body:       `{"name":"Asha","email":"not-an-email","phoneNumber":"+911111111111"}`,
			wantOK:     false,
			wantErrors: map[string]string{"email": "email", "employeeNumber": "required", "department": "required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			var dst models.RegisterUserRequest
			ok := decodeAndValidate(rr, req, &dst)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				return
			}

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			var resp validationErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "Invalid input", resp.Message)
			if tt.wantErrors != nil {
				assert.Equal(t, tt.wantErrors, resp.Errors)
			}
		})
	}
}

func TestRespondWithServiceError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{fmt.Errorf("wrapped: %w", services.ErrBookingNotFound), http.StatusNotFound, "Booking not found"},
		{services.ErrAccountNotApproved, http.StatusForbidden, notApprovedMessage},
		{services.ErrAlreadyAllocated, http.StatusBadRequest, "Booking already allocated to a driver"},
		{services.ErrEmailTaken, http.StatusBadRequest, "Email already registered"},
		{services.ErrPhoneTaken, http.StatusBadRequest, "Phone number already registered"},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{services.ErrSessionNotFound, http.StatusBadRequest, "Invalid token"},
		{fmt.Errorf("%w: smtp down", services.ErrDeliveryFailed), http.StatusInternalServerError, "Failed to send OTP"},
		{errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			rr := httptest.NewRecorder()
			respondWithServiceError(rr, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, rr.Code)
			var body models.MessageResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestHealthHandler(t *testing.T) {
	h := NewCommonHandler(database.NewMemory())
	rr := httptest.NewRecorder()
	h.HealthHandler(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"It's healthy"}`, rr.Body.String())
}
