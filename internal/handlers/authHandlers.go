package handlers

import (
	"net/http"

	"snapecabs/internal/middlewares"
	"snapecabs/internal/models"
	"snapecabs/internal/services"
	"snapecabs/internal/utils"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.authService.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

func (h *AuthHandler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	claims, _ := middlewares.ClaimsFromContext(r.Context())
	if err := h.authService.AdminLogout(r.Context(), claims); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.MessageResponse{Message: "Logout successful"})
}

// UserLogin sends a login passcode to an approved employee's phone.
func (h *AuthHandler) UserLogin(w http.ResponseWriter, r *http.Request) {
	var req models.PhoneLoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.authService.RequestLoginOTP(r.Context(), req.PhoneNumber); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.MessageResponse{Message: "OTP sent for verification"})
}

func (h *AuthHandler) VerifyLogin(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, user, err := h.authService.VerifyLogin(r.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.UserLoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    user.Summary(),
	})
}

func (h *AuthHandler) UserLogout(w http.ResponseWriter, r *http.Request) {
	claims, _ := middlewares.ClaimsFromContext(r.Context())
	token := middlewares.TokenFromContext(r.Context())

	if err := h.authService.Logout(r.Context(), token, claims); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.MessageResponse{Message: "Logout successful"})
}
