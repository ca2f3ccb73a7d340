package handlers

import (
	"net/http"

	"snapecabs/internal/models"
	"snapecabs/internal/services"
	"snapecabs/internal/utils"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (u *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := u.userService.Register(r.Context(), &req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, models.RegisterResponse{
		Message: "User registered successfully! OTP sent for verification",
		UserID:  user.ID,
	})
}

func (u *UserHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := u.userService.VerifyRegistration(r.Context(), req.PhoneNumber, req.OTP); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.MessageResponse{Message: "OTP verification successful"})
}

func (u *UserHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	users, err := u.userService.ListPending(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

func (u *UserHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	users, err := u.userService.ListApproved(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

func (u *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := u.userService.SetStatus(r.Context(), req.ID, req.Status)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}
