package handlers

import (
	"net/http"

	"snapecabs/internal/middlewares"
	"snapecabs/internal/models"
	"snapecabs/internal/services"
	"snapecabs/internal/utils"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims, _ := middlewares.ClaimsFromContext(r.Context())
	booking, err := h.bookingService.Create(r.Context(), claims.UserID, &req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, _ := middlewares.ClaimsFromContext(r.Context())
	bookings, err := h.bookingService.ListMine(r.Context(), claims.UserID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.ListPending(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.ListApproved(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateBookingStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	booking, err := h.bookingService.SetStatus(r.Context(), req.ID, req.Status)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, booking)
}
