package handlers

import (
	"net/http"

	"snapecabs/internal/models"
	"snapecabs/internal/services"
	"snapecabs/internal/utils"
)

type DriverHandler struct {
	driverService     services.DriverService
	allocationService services.AllocationService
}

func NewDriverHandler(driverService services.DriverService, allocationService services.AllocationService) *DriverHandler {
	return &DriverHandler{driverService: driverService, allocationService: allocationService}
}

func (h *DriverHandler) List(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.driverService.List(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, drivers)
}

func (h *DriverHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.driverService.ListAvailable(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, drivers)
}

func (h *DriverHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDriverRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	driver, err := h.driverService.Create(r.Context(), &req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, driver)
}

func (h *DriverHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req models.AllocateDriverRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	allocation, err := h.allocationService.Allocate(r.Context(), req.BookingID, req.DriverID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, allocation)
}
