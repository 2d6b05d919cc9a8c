package handlers

import (
	"context"
	"net/http"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
)

// PatientService defines the interface for patient profile operations
type PatientService interface {
	GetPatient(ctx context.Context) (*entities.Patient, error)
}

// PatientHandler handles patient profile requests
type PatientHandler struct {
	service PatientService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(service PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

// GetPatient handles GET /api/patient
func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patient, err := h.service.GetPatient(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, patient)
}
