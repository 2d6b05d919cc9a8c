package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ayursutra/wellness-portal/internal/application/services"
	"github.com/ayursutra/wellness-portal/internal/domain/entities"
)

// AppointmentService defines the interface for appointment operations
type AppointmentService interface {
	BookAppointment(ctx context.Context, req services.BookingRequest) (*entities.Appointment, error)
	ListAppointments(ctx context.Context) ([]*entities.Appointment, error)
}

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	service AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
	}
}

// ListAppointments handles GET /api/appointments
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.service.ListAppointments(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if appointments == nil {
		appointments = []*entities.Appointment{}
	}
	respondWithJSON(w, http.StatusOK, appointments)
}

// BookAppointment handles POST /api/appointments
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req services.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	appointment, err := h.service.BookAppointment(r.Context(), req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}
