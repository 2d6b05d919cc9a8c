package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/repositories"
	"github.com/ayursutra/wellness-portal/internal/infrastructure/observability"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

// AppointmentIDPrefix prefixes every generated appointment id
const AppointmentIDPrefix = "appt_"

// SlotPolicy controls how strictly booking requests are checked
type SlotPolicy struct {
	// ValidateTimestamp rejects slots that do not parse as an RFC 3339 instant.
	ValidateTimestamp bool
	// RejectPast rejects slots earlier than the current time. Requires ValidateTimestamp.
	RejectPast bool
}

// BookingRequest is the payload of POST /api/appointments
type BookingRequest struct {
	Centre    *entities.Centre `json:"centre"`
	PatientID string           `json:"patientId"`
	SlotISO   string           `json:"slotISO"`
}

// AppointmentService handles appointment booking logic
type AppointmentService struct {
	repo    repositories.AppointmentRepository
	policy  SlotPolicy
	metrics *observability.Metrics
	now     func() time.Time
	newID   func() string
}

// NewAppointmentService creates a new appointment service. metrics may be nil.
func NewAppointmentService(repo repositories.AppointmentRepository, policy SlotPolicy, metrics *observability.Metrics) *AppointmentService {
	return &AppointmentService{
		repo:    repo,
		policy:  policy,
		metrics: metrics,
		now:     time.Now,
		newID:   func() string { return AppointmentIDPrefix + uuid.NewString() },
	}
}

// BookAppointment validates req and appends a new appointment to the store.
// Double booking of a centre and slot is allowed.
func (s *AppointmentService) BookAppointment(ctx context.Context, req BookingRequest) (*entities.Appointment, error) {
	ctx, span := observability.StartSpan(ctx, "AppointmentService.BookAppointment")
	defer span.End()

	if err := s.validate(req); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	appointment := &entities.Appointment{
		ID:        s.newID(),
		PatientID: req.PatientID,
		Centre:    req.Centre.Snapshot(),
		SlotISO:   req.SlotISO,
	}

	stored, err := s.repo.Append(ctx, appointment)
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewInternalError("failed to store appointment", err)
	}

	observability.RecordAppointmentBooked(ctx, s.metrics)
	observability.LoggerFromContext(ctx).Info().
		Str("appointment_id", stored.ID).
		Str("patient_id", stored.PatientID).
		Str("centre_id", stored.Centre.ID).
		Str("slot", stored.SlotISO).
		Msg("appointment booked")

	return stored, nil
}

func (s *AppointmentService) validate(req BookingRequest) error {
	var missing []string
	if req.Centre.IsZero() {
		missing = append(missing, "centre")
	}
	if strings.TrimSpace(req.PatientID) == "" {
		missing = append(missing, "patientId")
	}
	if strings.TrimSpace(req.SlotISO) == "" {
		missing = append(missing, "slotISO")
	}
	if len(missing) > 0 {
		return apperrors.NewMissingFieldError(missing...)
	}

	if !s.policy.ValidateTimestamp {
		return nil
	}
	slot, err := entities.ParseSlot(req.SlotISO)
	if err != nil {
		return apperrors.NewInvalidTimestampError(req.SlotISO, err)
	}
	if s.policy.RejectPast && slot.Before(s.now()) {
		return apperrors.NewValidationError(fmt.Sprintf("slot %s is in the past", req.SlotISO))
	}
	return nil
}

// ListAppointments returns every stored appointment, newest slot first
func (s *AppointmentService) ListAppointments(ctx context.Context) ([]*entities.Appointment, error) {
	appointments, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	return appointments, nil
}
