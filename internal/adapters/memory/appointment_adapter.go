package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/repositories"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

// AppointmentAdapter implements the AppointmentRepository interface in process memory.
// Records live for the lifetime of the adapter; nothing is persisted.
type AppointmentAdapter struct {
	mu      sync.Mutex
	records []storedAppointment
	ids     map[string]struct{}
}

type storedAppointment struct {
	appointment *entities.Appointment
	slot        time.Time
	slotValid   bool
}

var _ repositories.AppointmentRepository = (*AppointmentAdapter)(nil)

// NewAppointmentAdapter creates an empty in-memory appointment store
func NewAppointmentAdapter() *AppointmentAdapter {
	return &AppointmentAdapter{
		ids: make(map[string]struct{}),
	}
}

// Append stores a copy of appointment
func (a *AppointmentAdapter) Append(ctx context.Context, appointment *entities.Appointment) (*entities.Appointment, error) {
	if appointment == nil {
		return nil, apperrors.NewInternalError("appointment is nil", nil)
	}
	if appointment.ID == "" {
		return nil, apperrors.NewInternalError("appointment id must be assigned before append", nil)
	}

	record := storedAppointment{appointment: appointment.Clone()}
	record.slot, record.slotValid = parseSlot(appointment.SlotISO)

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.ids[appointment.ID]; exists {
		return nil, apperrors.NewInternalError("duplicate appointment id "+appointment.ID, nil)
	}
	a.ids[appointment.ID] = struct{}{}
	a.records = append(a.records, record)

	return record.appointment.Clone(), nil
}

// ListAll returns copies of every appointment, latest slot first
func (a *AppointmentAdapter) ListAll(ctx context.Context) ([]*entities.Appointment, error) {
	a.mu.Lock()
	snapshot := make([]storedAppointment, len(a.records))
	copy(snapshot, a.records)
	a.mu.Unlock()

	// snapshot is in append order, so a stable sort keeps ties in append order.
	sort.SliceStable(snapshot, func(i, j int) bool {
		return slotAfter(snapshot[i], snapshot[j])
	})

	out := make([]*entities.Appointment, 0, len(snapshot))
	for _, record := range snapshot {
		out = append(out, record.appointment.Clone())
	}
	return out, nil
}

// Count returns the number of stored appointments
func (a *AppointmentAdapter) Count(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records), nil
}

func parseSlot(value string) (time.Time, bool) {
	t, err := entities.ParseSlot(value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// slotAfter orders parseable slots by instant, ahead of any malformed slot;
// malformed slots fall back to descending text order.
func slotAfter(x, y storedAppointment) bool {
	switch {
	case x.slotValid && y.slotValid:
		return x.slot.After(y.slot)
	case x.slotValid != y.slotValid:
		return x.slotValid
	default:
		return x.appointment.SlotISO > y.appointment.SlotISO
	}
}
