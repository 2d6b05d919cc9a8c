package repositories

import (
	"context"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment storage
type AppointmentRepository interface {
	// Append stores a new appointment and returns the stored record
	Append(ctx context.Context, appointment *entities.Appointment) (*entities.Appointment, error)

	// ListAll returns every stored appointment, latest slot first; equal slots keep append order
	ListAll(ctx context.Context) ([]*entities.Appointment, error)

	// Count returns the number of stored appointments
	Count(ctx context.Context) (int, error)
}
