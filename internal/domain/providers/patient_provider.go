package providers

import (
	"context"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
)

// PatientProfileSource supplies the patient shown on the dashboard
type PatientProfileSource interface {
	GetPatient(ctx context.Context) (*entities.Patient, error)
}
