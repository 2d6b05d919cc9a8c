package services

import (
	"context"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

// PatientService serves the signed-in patient's profile
type PatientService struct {
	source providers.PatientProfileSource
}

// NewPatientService creates a new patient service
func NewPatientService(source providers.PatientProfileSource) *PatientService {
	return &PatientService{source: source}
}

// GetPatient returns the current patient profile
func (s *PatientService) GetPatient(ctx context.Context) (*entities.Patient, error) {
	patient, err := s.source.GetPatient(ctx)
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, apperrors.NewInternalError("failed to load patient profile", err)
	}
	return patient, nil
}
