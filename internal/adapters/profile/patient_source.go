package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
)

// SamplePatient is the profile served when no profile file is configured
func SamplePatient() entities.Patient {
	return entities.Patient{
		ID:        "patient-001",
		FirstName: "Anaya",
		LastName:  "Sharma",
		Email:     "anaya.sharma@example.com",
		Phone:     "+91 98765 43210",
		DOB:       "1994-08-22",
		Address:   "Bandra West, Mumbai, Maharashtra, India",
		Medical: entities.MedicalHistory{
			BloodGroup:  "B+",
			Conditions:  []string{"Migraine", "Hypothyroidism"},
			Allergies:   []string{"Penicillin"},
			Medications: []string{"Levothyroxine 50mcg"},
		},
	}
}

// StaticPatientSource serves a single fixed patient profile
type StaticPatientSource struct {
	patient entities.Patient
}

var _ providers.PatientProfileSource = (*StaticPatientSource)(nil)

// NewStaticPatientSource creates a source that always returns patient
func NewStaticPatientSource(patient entities.Patient) *StaticPatientSource {
	return &StaticPatientSource{patient: patient}
}

// NewPatientSource returns the sample profile, or the profile stored at path when set.
func NewPatientSource(path string) (*StaticPatientSource, error) {
	if strings.TrimSpace(path) == "" {
		return NewStaticPatientSource(SamplePatient()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read patient profile: %w", err)
	}

	var patient entities.Patient
	if err := json.Unmarshal(data, &patient); err != nil {
		return nil, fmt.Errorf("failed to decode patient profile: %w", err)
	}
	if strings.TrimSpace(patient.ID) == "" {
		return nil, fmt.Errorf("patient profile %s has no id", path)
	}
	normalize(&patient)

	return NewStaticPatientSource(patient), nil
}

// GetPatient returns a copy of the configured profile
func (s *StaticPatientSource) GetPatient(ctx context.Context) (*entities.Patient, error) {
	p := s.patient
	p.Medical.Conditions = append([]string{}, s.patient.Medical.Conditions...)
	p.Medical.Allergies = append([]string{}, s.patient.Medical.Allergies...)
	p.Medical.Medications = append([]string{}, s.patient.Medical.Medications...)
	return &p, nil
}

// normalize keeps list fields as empty arrays in JSON responses
func normalize(p *entities.Patient) {
	if p.Medical.Conditions == nil {
		p.Medical.Conditions = []string{}
	}
	if p.Medical.Allergies == nil {
		p.Medical.Allergies = []string{}
	}
	if p.Medical.Medications == nil {
		p.Medical.Medications = []string{}
	}
}
