package entities

import (
	"time"
)

// SlotLayout is the canonical text form of an appointment slot (UTC, millisecond precision)
const SlotLayout = "2006-01-02T15:04:05.000Z07:00"

// Appointment represents a booked visit to a centre
type Appointment struct {
	ID        string `json:"id"`
	PatientID string `json:"patientId"`
	// Centre is a snapshot taken at booking time, not a live reference.
	Centre  Centre `json:"centre"`
	SlotISO string `json:"slotISO"`
}

// Slot parses SlotISO as an RFC 3339 instant
func (a *Appointment) Slot() (time.Time, error) {
	return ParseSlot(a.SlotISO)
}

// ParseSlot parses an RFC 3339 timestamp with optional fractional seconds
func ParseSlot(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}

// FormatSlot renders t in the canonical UTC slot form, e.g. 2025-03-01T10:00:00.000Z
func FormatSlot(t time.Time) string {
	return t.UTC().Format(SlotLayout)
}

// Clone returns a copy that shares no mutable state with a
func (a *Appointment) Clone() *Appointment {
	out := *a
	out.Centre = a.Centre.Snapshot()
	return &out
}
