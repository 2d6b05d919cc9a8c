package dashboard

import (
	"time"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
)

const (
	formDateLayout = "2006-01-02"
	formTimeLayout = "15:04"
	displayLayout  = "Mon, 02 Jan 2006 3:04 PM"
)

// SlotFromForm combines the form's date ("2006-01-02") and time ("15:04") in loc and
// renders the instant in the canonical UTC slot form.
func SlotFromForm(date, clock string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(formDateLayout+"T"+formTimeLayout, date+"T"+clock, loc)
	if err != nil {
		return "", err
	}
	return entities.FormatSlot(t), nil
}

// DisplaySlot renders a slot for the appointment list in loc. Unparseable slots are shown as stored.
func DisplaySlot(slotISO string, loc *time.Location) string {
	t, err := entities.ParseSlot(slotISO)
	if err != nil {
		return slotISO
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(displayLayout)
}
