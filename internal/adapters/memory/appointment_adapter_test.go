package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
)

func appointment(id, slot string) *entities.Appointment {
	return &entities.Appointment{
		ID:        id,
		PatientID: "patient-001",
		Centre:    entities.Centre{ID: "c-" + id, Name: "Centre " + id},
		SlotISO:   slot,
	}
}

func ids(list []*entities.Appointment) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestAppointmentAdapter_ListAllReturnsEveryAppend(t *testing.T) {
	ctx := context.Background()
	store := NewAppointmentAdapter()

	var appended []*entities.Appointment
	for i := 0; i < 5; i++ {
		stored, err := store.Append(ctx, appointment(fmt.Sprintf("a%d", i), fmt.Sprintf("2025-03-0%dT10:00:00.000Z", i+1)))
		require.NoError(t, err)
		appended = append(appended, stored)
	}

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)

	byID := map[string]*entities.Appointment{}
	for _, a := range all {
		byID[a.ID] = a
	}
	for _, want := range appended {
		assert.Equal(t, want, byID[want.ID])
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestAppointmentAdapter_OrdersBySlotDescending(t *testing.T) {
	ctx := context.Background()
	store := NewAppointmentAdapter()

	for _, a := range []*entities.Appointment{
		appointment("early", "2025-01-01T09:00:00.000Z"),
		appointment("late", "2025-06-01T09:00:00.000Z"),
		appointment("middle", "2025-03-01T09:00:00.000Z"),
	} {
		_, err := store.Append(ctx, a)
		require.NoError(t, err)
	}

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"late", "middle", "early"}, ids(all))
}

func TestAppointmentAdapter_EqualSlotsKeepAppendOrder(t *testing.T) {
	ctx := context.Background()
	store := NewAppointmentAdapter()

	slot := "2025-03-01T10:00:00.000Z"
	for _, a := range []*entities.Appointment{
		appointment("first", slot),
		appointment("later-slot", "2025-04-01T10:00:00.000Z"),
		appointment("second", slot),
		// Same instant written with an offset.
		appointment("third", "2025-03-01T15:30:00+05:30"),
	} {
		_, err := store.Append(ctx, a)
		require.NoError(t, err)
	}

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"later-slot", "first", "second", "third"}, ids(all))
}

func TestAppointmentAdapter_MalformedSlotsSortAfterValid(t *testing.T) {
	ctx := context.Background()
	store := NewAppointmentAdapter()

	for _, a := range []*entities.Appointment{
		appointment("bad-a", "tomorrow"),
		appointment("valid", "2025-03-01T10:00:00.000Z"),
		appointment("bad-b", "yesterday"),
	} {
		_, err := store.Append(ctx, a)
		require.NoError(t, err)
	}

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"valid", "bad-b", "bad-a"}, ids(all))
}

func TestAppointmentAdapter_RejectsDuplicateAndMissingIDs(t *testing.T) {
	ctx := context.Background()
	store := NewAppointmentAdapter()

	_, err := store.Append(ctx, appointment("dup", "2025-03-01T10:00:00.000Z"))
	require.NoError(t, err)

	_, err = store.Append(ctx, appointment("dup", "2025-03-02T10:00:00.000Z"))
	assert.Error(t, err)

	_, err = store.Append(ctx, appointment("", "2025-03-02T10:00:00.000Z"))
	assert.Error(t, err)

	count, _ := store.Count(ctx)
	assert.Equal(t, 1, count)
}

func TestAppointmentAdapter_CallersCannotMutateStoredRecords(t *testing.T) {
	ctx := context.Background()
	store := NewAppointmentAdapter()

	rating := 4.2
	input := appointment("a1", "2025-03-01T10:00:00.000Z")
	input.Centre.Rating = &rating

	stored, err := store.Append(ctx, input)
	require.NoError(t, err)

	input.Centre.Name = "changed after booking"
	*input.Centre.Rating = 1
	stored.SlotISO = "mutated"

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Centre a1", all[0].Centre.Name)
	assert.Equal(t, 4.2, *all[0].Centre.Rating)
	assert.Equal(t, "2025-03-01T10:00:00.000Z", all[0].SlotISO)
}

func TestAppointmentAdapter_ConcurrentAppendsAreNotLost(t *testing.T) {
	ctx := context.Background()
	store := NewAppointmentAdapter()

	const writers = 16
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := store.Append(ctx, appointment(fmt.Sprintf("w%d-%d", w, i), "2025-03-01T10:00:00.000Z"))
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, writers*perWriter)

	seen := map[string]bool{}
	for _, a := range all {
		assert.False(t, seen[a.ID], "duplicate record %s", a.ID)
		seen[a.ID] = true
	}
}
