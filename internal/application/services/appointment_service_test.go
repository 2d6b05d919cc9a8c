package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ayursutra/wellness-portal/internal/adapters/memory"
	"github.com/ayursutra/wellness-portal/internal/application/services"
	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

// Mocks

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Append(ctx context.Context, appointment *entities.Appointment) (*entities.Appointment, error) {
	args := m.Called(ctx, appointment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListAll(ctx context.Context) ([]*entities.Appointment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func serenity() *entities.Centre {
	rating := 4.5
	return &entities.Centre{
		ID:       "c1",
		Name:     "Serenity Spa",
		Address:  "Bandra",
		Location: entities.LatLng{Lat: 19.06, Lng: 72.83},
		Rating:   &rating,
	}
}

var strictPolicy = services.SlotPolicy{ValidateTimestamp: true}

// Tests

func TestAppointmentService_BookAppointment(t *testing.T) {
	t.Run("stores a snapshot and returns the record", func(t *testing.T) {
		repo := memory.NewAppointmentAdapter()
		service := services.NewAppointmentService(repo, strictPolicy, nil)
		centre := serenity()

		appt, err := service.BookAppointment(context.Background(), services.BookingRequest{
			Centre:    centre,
			PatientID: "patient-001",
			SlotISO:   "2025-03-01T10:00:00.000Z",
		})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(appt.ID, services.AppointmentIDPrefix))
		assert.Greater(t, len(appt.ID), len(services.AppointmentIDPrefix))
		assert.Equal(t, "patient-001", appt.PatientID)
		assert.Equal(t, "2025-03-01T10:00:00.000Z", appt.SlotISO)
		assert.Equal(t, *centre, appt.Centre)

		centre.Name = "Renamed"
		*centre.Rating = 1

		stored, err := repo.ListAll(context.Background())
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "Serenity Spa", stored[0].Centre.Name)
		assert.InDelta(t, 4.5, *stored[0].Centre.Rating, 1e-9)
	})

	t.Run("generates unique ids", func(t *testing.T) {
		service := services.NewAppointmentService(memory.NewAppointmentAdapter(), strictPolicy, nil)
		seen := map[string]bool{}
		for i := 0; i < 100; i++ {
			appt, err := service.BookAppointment(context.Background(), services.BookingRequest{
				Centre: serenity(), PatientID: "patient-001", SlotISO: "2025-03-01T10:00:00.000Z",
			})
			require.NoError(t, err)
			assert.False(t, seen[appt.ID], "duplicate id %s", appt.ID)
			seen[appt.ID] = true
		}
	})

	t.Run("allows double booking", func(t *testing.T) {
		repo := memory.NewAppointmentAdapter()
		service := services.NewAppointmentService(repo, strictPolicy, nil)
		req := services.BookingRequest{Centre: serenity(), PatientID: "patient-001", SlotISO: "2025-03-01T10:00:00.000Z"}

		_, err := service.BookAppointment(context.Background(), req)
		require.NoError(t, err)
		_, err = service.BookAppointment(context.Background(), req)
		require.NoError(t, err)

		count, err := repo.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestAppointmentService_BookAppointment_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		req    services.BookingRequest
		fields []string
	}{
		{name: "no centre", req: services.BookingRequest{PatientID: "p", SlotISO: "2025-03-01T10:00:00.000Z"}, fields: []string{"centre"}},
		{name: "empty centre", req: services.BookingRequest{Centre: &entities.Centre{}, PatientID: "p", SlotISO: "2025-03-01T10:00:00.000Z"}, fields: []string{"centre"}},
		{name: "blank patient", req: services.BookingRequest{Centre: serenity(), PatientID: "  ", SlotISO: "2025-03-01T10:00:00.000Z"}, fields: []string{"patientId"}},
		{name: "no slot", req: services.BookingRequest{Centre: serenity(), PatientID: "p"}, fields: []string{"slotISO"}},
		{name: "nothing", req: services.BookingRequest{}, fields: []string{"centre", "patientId", "slotISO"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAppointmentRepository)
			service := services.NewAppointmentService(repo, strictPolicy, nil)

			appt, err := service.BookAppointment(context.Background(), tt.req)
			assert.Nil(t, appt)

			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrorTypeMissingField, appErr.Type)
			assert.Equal(t, tt.fields, appErr.Fields)
			repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		})
	}
}

func TestAppointmentService_BookAppointment_SlotValidation(t *testing.T) {
	t.Run("rejects unparseable slot", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		service := services.NewAppointmentService(repo, strictPolicy, nil)

		_, err := service.BookAppointment(context.Background(), services.BookingRequest{
			Centre: serenity(), PatientID: "p", SlotISO: "next tuesday",
		})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidTimestamp))
		repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("accepts any non-empty slot when validation is off", func(t *testing.T) {
		repo := memory.NewAppointmentAdapter()
		service := services.NewAppointmentService(repo, services.SlotPolicy{}, nil)

		appt, err := service.BookAppointment(context.Background(), services.BookingRequest{
			Centre: serenity(), PatientID: "p", SlotISO: "next tuesday",
		})
		require.NoError(t, err)
		assert.Equal(t, "next tuesday", appt.SlotISO)
	})

	t.Run("past slots are accepted unless rejected by policy", func(t *testing.T) {
		req := services.BookingRequest{Centre: serenity(), PatientID: "p", SlotISO: "2000-01-01T09:00:00.000Z"}

		lenient := services.NewAppointmentService(memory.NewAppointmentAdapter(), strictPolicy, nil)
		_, err := lenient.BookAppointment(context.Background(), req)
		assert.NoError(t, err)

		strict := services.NewAppointmentService(memory.NewAppointmentAdapter(),
			services.SlotPolicy{ValidateTimestamp: true, RejectPast: true}, nil)
		_, err = strict.BookAppointment(context.Background(), req)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

		req.SlotISO = "2999-01-01T09:00:00.000Z"
		_, err = strict.BookAppointment(context.Background(), req)
		assert.NoError(t, err)
	})
}

func TestAppointmentService_BookAppointment_StoreFailure(t *testing.T) {
	repo := new(MockAppointmentRepository)
	repo.On("Append", mock.Anything, mock.AnythingOfType("*entities.Appointment")).Return(nil, errors.New("disk full"))
	service := services.NewAppointmentService(repo, strictPolicy, nil)

	_, err := service.BookAppointment(context.Background(), services.BookingRequest{
		Centre: serenity(), PatientID: "p", SlotISO: "2025-03-01T10:00:00.000Z",
	})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	repo.AssertExpectations(t)
}

func TestAppointmentService_ListAppointments(t *testing.T) {
	repo := memory.NewAppointmentAdapter()
	service := services.NewAppointmentService(repo, strictPolicy, nil)

	for _, slot := range []string{"2025-03-01T10:00:00.000Z", "2025-03-05T10:00:00.000Z", "2025-03-03T10:00:00.000Z"} {
		_, err := service.BookAppointment(context.Background(), services.BookingRequest{Centre: serenity(), PatientID: "p", SlotISO: slot})
		require.NoError(t, err)
	}

	list, err := service.ListAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2025-03-05T10:00:00.000Z", list[0].SlotISO)
	assert.Equal(t, "2025-03-03T10:00:00.000Z", list[1].SlotISO)
	assert.Equal(t, "2025-03-01T10:00:00.000Z", list[2].SlotISO)
}
