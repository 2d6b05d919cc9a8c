package dashboard

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayursutra/wellness-portal/internal/adapters/memory"
	"github.com/ayursutra/wellness-portal/internal/adapters/profile"
	"github.com/ayursutra/wellness-portal/internal/adapters/providers/places"
	"github.com/ayursutra/wellness-portal/internal/api/handlers"
	"github.com/ayursutra/wellness-portal/internal/api/routes"
	"github.com/ayursutra/wellness-portal/internal/application/services"
	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

func newAPIServer(t *testing.T, searcher providers.CentreSearcher) *APIClient {
	t.Helper()
	store := memory.NewAppointmentAdapter()
	searchService := services.NewCentreSearchService(searcher, places.UnavailablePositionResolver{},
		DefaultKeyword, entities.LatLng{Lat: 19.076, Lng: 72.8777}, nil)

	router := routes.NewRouter(
		handlers.NewSystemHandler("ping"),
		handlers.NewPatientHandler(services.NewPatientService(profile.NewStaticPatientSource(profile.SamplePatient()))),
		handlers.NewAppointmentHandler(services.NewAppointmentService(store, services.SlotPolicy{ValidateTimestamp: true}, nil)),
		handlers.NewCentreHandler(searchService),
		nil,
		nil,
	)
	srv := httptest.NewServer(router.SetupRoutes())
	t.Cleanup(srv.Close)
	return NewAPIClient(srv.URL, 5*time.Second, srv.Client())
}

func TestAPIClient_BookingRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newAPIServer(t, places.NewStaticCentreSearcher(0, places.DemoCentres()...))

	patient, err := client.GetPatient(ctx)
	require.NoError(t, err)
	assert.Equal(t, "patient-001", patient.ID)

	centre := entities.Centre{ID: "c1", Name: "Serenity Spa", Address: "MG Road", Location: entities.LatLng{Lat: 19.07, Lng: 72.87}}
	created, err := client.BookAppointment(ctx, services.BookingRequest{
		Centre: &centre, PatientID: patient.ID, SlotISO: "2025-03-01T10:00:00.000Z",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	list, err := client.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, centre, list[0].Centre)
	assert.Equal(t, "patient-001", list[0].PatientID)
	assert.Equal(t, "2025-03-01T10:00:00.000Z", list[0].SlotISO)
}

func TestAPIClient_MissingFieldIsTyped(t *testing.T) {
	client := newAPIServer(t, places.NewStaticCentreSearcher(0))

	_, err := client.BookAppointment(context.Background(), services.BookingRequest{PatientID: "patient-001"})

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeMissingField, appErr.Type)
	assert.Equal(t, []string{"centre", "slotISO"}, appErr.Fields)
}

func TestAPIClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	client := NewAPIClient(url, time.Second, nil)
	_, err := client.ListAppointments(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))
}

func TestRemoteCentreSearcher_ZeroResultsVersusFailure(t *testing.T) {
	ctx := context.Background()
	static := places.NewStaticCentreSearcher(0, places.DemoCentres()...)
	client := newAPIServer(t, static)
	remote := NewRemoteCentreSearcher(ctx, client)

	assert.True(t, remote.Capability().Available)
	assert.Equal(t, places.ProviderMock, remote.Capability().Provider)

	centres, err := remote.SearchByKeyword(ctx, "no-such-centre-anywhere", nil)
	require.NoError(t, err)
	assert.Empty(t, centres)
	assert.Equal(t, providers.SearchStatusZeroResults, remote.LastOutcome().Status)

	static.Err = apperrors.NewProviderUnavailableError("provider down", nil)
	centres, err = remote.SearchByKeyword(ctx, "spa", nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeProviderUnavailable))
	assert.NotNil(t, centres)
	assert.Empty(t, centres)
	assert.True(t, remote.LastOutcome().Failed())
}

func TestRemotePositionResolver_Unavailable(t *testing.T) {
	client := newAPIServer(t, places.NewStaticCentreSearcher(0))

	_, err := NewRemotePositionResolver(client).ResolveCurrentPosition(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeLocationUnavailable))
}

func TestController_AgainstLiveAPI(t *testing.T) {
	ctx := context.Background()
	client := newAPIServer(t, places.NewStaticCentreSearcher(0, places.DemoCentres()...))
	c := NewController(client, NewRemoteCentreSearcher(ctx, client), NewRemotePositionResolver(client), nil, Options{Location: time.UTC})

	<-c.Activate(ctx)
	require.NoError(t, c.Search(ctx, ""))

	state := c.State()
	require.NotEmpty(t, state.Centres)

	c.SelectCentre(state.Centres[0])
	c.SetDate("2025-03-01")
	c.SetTime("10:00")
	appt, err := c.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01T10:00:00.000Z", appt.SlotISO)

	list, err := client.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, appt.ID, list[0].ID)
}
