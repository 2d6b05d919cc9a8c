package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayursutra/wellness-portal/internal/adapters/providers/places"
	"github.com/ayursutra/wellness-portal/internal/application/services"
	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

func newCentreHandler(searcher providers.CentreSearcher, resolver providers.PositionResolver) *CentreHandler {
	service := services.NewCentreSearchService(searcher, resolver, "panchakarma centre",
		entities.LatLng{Lat: 19.076, Lng: 72.8777}, nil)
	return NewCentreHandler(service)
}

func getSearch(t *testing.T, handle http.HandlerFunc, target string) (*httptest.ResponseRecorder, services.CentreSearchResult) {
	t.Helper()
	rec := httptest.NewRecorder()
	handle(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var result services.CentreSearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return rec, result
}

func TestSearch_ZeroResultsVersusFailure(t *testing.T) {
	searcher := places.NewStaticCentreSearcher(0, places.DemoCentres()...)
	h := newCentreHandler(searcher, nil)

	rec, result := getSearch(t, h.Search, "/api/centres/search?keyword=nothing-matches-this")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, providers.SearchStatusZeroResults, result.Status)
	assert.Empty(t, result.Centres)
	assert.Empty(t, result.Code)

	searcher.Err = apperrors.NewProviderTimeoutError("google places search timed out", nil)
	rec, result = getSearch(t, h.Search, "/api/centres/search?keyword=spa")
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, providers.SearchStatusFailed, result.Status)
	assert.Equal(t, apperrors.ErrorTypeProviderTimeout, result.Code)
	assert.Empty(t, result.Centres)
}

func TestSearch_DefaultKeywordAndBias(t *testing.T) {
	h := newCentreHandler(places.NewStaticCentreSearcher(0, places.DemoCentres()...), nil)

	rec, result := getSearch(t, h.Search, "/api/centres/search?sw=19.05,72.82&ne=19.07,72.84")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "panchakarma centre", result.Keyword)
	require.Len(t, result.Centres, 1)
	assert.Equal(t, "demo-serenity", result.Centres[0].ID)
}

func TestSearch_RejectsHalfABoundingBox(t *testing.T) {
	h := newCentreHandler(places.NewStaticCentreSearcher(0), nil)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/centres/search?sw=19.05,72.82", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/centres/search?sw=a,b&ne=1,2", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNearby(t *testing.T) {
	searcher := places.NewStaticCentreSearcher(3000, places.DemoCentres()...)

	t.Run("explicit coordinates", func(t *testing.T) {
		h := newCentreHandler(searcher, places.UnavailablePositionResolver{})
		rec, result := getSearch(t, h.Nearby, "/api/centres/nearby?lat=19.0545&lng=72.8338")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, result.Centres, 2)
		assert.Equal(t, []string{"demo-dhanvantari", "demo-serenity"}, []string{result.Centres[0].ID, result.Centres[1].ID})
	})

	t.Run("location unavailable is a notice, not an error", func(t *testing.T) {
		h := newCentreHandler(searcher, places.UnavailablePositionResolver{})
		rec, result := getSearch(t, h.Nearby, "/api/centres/nearby")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, apperrors.ErrorTypeLocationUnavailable, result.Code)
		assert.Empty(t, result.Centres)
	})

	t.Run("bad coordinates", func(t *testing.T) {
		h := newCentreHandler(searcher, nil)
		rec := httptest.NewRecorder()
		h.Nearby(rec, httptest.NewRequest(http.MethodGet, "/api/centres/nearby?lat=north&lng=1", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCapabilityAndLocation(t *testing.T) {
	h := newCentreHandler(places.NewGoogleCentreSearcher(places.GoogleOptions{}), places.UnavailablePositionResolver{})

	rec := httptest.NewRecorder()
	h.Capability(rec, httptest.NewRequest(http.MethodGet, "/api/centres/capability", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var capability CapabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &capability))
	assert.False(t, capability.Available)
	assert.Equal(t, places.ProviderGoogle, capability.Provider)
	assert.Contains(t, capability.Message, "GOOGLE_MAPS_API_KEY")
	assert.Equal(t, "panchakarma centre", capability.DefaultKeyword)

	rec = httptest.NewRecorder()
	h.CurrentLocation(rec, httptest.NewRequest(http.MethodGet, "/api/location", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), string(apperrors.ErrorTypeLocationUnavailable))
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusForError(apperrors.NewMissingFieldError("centre")))
	assert.Equal(t, http.StatusBadGateway, statusForError(apperrors.NewProviderUnavailableError("x", nil)))
	assert.Equal(t, http.StatusServiceUnavailable, statusForError(apperrors.NewProviderMisconfiguredError("x")))
	assert.Equal(t, http.StatusInternalServerError, statusForError(assert.AnError))
}
