package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayursutra/wellness-portal/internal/application/services"
	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

// CentreSearchService defines the interface for centre search operations
type CentreSearchService interface {
	SearchByKeyword(ctx context.Context, keyword string, bias *entities.Bounds) services.CentreSearchResult
	SearchNearby(ctx context.Context, at *entities.LatLng) services.CentreSearchResult
	ResolvePosition(ctx context.Context) (entities.LatLng, error)
	Capability() providers.Capability
	DefaultCenter() entities.LatLng
	DefaultKeyword() string
}

// CapabilityResponse is the body of GET /api/centres/capability
type CapabilityResponse struct {
	providers.Capability
	DefaultCenter  entities.LatLng `json:"defaultCenter"`
	DefaultKeyword string          `json:"defaultKeyword"`
}

// CentreHandler handles centre search requests
type CentreHandler struct {
	service CentreSearchService
}

// NewCentreHandler creates a new centre handler
func NewCentreHandler(service CentreSearchService) *CentreHandler {
	return &CentreHandler{service: service}
}

// Search handles GET /api/centres/search?keyword=...&sw=lat,lng&ne=lat,lng
func (h *CentreHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var bias *entities.Bounds
	sw, ne := strings.TrimSpace(query.Get("sw")), strings.TrimSpace(query.Get("ne"))
	if sw != "" || ne != "" {
		if sw == "" || ne == "" {
			respondWithError(w, http.StatusBadRequest, "sw and ne must be given together")
			return
		}
		southWest, err := parseLatLng(sw)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		northEast, err := parseLatLng(ne)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		bias = &entities.Bounds{SouthWest: southWest, NorthEast: northEast}
	}

	result := h.service.SearchByKeyword(r.Context(), query.Get("keyword"), bias)
	respondWithSearchResult(w, result)
}

// Nearby handles GET /api/centres/nearby?lat=...&lng=...
// Without coordinates the host's current position is used.
func (h *CentreHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	latStr := strings.TrimSpace(r.URL.Query().Get("lat"))
	lngStr := strings.TrimSpace(r.URL.Query().Get("lng"))

	var at *entities.LatLng
	if latStr != "" || lngStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid lat parameter")
			return
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid lng parameter")
			return
		}
		at = &entities.LatLng{Lat: lat, Lng: lng}
	}

	result := h.service.SearchNearby(r.Context(), at)
	respondWithSearchResult(w, result)
}

// Capability handles GET /api/centres/capability
func (h *CentreHandler) Capability(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, CapabilityResponse{
		Capability:     h.service.Capability(),
		DefaultCenter:  h.service.DefaultCenter(),
		DefaultKeyword: h.service.DefaultKeyword(),
	})
}

// CurrentLocation handles GET /api/location
func (h *CentreHandler) CurrentLocation(w http.ResponseWriter, r *http.Request) {
	pos, err := h.service.ResolvePosition(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, pos)
}

// respondWithSearchResult always sends the result body. Provider failures carry a
// non-2xx status; a missing position is not a failure of the request.
func respondWithSearchResult(w http.ResponseWriter, result services.CentreSearchResult) {
	status := http.StatusOK
	if result.Status == providers.SearchStatusFailed && result.Code != apperrors.ErrorTypeLocationUnavailable {
		status = statusForError(result.Err)
	}
	respondWithJSON(w, status, result)
}
