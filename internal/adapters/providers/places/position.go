package places

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

const googleGeolocationURL = "https://www.googleapis.com/geolocation/v1"

// GeolocationOptions configures the Google Geolocation resolver
type GeolocationOptions struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// GooglePositionResolver resolves the host position through the Google Geolocation API
type GooglePositionResolver struct {
	apiKey string
	client *resty.Client
}

var _ providers.PositionResolver = (*GooglePositionResolver)(nil)

// NewGooglePositionResolver creates a new geolocation-backed resolver
func NewGooglePositionResolver(opts GeolocationOptions) *GooglePositionResolver {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = googleGeolocationURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultHTTPTimeout
	}

	var client *resty.Client
	if opts.HTTPClient != nil {
		client = resty.NewWithClient(opts.HTTPClient)
	} else {
		client = resty.New()
	}
	client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).SetTimeout(opts.Timeout)

	return &GooglePositionResolver{apiKey: strings.TrimSpace(opts.APIKey), client: client}
}

type geolocateResponse struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
	Accuracy float64 `json:"accuracy"`
}

// ResolveCurrentPosition asks the geolocation service for an IP-based fix
func (r *GooglePositionResolver) ResolveCurrentPosition(ctx context.Context) (entities.LatLng, error) {
	if r.apiKey == "" {
		return entities.LatLng{}, apperrors.NewLocationUnavailableError("geolocation is not configured", nil)
	}

	var payload geolocateResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("key", r.apiKey).
		SetBody(map[string]interface{}{"considerIp": true}).
		SetResult(&payload).
		ForceContentType("application/json").
		Post("/geolocate")
	if err != nil {
		return entities.LatLng{}, apperrors.NewLocationUnavailableError("geolocation request failed", err)
	}
	if !resp.IsSuccess() {
		return entities.LatLng{}, apperrors.NewLocationUnavailableError("geolocation denied: "+resp.Status(), nil)
	}

	return entities.LatLng{Lat: payload.Location.Lat, Lng: payload.Location.Lng}, nil
}

// StaticPositionResolver always resolves to a fixed position
type StaticPositionResolver struct {
	Position entities.LatLng
}

// ResolveCurrentPosition returns the configured position
func (r StaticPositionResolver) ResolveCurrentPosition(ctx context.Context) (entities.LatLng, error) {
	return r.Position, nil
}

// UnavailablePositionResolver models a host without geolocation support
type UnavailablePositionResolver struct{}

// ResolveCurrentPosition always fails with LOCATION_UNAVAILABLE
func (UnavailablePositionResolver) ResolveCurrentPosition(ctx context.Context) (entities.LatLng, error) {
	return entities.LatLng{}, apperrors.NewLocationUnavailableError("geolocation is not supported on this host", nil)
}
