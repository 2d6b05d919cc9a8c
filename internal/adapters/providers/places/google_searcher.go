package places

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

const (
	googlePlacesURL       = "https://maps.googleapis.com/maps/api/place"
	googleNearbyPath      = "/nearbysearch/json"
	googleTextSearchPath  = "/textsearch/json"
	defaultHTTPTimeout    = 8 * time.Second
	defaultNearbyRadius   = 5000
	maxSearchRadiusMeters = 50000

	// ProviderGoogle names the Google Places provider
	ProviderGoogle = "google"

	googleMissingKeyHint = "Set GOOGLE_MAPS_API_KEY and enable billing to use Google Maps. The dashboard still works without the map."
)

// GoogleOptions configures the Google Places searcher
type GoogleOptions struct {
	APIKey    string
	BaseURL   string
	PlaceType string
	Region    string
	// NearbyKeyword is sent with coordinate-anchored searches.
	NearbyKeyword      string
	NearbyRadiusMeters int
	Timeout            time.Duration
	// HTTPClient overrides the transport (used for tests).
	HTTPClient *http.Client
}

// GoogleCentreSearcher implements CentreSearcher using the Google Places web service.
type GoogleCentreSearcher struct {
	outcomeTracker

	apiKey     string
	client     *resty.Client
	opts       GoogleOptions
	capability providers.Capability
}

var _ providers.CentreSearcher = (*GoogleCentreSearcher)(nil)

// NewGoogleCentreSearcher creates a new Google Places searcher. A missing API key
// yields a searcher whose Capability reports the configuration hint.
func NewGoogleCentreSearcher(opts GoogleOptions) *GoogleCentreSearcher {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = googlePlacesURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultHTTPTimeout
	}
	if opts.NearbyRadiusMeters <= 0 {
		opts.NearbyRadiusMeters = defaultNearbyRadius
	}
	if opts.NearbyRadiusMeters > maxSearchRadiusMeters {
		opts.NearbyRadiusMeters = maxSearchRadiusMeters
	}

	var client *resty.Client
	if opts.HTTPClient != nil {
		client = resty.NewWithClient(opts.HTTPClient)
	} else {
		client = resty.New()
	}
	client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")

	apiKey := strings.TrimSpace(opts.APIKey)
	capability := providers.Capability{Provider: ProviderGoogle, Available: apiKey != ""}
	if !capability.Available {
		capability.Message = googleMissingKeyHint
	}

	return &GoogleCentreSearcher{
		apiKey:     apiKey,
		client:     client,
		opts:       opts,
		capability: capability,
	}
}

// Capability reports whether the searcher has credentials
func (g *GoogleCentreSearcher) Capability() providers.Capability {
	return g.capability
}

// SearchByKeyword runs a nearby search around the viewport centre when bias is set,
// and a text search otherwise.
func (g *GoogleCentreSearcher) SearchByKeyword(ctx context.Context, keyword string, bias *entities.Bounds) ([]entities.Centre, error) {
	keyword = strings.TrimSpace(keyword)
	if bias != nil {
		params := map[string]string{
			"keyword":  keyword,
			"location": bias.Center().URLValue(),
			"radius":   strconv.Itoa(boundsRadiusMeters(*bias)),
		}
		return g.record(g.search(ctx, googleNearbyPath, params))
	}

	params := map[string]string{"query": keyword}
	if g.opts.Region != "" {
		params["region"] = g.opts.Region
	}
	return g.record(g.search(ctx, googleTextSearchPath, params))
}

// SearchNearby runs a nearby search anchored at a coordinate
func (g *GoogleCentreSearcher) SearchNearby(ctx context.Context, at entities.LatLng) ([]entities.Centre, error) {
	params := map[string]string{
		"location": at.URLValue(),
		"radius":   strconv.Itoa(g.opts.NearbyRadiusMeters),
	}
	if g.opts.NearbyKeyword != "" {
		params["keyword"] = g.opts.NearbyKeyword
	}
	return g.record(g.search(ctx, googleNearbyPath, params))
}

func (g *GoogleCentreSearcher) search(ctx context.Context, path string, params map[string]string) ([]entities.Centre, error) {
	if !g.capability.Available {
		return nil, apperrors.NewProviderMisconfiguredError("google maps api key is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	if g.opts.PlaceType != "" {
		params["type"] = g.opts.PlaceType
	}
	params["key"] = g.apiKey

	var payload googlePlacesResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&payload).
		ForceContentType("application/json").
		Get(path)
	if err != nil {
		return nil, classifyTransportError("google places", err)
	}
	if !resp.IsSuccess() {
		return nil, apperrors.NewProviderUnavailableError(
			fmt.Sprintf("google places returned status %d", resp.StatusCode()), nil)
	}

	switch payload.Status {
	case "OK":
		centres := make([]entities.Centre, 0, len(payload.Results))
		for _, result := range payload.Results {
			centres = append(centres, result.toCentre())
		}
		return centres, nil
	case "ZERO_RESULTS":
		return []entities.Centre{}, nil
	case "REQUEST_DENIED":
		return nil, apperrors.NewProviderMisconfiguredError(statusMessage("google places request denied", payload))
	default:
		return nil, apperrors.NewProviderUnavailableError(statusMessage("google places search failed", payload), nil)
	}
}

func statusMessage(prefix string, payload googlePlacesResponse) string {
	if payload.ErrorMessage != "" {
		return fmt.Sprintf("%s: %s - %s", prefix, payload.Status, payload.ErrorMessage)
	}
	return fmt.Sprintf("%s: %s", prefix, payload.Status)
}

type googlePlacesResponse struct {
	Status       string              `json:"status"`
	ErrorMessage string              `json:"error_message,omitempty"`
	Results      []googlePlaceResult `json:"results"`
}

type googlePlaceResult struct {
	PlaceID              string         `json:"place_id"`
	Name                 string         `json:"name"`
	Vicinity             string         `json:"vicinity"`
	FormattedAddress     string         `json:"formatted_address"`
	Geometry             googleGeometry `json:"geometry"`
	Rating               *float64       `json:"rating"`
	UserRatingsTotal     *int           `json:"user_ratings_total"`
	FormattedPhoneNumber string         `json:"formatted_phone_number"`
	Website              string         `json:"website"`
}

type googleGeometry struct {
	Location googleLocation `json:"location"`
}

type googleLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (r googlePlaceResult) toCentre() entities.Centre {
	location := entities.LatLng{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng}

	centre := entities.Centre{
		ID:       r.PlaceID,
		Name:     r.Name,
		Address:  r.Vicinity,
		Location: location,
		Phone:    r.FormattedPhoneNumber,
		Website:  r.Website,
	}
	if centre.ID == "" {
		centre.ID = location.URLValue()
	}
	if centre.Name == "" {
		centre.Name = "Centre"
	}
	if centre.Address == "" {
		centre.Address = r.FormattedAddress
	}
	if r.Rating != nil {
		rating := *r.Rating
		centre.Rating = &rating
	}
	if r.UserRatingsTotal != nil {
		total := *r.UserRatingsTotal
		centre.UserRatingsTotal = &total
	}
	return centre
}
