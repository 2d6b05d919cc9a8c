package places

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
	tsclient "github.com/ayursutra/wellness-portal/internal/infrastructure/clients/typesense"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

// ProviderTypesense names the self-hosted centre directory provider
const ProviderTypesense = "typesense"

const defaultTypesensePerPage = 20

// TypesenseOptions configures the Typesense searcher
type TypesenseOptions struct {
	NearbyRadiusMeters int
	PerPage            int
}

// TypesenseCentreSearcher implements CentreSearcher over a Typesense "centres" collection.
type TypesenseCentreSearcher struct {
	outcomeTracker

	client     *typesense.Client
	opts       TypesenseOptions
	capability providers.Capability
}

var _ providers.CentreSearcher = (*TypesenseCentreSearcher)(nil)

// NewTypesenseCentreSearcher creates a new Typesense searcher. A nil client yields an
// unavailable searcher.
func NewTypesenseCentreSearcher(client *typesense.Client, opts TypesenseOptions) *TypesenseCentreSearcher {
	if opts.NearbyRadiusMeters <= 0 {
		opts.NearbyRadiusMeters = defaultNearbyRadius
	}
	if opts.PerPage <= 0 {
		opts.PerPage = defaultTypesensePerPage
	}

	capability := providers.Capability{Provider: ProviderTypesense, Available: client != nil}
	if client == nil {
		capability.Message = "Set TYPESENSE_URL and TYPESENSE_API_KEY to search the centre directory."
	}

	return &TypesenseCentreSearcher{client: client, opts: opts, capability: capability}
}

// Capability reports whether a Typesense client is configured
func (s *TypesenseCentreSearcher) Capability() providers.Capability {
	return s.capability
}

// SearchByKeyword matches keyword against centre names and addresses
func (s *TypesenseCentreSearcher) SearchByKeyword(ctx context.Context, keyword string, bias *entities.Bounds) ([]entities.Centre, error) {
	params := &api.SearchCollectionParams{
		Q:       pointer.String(strings.TrimSpace(keyword)),
		QueryBy: pointer.String("name,address"),
		PerPage: pointer.Int(s.opts.PerPage),
	}
	if bias != nil {
		params.FilterBy = pointer.String(boundsFilter(*bias))
	}
	return s.record(s.search(ctx, params))
}

// SearchNearby returns centres within the nearby radius, closest first
func (s *TypesenseCentreSearcher) SearchNearby(ctx context.Context, at entities.LatLng) ([]entities.Centre, error) {
	radiusKm := float64(s.opts.NearbyRadiusMeters) / 1000
	params := &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		QueryBy:  pointer.String("name"),
		FilterBy: pointer.String(fmt.Sprintf("location:(%f, %f, %.3f km)", at.Lat, at.Lng, radiusKm)),
		SortBy:   pointer.String(fmt.Sprintf("location(%f, %f):asc", at.Lat, at.Lng)),
		PerPage:  pointer.Int(s.opts.PerPage),
	}
	return s.record(s.search(ctx, params))
}

// Index upserts a centre into the directory
func (s *TypesenseCentreSearcher) Index(ctx context.Context, centre entities.Centre) error {
	if s.client == nil {
		return apperrors.NewProviderMisconfiguredError("typesense client is not configured")
	}
	if _, err := s.client.Collection(tsclient.CentresCollection).Documents().Upsert(ctx, centreDocument(centre)); err != nil {
		return fmt.Errorf("failed to index centre %s: %w", centre.ID, err)
	}
	return nil
}

func (s *TypesenseCentreSearcher) search(ctx context.Context, params *api.SearchCollectionParams) ([]entities.Centre, error) {
	if s.client == nil {
		return nil, apperrors.NewProviderMisconfiguredError("typesense client is not configured")
	}

	result, err := s.client.Collection(tsclient.CentresCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, classifyTransportError("typesense", err)
	}
	if result == nil || result.Hits == nil {
		return []entities.Centre{}, nil
	}

	centres := make([]entities.Centre, 0, len(*result.Hits))
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		if centre, ok := centreFromDocument(*hit.Document); ok {
			centres = append(centres, centre)
		}
	}
	return centres, nil
}

// boundsFilter renders a viewport as a Typesense polygon filter
func boundsFilter(b entities.Bounds) string {
	sw, ne := b.SouthWest, b.NorthEast
	return fmt.Sprintf("location:(%f, %f, %f, %f, %f, %f, %f, %f)",
		ne.Lat, sw.Lng,
		ne.Lat, ne.Lng,
		sw.Lat, ne.Lng,
		sw.Lat, sw.Lng,
	)
}

func centreDocument(c entities.Centre) map[string]interface{} {
	doc := map[string]interface{}{
		"id":       c.ID,
		"name":     c.Name,
		"address":  c.Address,
		"location": []float64{c.Location.Lat, c.Location.Lng},
	}
	if c.Rating != nil {
		doc["rating"] = *c.Rating
	}
	if c.UserRatingsTotal != nil {
		doc["user_ratings_total"] = *c.UserRatingsTotal
	}
	if c.Phone != "" {
		doc["phone"] = c.Phone
	}
	if c.Website != "" {
		doc["website"] = c.Website
	}
	return doc
}

// centreFromDocument maps a search hit to a Centre; documents without a location are skipped
func centreFromDocument(doc map[string]interface{}) (entities.Centre, bool) {
	loc, ok := doc["location"].([]interface{})
	if !ok || len(loc) != 2 {
		return entities.Centre{}, false
	}
	lat, latOK := loc[0].(float64)
	lng, lngOK := loc[1].(float64)
	if !latOK || !lngOK {
		return entities.Centre{}, false
	}

	centre := entities.Centre{Location: entities.LatLng{Lat: lat, Lng: lng}}
	centre.ID, _ = doc["id"].(string)
	centre.Name, _ = doc["name"].(string)
	centre.Address, _ = doc["address"].(string)
	centre.Phone, _ = doc["phone"].(string)
	centre.Website, _ = doc["website"].(string)

	if centre.ID == "" {
		centre.ID = centre.Location.URLValue()
	}
	if centre.Name == "" {
		centre.Name = "Centre"
	}
	if val, ok := doc["rating"].(float64); ok {
		centre.Rating = &val
	}
	if val, ok := doc["user_ratings_total"].(float64); ok {
		total := int(val)
		centre.UserRatingsTotal = &total
	}
	return centre, true
}
