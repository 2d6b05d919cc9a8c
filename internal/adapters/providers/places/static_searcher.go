package places

import (
	"context"
	"sort"
	"strings"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
)

// ProviderMock names the in-process demo directory
const ProviderMock = "mock"

// StaticCentreSearcher serves a fixed list of centres. It backs PLACES_PROVIDER=mock and tests.
type StaticCentreSearcher struct {
	outcomeTracker

	centres      []entities.Centre
	nearbyRadius float64
	// Err, when set, is returned by every search.
	Err error
}

var _ providers.CentreSearcher = (*StaticCentreSearcher)(nil)

// NewStaticCentreSearcher creates a searcher over centres
func NewStaticCentreSearcher(nearbyRadiusMeters int, centres ...entities.Centre) *StaticCentreSearcher {
	if nearbyRadiusMeters <= 0 {
		nearbyRadiusMeters = defaultNearbyRadius
	}
	stored := make([]entities.Centre, len(centres))
	for i, c := range centres {
		stored[i] = c.Snapshot()
	}
	return &StaticCentreSearcher{centres: stored, nearbyRadius: float64(nearbyRadiusMeters)}
}

// Capability always reports the demo directory as available
func (s *StaticCentreSearcher) Capability() providers.Capability {
	return providers.Capability{Provider: ProviderMock, Available: true}
}

// SearchByKeyword returns centres whose name or address contains any keyword term,
// restricted to bias when given. An empty keyword matches everything.
func (s *StaticCentreSearcher) SearchByKeyword(ctx context.Context, keyword string, bias *entities.Bounds) ([]entities.Centre, error) {
	if s.Err != nil {
		return s.record(nil, s.Err)
	}

	terms := strings.Fields(strings.ToLower(keyword))
	var out []entities.Centre
	for _, c := range s.centres {
		if bias != nil && !contains(*bias, c.Location) {
			continue
		}
		if matchesAny(c, terms) {
			out = append(out, c.Snapshot())
		}
	}
	return s.record(out, nil)
}

// SearchNearby returns centres within the nearby radius, closest first
func (s *StaticCentreSearcher) SearchNearby(ctx context.Context, at entities.LatLng) ([]entities.Centre, error) {
	if s.Err != nil {
		return s.record(nil, s.Err)
	}

	var out []entities.Centre
	for _, c := range s.centres {
		if distanceMeters(at, c.Location) <= s.nearbyRadius {
			out = append(out, c.Snapshot())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return distanceMeters(at, out[i].Location) < distanceMeters(at, out[j].Location)
	})
	return s.record(out, nil)
}

func matchesAny(c entities.Centre, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	haystack := strings.ToLower(c.Name + " " + c.Address)
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

func contains(b entities.Bounds, p entities.LatLng) bool {
	return p.Lat >= b.SouthWest.Lat && p.Lat <= b.NorthEast.Lat &&
		p.Lng >= b.SouthWest.Lng && p.Lng <= b.NorthEast.Lng
}

// DemoCentres returns a small directory of Mumbai centres used by the mock provider
func DemoCentres() []entities.Centre {
	rating := func(v float64) *float64 { return &v }
	total := func(v int) *int { return &v }

	return []entities.Centre{
		{
			ID:               "demo-serenity",
			Name:             "Serenity Panchakarma Centre",
			Address:          "14 Linking Road, Bandra West, Mumbai",
			Location:         entities.LatLng{Lat: 19.0596, Lng: 72.8295},
			Rating:           rating(4.6),
			UserRatingsTotal: total(212),
			Phone:            "+91 22 2640 1100",
		},
		{
			ID:               "demo-dhanvantari",
			Name:             "Dhanvantari Ayurveda Spa",
			Address:          "3 Hill Road, Bandra West, Mumbai",
			Location:         entities.LatLng{Lat: 19.0544, Lng: 72.8339},
			Rating:           rating(4.3),
			UserRatingsTotal: total(98),
		},
		{
			ID:       "demo-kerala-wellness",
			Name:     "Kerala Wellness Centre",
			Address:  "Lokhandwala Complex, Andheri West, Mumbai",
			Location: entities.LatLng{Lat: 19.1420, Lng: 72.8258},
			Rating:   rating(4.1),
			Website:  "https://kerala-wellness.example",
		},
		{
			ID:       "demo-shanti",
			Name:     "Shanti Ayurvedic Retreat",
			Address:  "Powai Lake Road, Powai, Mumbai",
			Location: entities.LatLng{Lat: 19.1176, Lng: 72.9060},
		},
	}
}
