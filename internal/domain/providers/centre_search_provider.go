package providers

import (
	"context"
	"time"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
)

// CentreSearcher defines the interface for places providers that find wellness centres.
//
// Implementations return results in the provider's own ranking and never re-sort them.
// A search that matches nothing returns an empty slice and a nil error; a provider failure
// returns an empty slice and a typed error (PROVIDER_UNAVAILABLE, PROVIDER_MISCONFIGURED
// or PROVIDER_TIMEOUT from pkg/errors).
type CentreSearcher interface {
	// SearchByKeyword finds centres matching keyword, optionally biased to a viewport
	SearchByKeyword(ctx context.Context, keyword string, bias *entities.Bounds) ([]entities.Centre, error)

	// SearchNearby finds centres around a coordinate
	SearchNearby(ctx context.Context, at entities.LatLng) ([]entities.Centre, error)

	// Capability reports whether the provider is usable; computed once at construction
	Capability() Capability

	// LastOutcome reports how the most recent search ended
	LastOutcome() SearchOutcome
}

// PositionResolver resolves the current position of the host environment
type PositionResolver interface {
	// ResolveCurrentPosition fails with LOCATION_UNAVAILABLE when geolocation is denied or unsupported
	ResolveCurrentPosition(ctx context.Context) (entities.LatLng, error)
}

// Capability describes whether a search provider can serve requests
type Capability struct {
	Provider  string `json:"provider"`
	Available bool   `json:"available"`
	// Message is a configuration hint shown when the provider is unavailable.
	Message string `json:"message,omitempty"`
}

// SearchStatus classifies the outcome of a search
type SearchStatus string

const (
	SearchStatusNone        SearchStatus = ""
	SearchStatusOK          SearchStatus = "ok"
	SearchStatusZeroResults SearchStatus = "zero_results"
	SearchStatusFailed      SearchStatus = "failed"
)

// SearchOutcome records the result of the most recent search
type SearchOutcome struct {
	Status SearchStatus
	Count  int
	Err    error
	At     time.Time
}

// Failed reports whether the search ended with a provider error
func (o SearchOutcome) Failed() bool {
	return o.Status == SearchStatusFailed
}
