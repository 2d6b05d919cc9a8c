package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/ayursutra/wellness-portal/internal/application/services"
	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

// RemoteCentreSearcher runs centre searches through the Booking API
type RemoteCentreSearcher struct {
	client     *APIClient
	capability providers.Capability

	mu   sync.RWMutex
	last providers.SearchOutcome
}

var _ providers.CentreSearcher = (*RemoteCentreSearcher)(nil)

// NewRemoteCentreSearcher fetches the server capability once. When the server cannot be
// reached the searcher reports itself unavailable.
func NewRemoteCentreSearcher(ctx context.Context, client *APIClient) *RemoteCentreSearcher {
	capability := providers.Capability{Provider: "remote"}
	if serverCapability, err := client.Capability(ctx); err == nil {
		capability = serverCapability.Capability
	} else {
		capability.Message = "Centre search is unreachable: " + err.Error()
	}
	return &RemoteCentreSearcher{client: client, capability: capability}
}

// Capability reports the server's search capability
func (r *RemoteCentreSearcher) Capability() providers.Capability {
	return r.capability
}

// SearchByKeyword searches through GET /api/centres/search
func (r *RemoteCentreSearcher) SearchByKeyword(ctx context.Context, keyword string, bias *entities.Bounds) ([]entities.Centre, error) {
	result, err := r.client.SearchCentres(ctx, keyword, bias)
	return r.record(result, err)
}

// SearchNearby searches through GET /api/centres/nearby
func (r *RemoteCentreSearcher) SearchNearby(ctx context.Context, at entities.LatLng) ([]entities.Centre, error) {
	result, err := r.client.SearchNearby(ctx, &at)
	return r.record(result, err)
}

// LastOutcome reports how the most recent search ended
func (r *RemoteCentreSearcher) LastOutcome() providers.SearchOutcome {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

func (r *RemoteCentreSearcher) record(result services.CentreSearchResult, err error) ([]entities.Centre, error) {
	if err == nil {
		err = result.Err
	}

	outcome := providers.SearchOutcome{At: time.Now(), Err: err}
	centres := result.Centres
	switch {
	case err != nil:
		outcome.Status = providers.SearchStatusFailed
		centres = []entities.Centre{}
	case len(centres) == 0:
		outcome.Status = providers.SearchStatusZeroResults
		centres = []entities.Centre{}
	default:
		outcome.Status = providers.SearchStatusOK
		outcome.Count = len(centres)
	}

	r.mu.Lock()
	r.last = outcome
	r.mu.Unlock()
	return centres, err
}

// RemotePositionResolver resolves the position through GET /api/location
type RemotePositionResolver struct {
	client *APIClient
}

// NewRemotePositionResolver creates a resolver backed by the Booking API
func NewRemotePositionResolver(client *APIClient) *RemotePositionResolver {
	return &RemotePositionResolver{client: client}
}

// ResolveCurrentPosition fails with LOCATION_UNAVAILABLE whenever the server cannot resolve
func (r *RemotePositionResolver) ResolveCurrentPosition(ctx context.Context) (entities.LatLng, error) {
	pos, err := r.client.CurrentLocation(ctx)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeLocationUnavailable) {
			return entities.LatLng{}, err
		}
		return entities.LatLng{}, apperrors.NewLocationUnavailableError("could not determine current position", err)
	}
	return pos, nil
}
