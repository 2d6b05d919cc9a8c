package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
	"github.com/ayursutra/wellness-portal/internal/infrastructure/observability"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

// CentreSearchResult is the outcome of one centre search
type CentreSearchResult struct {
	Centres  []entities.Centre      `json:"centres"`
	Status   providers.SearchStatus `json:"status"`
	Provider string                 `json:"provider"`
	Keyword  string                 `json:"keyword,omitempty"`
	Origin   *entities.LatLng       `json:"origin,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Code     apperrors.ErrorType    `json:"code,omitempty"`
	Err      error                  `json:"-"`
}

// CentreSearchService runs centre searches against the configured provider
type CentreSearchService struct {
	searcher       providers.CentreSearcher
	resolver       providers.PositionResolver
	defaultKeyword string
	defaultCenter  entities.LatLng
	metrics        *observability.Metrics
}

// NewCentreSearchService creates a new centre search service. metrics may be nil.
func NewCentreSearchService(
	searcher providers.CentreSearcher,
	resolver providers.PositionResolver,
	defaultKeyword string,
	defaultCenter entities.LatLng,
	metrics *observability.Metrics,
) *CentreSearchService {
	return &CentreSearchService{
		searcher:       searcher,
		resolver:       resolver,
		defaultKeyword: defaultKeyword,
		defaultCenter:  defaultCenter,
		metrics:        metrics,
	}
}

// Capability reports whether the provider can serve searches
func (s *CentreSearchService) Capability() providers.Capability {
	return s.searcher.Capability()
}

// DefaultCenter returns the map centre used before any search
func (s *CentreSearchService) DefaultCenter() entities.LatLng {
	return s.defaultCenter
}

// DefaultKeyword returns the term used when a search keyword is blank
func (s *CentreSearchService) DefaultKeyword() string {
	return s.defaultKeyword
}

// SearchByKeyword searches by keyword, substituting the default keyword when blank
func (s *CentreSearchService) SearchByKeyword(ctx context.Context, keyword string, bias *entities.Bounds) CentreSearchResult {
	ctx, span := observability.StartSpan(ctx, "CentreSearchService.SearchByKeyword")
	defer span.End()

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		keyword = s.defaultKeyword
	}
	observability.SetSpanAttributes(span,
		attribute.String("search.keyword", keyword),
		attribute.Bool("search.biased", bias != nil),
	)

	start := time.Now()
	centres, err := s.searcher.SearchByKeyword(ctx, keyword, bias)
	result := s.result(ctx, "keyword", start, centres, err)
	result.Keyword = keyword
	if err != nil {
		observability.RecordError(span, err)
	}
	return result
}

// SearchNearby searches around at, or around the resolved current position when at is nil
func (s *CentreSearchService) SearchNearby(ctx context.Context, at *entities.LatLng) CentreSearchResult {
	ctx, span := observability.StartSpan(ctx, "CentreSearchService.SearchNearby")
	defer span.End()

	var origin entities.LatLng
	if at != nil {
		origin = *at
	} else {
		pos, err := s.ResolvePosition(ctx)
		if err != nil {
			observability.RecordError(span, err)
			return s.failure(err)
		}
		origin = pos
	}
	observability.SetSpanAttributes(span,
		attribute.Float64("search.lat", origin.Lat),
		attribute.Float64("search.lng", origin.Lng),
	)

	start := time.Now()
	centres, err := s.searcher.SearchNearby(ctx, origin)
	result := s.result(ctx, "nearby", start, centres, err)
	result.Origin = &origin
	if err != nil {
		observability.RecordError(span, err)
	}
	return result
}

// ResolvePosition resolves the host's current position
func (s *CentreSearchService) ResolvePosition(ctx context.Context) (entities.LatLng, error) {
	if s.resolver == nil {
		return entities.LatLng{}, apperrors.NewLocationUnavailableError("geolocation is not supported on this host", nil)
	}
	pos, err := s.resolver.ResolveCurrentPosition(ctx)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeLocationUnavailable) {
			return entities.LatLng{}, err
		}
		return entities.LatLng{}, apperrors.NewLocationUnavailableError("could not determine current position", err)
	}
	return pos, nil
}

func (s *CentreSearchService) result(ctx context.Context, kind string, start time.Time, centres []entities.Centre, err error) CentreSearchResult {
	provider := s.searcher.Capability().Provider

	var result CentreSearchResult
	switch {
	case err != nil:
		result = s.failure(err)
	case len(centres) == 0:
		result = CentreSearchResult{Centres: []entities.Centre{}, Status: providers.SearchStatusZeroResults, Provider: provider}
	default:
		result = CentreSearchResult{Centres: centres, Status: providers.SearchStatusOK, Provider: provider}
	}

	observability.RecordCentreSearch(ctx, s.metrics, provider, kind, string(result.Status), time.Since(start))

	logger := observability.LoggerFromContext(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("provider", provider).Str("kind", kind).Msg("centre search failed")
	} else {
		logger.Debug().Str("provider", provider).Str("kind", kind).Int("count", len(centres)).Msg("centre search completed")
	}
	return result
}

func (s *CentreSearchService) failure(err error) CentreSearchResult {
	result := CentreSearchResult{
		Centres:  []entities.Centre{},
		Status:   providers.SearchStatusFailed,
		Provider: s.searcher.Capability().Provider,
		Err:      err,
		Code:     apperrors.TypeOf(err),
		Error:    err.Error(),
	}
	if appErr, ok := apperrors.As(err); ok {
		result.Error = appErr.Message
	}
	return result
}
