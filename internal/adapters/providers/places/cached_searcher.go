package places

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
	"github.com/ayursutra/wellness-portal/internal/infrastructure/observability"
)

const (
	searchCacheName   = "centre_search"
	searchCachePrefix = "centres:v1:"
)

// CachedCentreSearcher memoizes successful searches of another CentreSearcher.
// Failed searches are never cached.
type CachedCentreSearcher struct {
	outcomeTracker

	inner   providers.CentreSearcher
	cache   providers.CacheProvider
	ttl     time.Duration
	metrics *observability.Metrics
}

var _ providers.CentreSearcher = (*CachedCentreSearcher)(nil)

// NewCachedCentreSearcher wraps inner with a cache. metrics may be nil.
func NewCachedCentreSearcher(inner providers.CentreSearcher, cache providers.CacheProvider, ttl time.Duration, metrics *observability.Metrics) *CachedCentreSearcher {
	return &CachedCentreSearcher{inner: inner, cache: cache, ttl: ttl, metrics: metrics}
}

// Capability reports the wrapped provider's capability
func (c *CachedCentreSearcher) Capability() providers.Capability {
	return c.inner.Capability()
}

// SearchByKeyword serves keyword searches from the cache when possible
func (c *CachedCentreSearcher) SearchByKeyword(ctx context.Context, keyword string, bias *entities.Bounds) ([]entities.Centre, error) {
	key := keywordCacheKey(c.inner.Capability().Provider, keyword, bias)
	return c.record(c.lookup(ctx, key, func() ([]entities.Centre, error) {
		return c.inner.SearchByKeyword(ctx, keyword, bias)
	}))
}

// SearchNearby serves nearby searches from the cache when possible
func (c *CachedCentreSearcher) SearchNearby(ctx context.Context, at entities.LatLng) ([]entities.Centre, error) {
	key := nearbyCacheKey(c.inner.Capability().Provider, at)
	return c.record(c.lookup(ctx, key, func() ([]entities.Centre, error) {
		return c.inner.SearchNearby(ctx, at)
	}))
}

func (c *CachedCentreSearcher) lookup(ctx context.Context, key string, load func() ([]entities.Centre, error)) ([]entities.Centre, error) {
	cached, err := c.cache.Get(ctx, key)
	if err == nil {
		var centres []entities.Centre
		if err := json.Unmarshal(cached, &centres); err == nil {
			observability.RecordCacheHit(ctx, c.metrics, searchCacheName)
			return centres, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable centre search cache entry")
	} else if !errors.Is(err, providers.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("centre search cache read failed")
	}
	observability.RecordCacheMiss(ctx, c.metrics, searchCacheName)

	centres, err := load()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(centres); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("centre search cache write failed")
		}
	}
	return centres, nil
}

func keywordCacheKey(provider, keyword string, bias *entities.Bounds) string {
	raw := fmt.Sprintf("%s|%s", provider, strings.ToLower(strings.TrimSpace(keyword)))
	if bias != nil {
		raw += fmt.Sprintf("|%.4f,%.4f,%.4f,%.4f",
			bias.SouthWest.Lat, bias.SouthWest.Lng, bias.NorthEast.Lat, bias.NorthEast.Lng)
	}
	return searchCachePrefix + "keyword:" + hashKey(raw)
}

func nearbyCacheKey(provider string, at entities.LatLng) string {
	return searchCachePrefix + "nearby:" + hashKey(fmt.Sprintf("%s|%.4f,%.4f", provider, at.Lat, at.Lng))
}

func hashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
