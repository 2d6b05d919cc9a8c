package places

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayursutra/wellness-portal/internal/adapters/cache"
	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
	redisclient "github.com/ayursutra/wellness-portal/internal/infrastructure/clients/redis"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

type countingSearcher struct {
	*StaticCentreSearcher
	keywordCalls int
	nearbyCalls  int
}

func (c *countingSearcher) SearchByKeyword(ctx context.Context, keyword string, bias *entities.Bounds) ([]entities.Centre, error) {
	c.keywordCalls++
	return c.StaticCentreSearcher.SearchByKeyword(ctx, keyword, bias)
}

func (c *countingSearcher) SearchNearby(ctx context.Context, at entities.LatLng) ([]entities.Centre, error) {
	c.nearbyCalls++
	return c.StaticCentreSearcher.SearchNearby(ctx, at)
}

func newCachedSearcher(t *testing.T) (*CachedCentreSearcher, *countingSearcher, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := &countingSearcher{StaticCentreSearcher: NewStaticCentreSearcher(25000, DemoCentres()...)}
	cached := NewCachedCentreSearcher(inner, cache.NewRedisAdapter(redisclient.Wrap(client)), time.Minute, nil)
	return cached, inner, mr
}

func TestCachedSearcher_KeywordHitSkipsProvider(t *testing.T) {
	ctx := context.Background()
	cached, inner, _ := newCachedSearcher(t)

	first, err := cached.SearchByKeyword(ctx, "Panchakarma", nil)
	require.NoError(t, err)
	second, err := cached.SearchByKeyword(ctx, "  panchakarma ", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.keywordCalls)
	assert.Equal(t, first, second)
	assert.Equal(t, providers.SearchStatusOK, cached.LastOutcome().Status)
}

func TestCachedSearcher_BiasIsPartOfTheKey(t *testing.T) {
	ctx := context.Background()
	cached, inner, _ := newCachedSearcher(t)

	bias := &entities.Bounds{
		SouthWest: entities.LatLng{Lat: 19.0, Lng: 72.8},
		NorthEast: entities.LatLng{Lat: 19.1, Lng: 72.9},
	}
	_, err := cached.SearchByKeyword(ctx, "spa", nil)
	require.NoError(t, err)
	_, err = cached.SearchByKeyword(ctx, "spa", bias)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.keywordCalls)
}

func TestCachedSearcher_NearbyExpires(t *testing.T) {
	ctx := context.Background()
	cached, inner, mr := newCachedSearcher(t)
	at := entities.LatLng{Lat: 19.06, Lng: 72.83}

	_, err := cached.SearchNearby(ctx, at)
	require.NoError(t, err)
	_, err = cached.SearchNearby(ctx, at)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.nearbyCalls)

	mr.FastForward(2 * time.Minute)

	_, err = cached.SearchNearby(ctx, at)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.nearbyCalls)
}

func TestCachedSearcher_FailuresAreNotCached(t *testing.T) {
	ctx := context.Background()
	cached, inner, mr := newCachedSearcher(t)
	inner.Err = apperrors.NewProviderUnavailableError("down", nil)

	centres, err := cached.SearchByKeyword(ctx, "spa", nil)
	require.Error(t, err)
	assert.Empty(t, centres)
	assert.True(t, cached.LastOutcome().Failed())
	assert.Empty(t, mr.Keys())

	inner.Err = nil
	_, err = cached.SearchByKeyword(ctx, "spa", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.keywordCalls)
}

func TestCachedSearcher_CacheOutageFallsThrough(t *testing.T) {
	ctx := context.Background()
	cached, inner, mr := newCachedSearcher(t)
	mr.Close()

	centres, err := cached.SearchByKeyword(ctx, "ayurveda", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, centres)
	assert.Equal(t, 1, inner.keywordCalls)
}
