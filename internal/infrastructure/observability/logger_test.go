package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_JSONOutputCarriesService(t *testing.T) {
	previous := log.Logger
	previousLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(previousLevel)
	})

	var buf bytes.Buffer
	initLogger(&buf, "wellness-portal", "production", "debug")

	LoggerFromContext(context.Background()).Info().Str("centre", "c1").Msg("booked")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "wellness-portal", entry["service"])
	assert.Equal(t, "booked", entry["message"])
	assert.Equal(t, "c1", entry["centre"])
	assert.NotContains(t, entry, "trace_id")
}

func TestInitLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	previous := log.Logger
	previousLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(previousLevel)
	})

	var buf bytes.Buffer
	initLogger(&buf, "svc", "production", "chatty")

	GetLogger().Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestRecordHelpers_NilMetricsAreNoops(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, nil, "GET", "/api/patient", 200, 0)
		RecordCentreSearch(ctx, nil, "google", "keyword", "ok", 0)
		RecordAppointmentBooked(ctx, nil)
		RecordCacheHit(ctx, nil, "centres")
		RecordCacheMiss(ctx, nil, "centres")
	})

	metrics, err := InitMetrics()
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		RecordCentreSearch(ctx, metrics, "mock", "nearby", "zero_results", 0)
		RecordAppointmentBooked(ctx, metrics)
	})
}
