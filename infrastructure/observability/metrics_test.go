package observability

import (
	"context"
	"testing"
	"time"

	"cogbot/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsProvider_NilIsSafe(t *testing.T) {
	var mp *MetricsProvider

	assert.NotPanics(t, func() {
		mp.RecordCommand("defcon")
		mp.RecordReactionAdded("bees")
		mp.RecordFetch("example.com", OutcomeError)
		mp.RecordNATSMessagePublished("poll.opened")
		mp.MeasureDatabaseQuery("poll", "GetByID")()
	})
}

func TestMetricsProvider_DisabledSkipsExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = false

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))

	assert.False(t, mp.isEnabled())
	assert.NotPanics(t, func() { mp.RecordDatabaseQuery("poll", "Create", time.Millisecond) })
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricsProvider_ConsoleExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "console"
	cfg.OTelServiceName = "cogbot-test"
	cfg.OTelExportIntervalMillis = 60000

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	assert.True(t, mp.isEnabled())
	assert.NotPanics(t, func() {
		mp.RecordCommand("rpoll")
		mp.RecordFetch("coinmarketcap.com", OutcomeSuccess)
	})
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "carrier-pigeon"

	err := NewMetricsProvider(cfg).Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown exporter type")
}
