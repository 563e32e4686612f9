package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cogbot/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// queryBuckets are histogram bounds in seconds for repository calls
var queryBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// counterSpecs lists every counter the bot exports, keyed by metric name
var counterSpecs = map[string]string{
	CommandsHandledTotal:       "Slash commands handled",
	ReactionsAddedTotal:        "Reactions the bot added to messages",
	ExternalFetchesTotal:       "Outbound HTTP fetches",
	NATSMessagesPublishedTotal: "Events mirrored to NATS",
	DatabaseQueriesTotal:       "Repository queries",
}

// MetricsProvider owns the OpenTelemetry meter provider and instruments.
// Every Record method is a no-op on a nil or disabled provider.
type MetricsProvider struct {
	config *config.Config

	mu            sync.RWMutex
	meterProvider *sdkmetric.MeterProvider
	counters      map[string]metric.Int64Counter
	queryDuration metric.Float64Histogram
	started       bool
}

func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{config: cfg}
}

// Initialize builds the exporter selected by OTEL_EXPORTER_TYPE and creates
// the instruments. Disabled metrics and the "none" exporter initialize to a
// provider that records nothing.
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.started {
		return nil
	}
	mp.started = true

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		return nil
	}

	exporter, err := newExporter(ctx, mp.config)
	if err != nil || exporter == nil {
		return err
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(mp.config.OTelServiceName),
		attribute.String("environment", mp.config.Environment),
	))
	if err != nil {
		return fmt.Errorf("metrics resource: %w", err)
	}

	interval := time.Duration(mp.config.OTelExportIntervalMillis) * time.Millisecond
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)

	meter := provider.Meter("cogbot")
	counters := make(map[string]metric.Int64Counter, len(counterSpecs))
	for name, description := range counterSpecs {
		counter, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit("1"))
		if err != nil {
			return fmt.Errorf("counter %s: %w", name, err)
		}
		counters[name] = counter
	}
	queryDuration, err := meter.Float64Histogram(DatabaseQueryDuration,
		metric.WithDescription("Repository query latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(queryBuckets...),
	)
	if err != nil {
		return fmt.Errorf("histogram %s: %w", DatabaseQueryDuration, err)
	}

	otel.SetMeterProvider(provider)
	mp.meterProvider = provider
	mp.counters = counters
	mp.queryDuration = queryDuration

	log.WithFields(log.Fields{
		"exporter": mp.config.OTelExporterType,
		"interval": interval,
	}).Info("Metrics enabled")
	return nil
}

// newExporter returns nil without error for the "none" exporter
func newExporter(ctx context.Context, cfg *config.Config) (sdkmetric.Exporter, error) {
	switch cfg.OTelExporterType {
	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		return nil, nil
	case "console":
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("console exporter: %w", err)
		}
		return exporter, nil
	case "otlp":
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		exporter, err := otlpmetricgrpc.New(dialCtx,
			otlpmetricgrpc.WithEndpoint(cfg.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("otlp exporter %s: %w", cfg.OTelOTLPEndpoint, err)
		}
		return exporter, nil
	default:
		return nil, fmt.Errorf("unknown exporter type: %s", cfg.OTelExporterType)
	}
}

// Shutdown flushes pending data points
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider == nil {
		return nil
	}
	err := mp.meterProvider.Shutdown(ctx)
	mp.meterProvider = nil
	mp.counters = nil
	return err
}

func (mp *MetricsProvider) add(name string, attrs ...attribute.KeyValue) {
	if mp == nil {
		return
	}
	mp.mu.RLock()
	counter, ok := mp.counters[name]
	mp.mu.RUnlock()
	if ok {
		counter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	}
}

// RecordCommand counts a handled slash command
func (mp *MetricsProvider) RecordCommand(command string) {
	mp.add(CommandsHandledTotal, attribute.String(LabelCommand, command))
}

// RecordReactionAdded counts a reaction the bot placed on behalf of a feature
func (mp *MetricsProvider) RecordReactionAdded(feature string) {
	mp.add(ReactionsAddedTotal, attribute.String(LabelFeature, feature))
}

// RecordFetch counts an outbound fetch by source and outcome
func (mp *MetricsProvider) RecordFetch(source, outcome string) {
	mp.add(ExternalFetchesTotal,
		attribute.String(LabelSource, source),
		attribute.String(LabelOutcome, outcome),
	)
}

func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	mp.add(NATSMessagesPublishedTotal, attribute.String(LabelEventType, eventType))
}

// RecordDatabaseQuery counts a repository call and records its latency
func (mp *MetricsProvider) RecordDatabaseQuery(repository, method string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String(LabelRepository, repository),
		attribute.String(LabelMethod, method),
	}
	mp.add(DatabaseQueriesTotal, attrs...)

	if mp == nil {
		return
	}
	mp.mu.RLock()
	hist := mp.queryDuration
	enabled := mp.meterProvider != nil
	mp.mu.RUnlock()
	if enabled {
		hist.Record(context.Background(), duration.Seconds(), metric.WithAttributes(attrs...))
	}
}

// MeasureDatabaseQuery starts a timer for a repository call:
//
//	defer observability.GetMetrics().MeasureDatabaseQuery("poll", "GetByID")()
func (mp *MetricsProvider) MeasureDatabaseQuery(repository, method string) func() {
	start := time.Now()
	return func() {
		mp.RecordDatabaseQuery(repository, method, time.Since(start))
	}
}

// isEnabled reports whether instruments exist
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.meterProvider != nil
}

var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics sets up the process-wide provider once
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider, nil before initialization
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
