package analytics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope for all soundstep metrics.
const meterName = "github.com/abhisek/soundstep"

// Metrics holds the engine's OpenTelemetry instruments. All fields are safe
// for concurrent use.
type Metrics struct {
	// AggregateDuration tracks aggregator latency. Use with attribute:
	//   attribute.String("aggregator", ...)
	AggregateDuration metric.Float64Histogram

	// Recommendations counts emitted recommendations. Use with attribute:
	//   attribute.String("type", ...)
	Recommendations metric.Int64Counter

	// StoreErrors counts event store reads that failed and degraded to an
	// empty history.
	StoreErrors metric.Int64Counter
}

var durationBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1,
}

// NewMetrics creates the instruments on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.AggregateDuration, err = m.Float64Histogram("soundstep.aggregate.duration",
		metric.WithDescription("Latency of one aggregation pass."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Recommendations, err = m.Int64Counter("soundstep.recommendations",
		metric.WithDescription("Recommendations emitted by type."),
	); err != nil {
		return nil, err
	}
	if met.StoreErrors, err = m.Int64Counter("soundstep.store.errors",
		metric.WithDescription("Event store reads that failed."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns instruments on the global meter provider, which is
// a no-op until one is installed.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("analytics: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

func (m *Metrics) recordDuration(ctx context.Context, aggregator string, start time.Time) {
	m.AggregateDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("aggregator", aggregator)),
	)
}

func (m *Metrics) recordRecommendation(ctx context.Context, typ string) {
	m.Recommendations.Add(ctx, 1,
		metric.WithAttributes(attribute.String("type", typ)),
	)
}

func (m *Metrics) recordStoreError(ctx context.Context) {
	m.StoreErrors.Add(ctx, 1)
}
