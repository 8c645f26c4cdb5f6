package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "ledger"

// MetricsCollector records ledger operation metrics.
type MetricsCollector interface {
	// Operation metrics
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)

	// Cache metrics
	RecordCacheHit(key string)
	RecordCacheMiss(key string)

	// Error metrics
	RecordError(operation, errType string)

	// Money movement, in minor units
	RecordTransaction(txType string, amount int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (NoopMetricsCollector) RecordOperationResult(string, string)          {}
func (NoopMetricsCollector) RecordCacheHit(string)                         {}
func (NoopMetricsCollector) RecordCacheMiss(string)                        {}
func (NoopMetricsCollector) RecordError(string, string)                    {}
func (NoopMetricsCollector) RecordTransaction(string, int64)               {}

// OtelMetrics implements MetricsCollector on the global OpenTelemetry meter.
type OtelMetrics struct {
	duration metric.Float64Histogram
	results  metric.Int64Counter
	cache    metric.Int64Counter
	errors   metric.Int64Counter
	volume   metric.Int64Counter
}

func NewOtelMetrics() (*OtelMetrics, error) {
	return NewOtelMetricsWithMeter(otel.Meter(instrumentationName))
}

func NewOtelMetricsWithMeter(meter metric.Meter) (*OtelMetrics, error) {
	var (
		m   OtelMetrics
		err error
	)
	if m.duration, err = meter.Float64Histogram("ledger.operation.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of ledger operations")); err != nil {
		return nil, err
	}
	if m.results, err = meter.Int64Counter("ledger.operation.results",
		metric.WithDescription("Ledger operation outcomes")); err != nil {
		return nil, err
	}
	if m.cache, err = meter.Int64Counter("ledger.cache.lookups",
		metric.WithDescription("Cache lookups by result")); err != nil {
		return nil, err
	}
	if m.errors, err = meter.Int64Counter("ledger.errors",
		metric.WithDescription("Ledger errors by kind")); err != nil {
		return nil, err
	}
	if m.volume, err = meter.Int64Counter("ledger.transaction.volume",
		metric.WithUnit("{minor_unit}"),
		metric.WithDescription("Money moved by committed transactions")); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *OtelMetrics) RecordOperationDuration(operation string, duration time.Duration) {
	m.duration.Record(context.Background(), duration.Seconds(),
		metric.WithAttributes(attribute.String("operation", operation)))
}

func (m *OtelMetrics) RecordOperationResult(operation, result string) {
	m.results.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("result", result)))
}

// Cache keys carry owner ids and references, so only the hit/miss result is
// recorded as an attribute.
func (m *OtelMetrics) RecordCacheHit(string) {
	m.cache.Add(context.Background(), 1, metric.WithAttributes(attribute.String("result", "hit")))
}

func (m *OtelMetrics) RecordCacheMiss(string) {
	m.cache.Add(context.Background(), 1, metric.WithAttributes(attribute.String("result", "miss")))
}

func (m *OtelMetrics) RecordError(operation, errType string) {
	m.errors.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("type", errType)))
}

func (m *OtelMetrics) RecordTransaction(txType string, amount int64) {
	m.volume.Add(context.Background(), amount, metric.WithAttributes(attribute.String("type", txType)))
}
