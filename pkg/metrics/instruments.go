package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Coordinator metrics
var (
	// CoordinatorRefreshTotal counts refresh attempts by coordinator and status
	CoordinatorRefreshTotal metric.Int64Counter

	// CoordinatorRefreshDuration measures refresh duration
	CoordinatorRefreshDuration metric.Float64Histogram
)

// Forecast API metrics
var (
	// APIRequestsTotal counts forecast API requests by status
	APIRequestsTotal metric.Int64Counter

	// ForecastPayloadSize measures the size of XML payloads being parsed
	ForecastPayloadSize metric.Int64Histogram

	// TramsExtracted counts tram arrival records successfully extracted
	TramsExtracted metric.Int64Counter
)

// initializeInstruments creates all metric instruments
func initializeInstruments() error {
	var err error

	CoordinatorRefreshTotal, err = Meter.Int64Counter(
		"coordinator.refresh.total",
		metric.WithDescription("Refresh attempts by coordinator and status"),
		metric.WithUnit("{refresh}"),
	)
	if err != nil {
		return err
	}

	CoordinatorRefreshDuration, err = Meter.Float64Histogram(
		"coordinator.refresh.duration",
		metric.WithDescription("Duration of coordinator refreshes"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return err
	}

	APIRequestsTotal, err = Meter.Int64Counter(
		"luas.api.requests.total",
		metric.WithDescription("Total forecast API requests by status"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	ForecastPayloadSize, err = Meter.Int64Histogram(
		"forecast.payload.size",
		metric.WithDescription("Size of forecast XML payloads"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(256, 1024, 4096, 16384, 65536),
	)
	if err != nil {
		return err
	}

	TramsExtracted, err = Meter.Int64Counter(
		"parser.trams.extracted",
		metric.WithDescription("Tram arrival records successfully extracted"),
		metric.WithUnit("{tram}"),
	)
	return err
}

// The record helpers below are nil-safe so call sites work whether or not
// InitMetrics ran (metrics disabled, tests).

// RecordRefresh records one coordinator refresh attempt.
func RecordRefresh(ctx context.Context, coordinator, status string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("coordinator", coordinator),
		attribute.String("status", status),
	)
	if CoordinatorRefreshTotal != nil {
		CoordinatorRefreshTotal.Add(ctx, 1, attrs)
	}
	if CoordinatorRefreshDuration != nil {
		CoordinatorRefreshDuration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

// RecordAPIRequest records one forecast API request.
func RecordAPIRequest(ctx context.Context, status string) {
	if APIRequestsTotal != nil {
		APIRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

// RecordPayloadSize records the size of one forecast payload.
func RecordPayloadSize(ctx context.Context, sizeBytes int) {
	if ForecastPayloadSize != nil {
		ForecastPayloadSize.Record(ctx, int64(sizeBytes))
	}
}

// RecordTramsExtracted records how many trams one parse produced.
func RecordTramsExtracted(ctx context.Context, count int) {
	if TramsExtracted != nil {
		TramsExtracted.Add(ctx, int64(count))
	}
}
