package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Local is an in-process meter provider whose totals are read back on demand,
// for sessions without an exporter.
type Local struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
}

// InstallLocal creates a Local provider and makes it the global one.
func InstallLocal() *Local {
	reader := sdkmetric.NewManualReader()
	l := &Local{
		reader:   reader,
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
	}
	otel.SetMeterProvider(l.provider)
	return l
}

// Totals collects every metric. Counters map to their sum; histograms map to
// "<name>.count" and "<name>.sum".
func (l *Local) Totals(ctx context.Context) (map[string]float64, error) {
	var rm metricdata.ResourceMetrics
	if err := l.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collecting metrics: %w", err)
	}

	out := map[string]float64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += float64(dp.Value)
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					out[m.Name+".count"] += float64(dp.Count)
					out[m.Name+".sum"] += dp.Sum
				}
			}
		}
	}
	return out, nil
}

// Shutdown flushes and stops the provider.
func (l *Local) Shutdown(ctx context.Context) error {
	return l.provider.Shutdown(ctx)
}
