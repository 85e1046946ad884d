package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/cxd309/race-engine/internal/engine"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestRecord(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	r, err := NewWithMeter(provider.Meter("test"), "r1")
	require.NoError(t, err)

	ctx := context.Background()
	r.Record(ctx, []engine.Event{{Kind: engine.EventCheckpoint}, {Kind: engine.EventCheckpoint}})
	r.Record(ctx, nil)
	r.Record(ctx, []engine.Event{{Kind: engine.EventLap, LapTime: 1500 * time.Millisecond}})
	r.Record(ctx, []engine.Event{{Kind: engine.EventOutOfBounds}})

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, got["race.checkpoints"]))
	assert.Equal(t, int64(1), sumOf(t, got["race.laps"]))
	assert.Equal(t, int64(1), sumOf(t, got["race.crashes"]))

	hist, ok := got["race.lap_time"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.Equal(t, 1.5, hist.DataPoints[0].Sum)

	raceID, ok := hist.DataPoints[0].Attributes.Value("race_id")
	require.True(t, ok)
	assert.Equal(t, "r1", raceID.AsString())
}

func TestRecord_NoopMeter(t *testing.T) {
	r, err := NewWithMeter(noop.NewMeterProvider().Meter("test"), "r1")
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		r.Record(context.Background(), []engine.Event{{Kind: engine.EventLap, LapTime: time.Second}})
	})
}

func TestNew_GlobalProvider(t *testing.T) {
	r, err := New("r1")
	require.NoError(t, err)
	assert.NotNil(t, r)
}
