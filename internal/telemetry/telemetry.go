// Package telemetry records race events as OpenTelemetry metrics.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cxd309/race-engine/internal/engine"
)

const instrumentationName = "github.com/cxd309/race-engine/internal/telemetry"

// Recorder turns session events into metric updates.
type Recorder struct {
	raceID      attribute.KeyValue
	checkpoints metric.Int64Counter
	laps        metric.Int64Counter
	crashes     metric.Int64Counter
	lapTime     metric.Float64Histogram
}

// New creates a Recorder on the global meter provider.
func New(raceID string) (*Recorder, error) {
	return NewWithMeter(otel.Meter(instrumentationName), raceID)
}

// NewWithMeter creates a Recorder on m.
func NewWithMeter(m metric.Meter, raceID string) (*Recorder, error) {
	r := &Recorder{raceID: attribute.String("race_id", raceID)}
	var err error

	r.checkpoints, err = m.Int64Counter(
		"race.checkpoints",
		metric.WithDescription("Checkpoints passed by the player"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating checkpoints counter: %w", err)
	}

	r.laps, err = m.Int64Counter(
		"race.laps",
		metric.WithDescription("Laps completed by the player"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating laps counter: %w", err)
	}

	r.crashes, err = m.Int64Counter(
		"race.crashes",
		metric.WithDescription("Races ended by leaving the world bounds"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating crashes counter: %w", err)
	}

	r.lapTime, err = m.Float64Histogram(
		"race.lap_time",
		metric.WithDescription("Lap time"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating lap time histogram: %w", err)
	}

	return r, nil
}

// Record updates the metrics for one frame's events.
func (r *Recorder) Record(ctx context.Context, events []engine.Event) {
	attrs := metric.WithAttributes(r.raceID)
	for _, ev := range events {
		switch ev.Kind {
		case engine.EventCheckpoint:
			r.checkpoints.Add(ctx, 1, attrs)
		case engine.EventLap:
			r.laps.Add(ctx, 1, attrs)
			r.lapTime.Record(ctx, ev.LapTime.Seconds(), attrs)
		case engine.EventOutOfBounds:
			r.crashes.Add(ctx, 1, attrs)
		}
	}
}
