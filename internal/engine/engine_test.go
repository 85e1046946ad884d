package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/race-engine/internal/geom"
	"github.com/cxd309/race-engine/internal/kinematics"
	"github.com/cxd309/race-engine/internal/track"
	"github.com/cxd309/race-engine/internal/vehicle"
)

// shuttleInput is a two-checkpoint circuit driven by a script that goes out
// past checkpoint 1, stops, turns around on the spot and drives back through
// the start gate.
func shuttleInput() RaceInput {
	return RaceInput{
		Meta: RaceMeta{RaceID: "shuttle", Frames: 260, TickRate: 50},
		TrackData: track.TrackData{
			Waypoints:      []geom.Point{{X: 100, Y: 300}, {X: 300, Y: 300}},
			CheckpointSize: 40,
		},
		Player: PlayerSpec{
			Start:      geom.Point{X: 151, Y: 300},
			Kinematics: vehicle.Kinematics{Model: kinematics.ConstantAcceleration{Accel: 2}},
		},
		Controls: []ControlWindow{
			{FromFrame: 0, ToFrame: 1, Actions: []kinematics.Action{kinematics.ActionAccelerate}},
			{FromFrame: 100, ToFrame: 101, Actions: []kinematics.Action{kinematics.ActionBrake}},
			{FromFrame: 101, ToFrame: 137, Actions: []kinematics.Action{kinematics.ActionSteerRight}},
			{FromFrame: 137, ToFrame: 138, Actions: []kinematics.Action{kinematics.ActionAccelerate}},
		},
	}
}

func eventsOf(log RaceLog, kind EventKind) []Event {
	var out []Event
	for _, row := range log.Output {
		for _, ev := range row.Events {
			if ev.Kind == kind {
				out = append(out, ev)
			}
		}
	}
	return out
}

func TestNewSession_DefaultInput(t *testing.T) {
	s, err := NewSession(DefaultInput())
	require.NoError(t, err)

	assert.Equal(t, StatusRacing, s.Status())
	assert.Equal(t, 0, s.Frame())
	assert.Equal(t, geom.Point{X: 150, Y: 150}, s.Player().Position())
	assert.Equal(t, 4, s.Track().NumCheckpoints())

	gate, ok := s.Track().Checkpoint(0)
	require.True(t, ok)
	assert.Equal(t, 100.0, gate.W)
	assert.Equal(t, 10.0, gate.H)

	p := s.Progress()
	assert.Equal(t, 1, p.Lap)
	assert.Equal(t, 0, p.LastCheckpoint)
	assert.Empty(t, p.LapTimes)

	opps := s.Opponents()
	require.Len(t, opps, 2)
	assert.Equal(t, geom.Point{X: 700, Y: 100}, opps[0].Position)
	assert.Equal(t, geom.Point{X: 100, Y: 500}, opps[1].Position)
	assert.Equal(t, 0, opps[0].Target())
	assert.Equal(t, 2.2, opps[0].Speed)
	assert.Equal(t, time.Second/60, s.Interval())
}

func TestNewSession_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RaceInput)
		want   string
	}{
		{"bad track", func(in *RaceInput) { in.TrackData.Waypoints = nil }, "building track"},
		{"negative tick rate", func(in *RaceInput) { in.Meta.TickRate = -1 }, "tick rate"},
		{"sub-nanosecond tick", func(in *RaceInput) { in.Meta.TickRate = 2e9 }, "tick rate"},
		{"overflowing tick", func(in *RaceInput) { in.Meta.TickRate = 1e-10 }, "tick rate"},
		{"empty bounds", func(in *RaceInput) { in.Bounds = &track.Bounds{} }, "world bounds"},
		{"duplicate opponent", func(in *RaceInput) { in.Opponents[1].ID = in.Opponents[0].ID }, "already exists"},
		{"negative speed", func(in *RaceInput) { in.Opponents[0].Speed = -1 }, "speed"},
		{"negative start", func(in *RaceInput) { in.Opponents[0].StartIndex = -2 }, "start index"},
		{"target past path", func(in *RaceInput) { in.Opponents[0].TargetIndex = 7 }, "target index"},
		{"negative target", func(in *RaceInput) { in.Opponents[1].TargetIndex = -1 }, "target index"},
		{"bad window", func(in *RaceInput) {
			in.Controls = []ControlWindow{{FromFrame: 5, ToFrame: 2}}
		}, "control window"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := DefaultInput()
			tt.mutate(&in)
			_, err := NewSession(in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewSession_FillsDefaults(t *testing.T) {
	in := DefaultInput()
	in.Meta.TickRate = 0
	in.Bounds = nil
	in.Player.Kinematics = vehicle.Kinematics{}
	in.Opponents = []OpponentSpec{{StartIndex: 6}}

	s, err := NewSession(in)
	require.NoError(t, err)
	assert.Equal(t, track.DefaultBounds, s.Bounds())
	assert.Equal(t, time.Second/60, s.Interval())
	require.Len(t, s.Opponents(), 1)
	assert.Equal(t, "opponent-1", s.Opponents()[0].ID)
	assert.Equal(t, vehicle.DefaultOpponentSpeed, s.Opponents()[0].Speed)
	assert.Equal(t, geom.Point{X: 700, Y: 500}, s.Opponents()[0].Position, "start index wraps around the path")

	s.Tick(kinematics.ActionAccelerate)
	assert.InDelta(t, DefaultAcceleration, s.Player().Pose.Speed, 1e-12)
}

func TestRun_ShuttleCompletesLap(t *testing.T) {
	s, err := NewSession(shuttleInput())
	require.NoError(t, err)

	log, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, log.Output, 261)
	assert.Equal(t, 0, log.Output[0].Frame)

	cps := eventsOf(log, EventCheckpoint)
	require.Len(t, cps, 1)
	assert.Equal(t, 60, cps[0].Frame)
	assert.Equal(t, 1, cps[0].Checkpoint)

	laps := eventsOf(log, EventLap)
	require.Len(t, laps, 1)
	assert.Equal(t, 248, laps[0].Frame)
	assert.Equal(t, 2, laps[0].Lap)
	assert.Equal(t, 0, laps[0].Checkpoint)
	assert.Equal(t, 4960*time.Millisecond, laps[0].LapTime)

	assert.Equal(t, StatusRacing, log.Summary.Status)
	assert.Equal(t, 260, log.Summary.Frames)
	assert.Equal(t, 1, log.Summary.LapsCompleted)
	assert.InDeltaSlice(t, []float64{4.96}, log.Summary.LapTimes, 1e-9)
	assert.InDelta(t, 4.96, log.Summary.BestLap, 1e-9)
	assert.InDelta(t, 400.0, log.Summary.TrackLength, 1e-9)

	last := log.Output[len(log.Output)-1]
	assert.Equal(t, 2, last.Progress.Lap)
	assert.InDelta(t, 5.2, last.Elapsed, 1e-9)
}

func TestTick_ScriptedControls(t *testing.T) {
	s, err := NewSession(shuttleInput())
	require.NoError(t, err)

	assert.Equal(t, []kinematics.Action{kinematics.ActionAccelerate}, s.ControlsAt(0))
	assert.Empty(t, s.ControlsAt(1))
	assert.Equal(t, []kinematics.Action{kinematics.ActionSteerRight}, s.ControlsAt(136))
	assert.Empty(t, s.ControlsAt(138))

	for s.Frame() < 137 {
		s.Tick(s.ControlsAt(s.Frame())...)
	}
	assert.Equal(t, 180.0, s.Player().Pose.Heading)
	assert.Equal(t, 0.0, s.Player().Pose.Speed)
	assert.InDelta(t, 351.0, s.Player().Position().X, 1e-9)
}

func TestRun_CrashEndsRace(t *testing.T) {
	in := DefaultInput()
	in.Meta.Frames = 1000
	in.Controls = []ControlWindow{{FromFrame: 0, ToFrame: 1000, Actions: []kinematics.Action{kinematics.ActionAccelerate}}}

	s, err := NewSession(in)
	require.NoError(t, err)

	log, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusCrashed, log.Summary.Status)
	assert.Equal(t, 114, log.Summary.Frames)
	assert.Len(t, log.Output, 115)

	crashes := eventsOf(log, EventOutOfBounds)
	require.Len(t, crashes, 1)
	assert.Equal(t, 114, crashes[0].Frame)
	assert.Greater(t, crashes[0].Position.X, 800.0)

	assert.Nil(t, s.Tick(kinematics.ActionAccelerate), "ticks after a crash are no-ops")
	assert.Equal(t, 114, s.Frame())
}

func TestRun_RequiresFrames(t *testing.T) {
	s, err := NewSession(DefaultInput())
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame count")
}

func TestRun_Cancelled(t *testing.T) {
	in := shuttleInput()
	s, err := NewSession(in)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestOpponentsMoveEveryTick(t *testing.T) {
	s, err := NewSession(DefaultInput())
	require.NoError(t, err)

	s.Tick()
	opps := s.Opponents()
	// blue-1 starts on waypoint 1 heading for waypoint 0, straight left.
	assert.InDelta(t, 700-2.2, opps[0].Position.X, 1e-9)
	assert.InDelta(t, 100.0, opps[0].Position.Y, 1e-9)
	// blue-2 starts on waypoint 3 heading for waypoint 0, straight up.
	assert.InDelta(t, 100.0, opps[1].Position.X, 1e-9)
	assert.InDelta(t, 500-2.4, opps[1].Position.Y, 1e-9)
}

func TestReset_ReturnsIndependentSession(t *testing.T) {
	s, err := NewSession(shuttleInput())
	require.NoError(t, err)
	for s.Frame() < 100 {
		s.Tick(s.ControlsAt(s.Frame())...)
	}
	before := s.Snapshot(nil)

	fresh := s.Reset()
	assert.Equal(t, 0, fresh.Frame())
	assert.Equal(t, geom.Point{X: 151, Y: 300}, fresh.Player().Position())
	assert.Equal(t, 0.0, fresh.Player().Pose.Speed)
	assert.Equal(t, 1, fresh.Progress().Lap)
	assert.Equal(t, StatusRacing, fresh.Status())
	assert.Same(t, s.Track(), fresh.Track())

	fresh.Tick(kinematics.ActionAccelerate)
	assert.Equal(t, before, s.Snapshot(nil), "resetting must not touch the original session")
}

func TestProgressReturnsCopy(t *testing.T) {
	s, err := NewSession(shuttleInput())
	require.NoError(t, err)
	log, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, log.Summary.LapsCompleted)

	p := s.Progress()
	p.LapTimes[0] = 0
	assert.Equal(t, 4960*time.Millisecond, s.Progress().LapTimes[0])
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := NewSession(shuttleInput(), WithLogger(logger))
	require.NoError(t, err)
	_, err = s.Run(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"checkpoint passed"`)
	assert.Contains(t, out, `"msg":"lap completed"`)
	assert.Contains(t, out, `"msg":"race finished"`)
}

func TestRunJSON(t *testing.T) {
	in, err := json.Marshal(shuttleInput())
	require.NoError(t, err)

	out, err := RunJSON(context.Background(), string(in))
	require.NoError(t, err)

	var log RaceLog
	require.NoError(t, json.Unmarshal([]byte(out), &log))
	assert.Equal(t, "shuttle", log.Meta.RaceID)
	assert.Equal(t, 1, log.Summary.LapsCompleted)
	assert.Len(t, log.Output, 261)
}

func TestRunJSON_Errors(t *testing.T) {
	_, err := RunJSON(context.Background(), "{")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input JSON")

	_, err = RunJSON(context.Background(), `{"track_data":{"waypoints":[]}}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "building track")

	_, err = RunJSON(context.Background(), `{"track_data":{"waypoints":[{"x":1,"y":1},{"x":5,"y":5}]},
		"player":{"kinematics":{"model":"warp"}}}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kinematics model")
}
