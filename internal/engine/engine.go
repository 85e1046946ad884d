// Package engine implements the race session and its fixed-tick loop.
//
// Each tick runs, in order:
//
//  1. Player pass - the frame's control actions are applied to the player car,
//     which then advances one step along its heading.
//  2. Progress pass - the player's box is tested against the next checkpoint
//     and the lap record is updated.
//  3. AI pass - every opponent follows its patrol path.
//  4. Bounds pass - a player outside the world rectangle ends the race.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cxd309/race-engine/internal/kinematics"
	"github.com/cxd309/race-engine/internal/progress"
	"github.com/cxd309/race-engine/internal/track"
	"github.com/cxd309/race-engine/internal/vehicle"
)

// NewSession validates input, builds the track and places every vehicle at
// its starting position.
func NewSession(input RaceInput, opts ...Option) (*Session, error) {
	tr, err := track.NewTrack(input.TrackData)
	if err != nil {
		return nil, fmt.Errorf("building track: %w", err)
	}
	interval, err := validate(&input, len(tr.AIPath()))
	if err != nil {
		return nil, err
	}

	s := &Session{
		input:    input,
		track:    tr,
		bounds:   *input.Bounds,
		interval: interval,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.start()
	return s, nil
}

// validate checks input against a path of n waypoints, fills in defaults and
// returns the frame interval.
func validate(input *RaceInput, n int) (time.Duration, error) {
	if input.Meta.TickRate < 0 {
		return 0, fmt.Errorf("tick rate must not be negative, got %g", input.Meta.TickRate)
	}
	if input.Meta.TickRate == 0 {
		input.Meta.TickRate = DefaultTickRate
	}
	ns := float64(time.Second) / input.Meta.TickRate
	if !(ns >= 1 && ns < math.MaxInt64) {
		return 0, fmt.Errorf("tick rate %g gives no usable frame interval", input.Meta.TickRate)
	}
	if input.Bounds == nil {
		b := track.DefaultBounds
		input.Bounds = &b
	}
	if input.Bounds.Width <= 0 || input.Bounds.Height <= 0 {
		return 0, fmt.Errorf("world bounds must be positive, got %gx%g", input.Bounds.Width, input.Bounds.Height)
	}
	if input.Player.Kinematics.Model == nil {
		input.Player.Kinematics.Model = kinematics.ConstantAcceleration{Accel: DefaultAcceleration}
	}

	opponents := make([]OpponentSpec, len(input.Opponents))
	seen := make(map[vehicle.OpponentID]bool, len(input.Opponents))
	for i, o := range input.Opponents {
		if o.ID == "" {
			o.ID = fmt.Sprintf("opponent-%d", i+1)
		}
		if seen[o.ID] {
			return 0, fmt.Errorf("opponent %q already exists", o.ID)
		}
		seen[o.ID] = true
		if o.Speed < 0 {
			return 0, fmt.Errorf("opponent %q: speed must not be negative, got %g", o.ID, o.Speed)
		}
		if o.Speed == 0 {
			o.Speed = vehicle.DefaultOpponentSpeed
		}
		if o.StartIndex < 0 {
			return 0, fmt.Errorf("opponent %q: negative start index %d", o.ID, o.StartIndex)
		}
		if o.TargetIndex < 0 || o.TargetIndex >= n {
			return 0, fmt.Errorf("opponent %q: target index %d out of range [0, %d)", o.ID, o.TargetIndex, n)
		}
		opponents[i] = o
	}
	input.Opponents = opponents

	for i, c := range input.Controls {
		if c.FromFrame < 0 || c.ToFrame < c.FromFrame {
			return 0, fmt.Errorf("control window %d: invalid frame range [%d, %d)", i, c.FromFrame, c.ToFrame)
		}
	}
	return time.Duration(ns), nil
}

// start places the vehicles and opens the lap record at time zero.
func (s *Session) start() {
	s.player = vehicle.NewCar(kinematics.Pose{
		Position: s.input.Player.Start,
		Heading:  s.input.Player.Heading,
	}, s.input.Player.Kinematics.Model)

	path := s.track.AIPath()
	s.opponents = make([]*vehicle.Opponent, 0, len(s.input.Opponents))
	for _, spec := range s.input.Opponents {
		start := path[spec.StartIndex%len(path)]
		s.opponents = append(s.opponents, vehicle.NewOpponent(spec.ID, start, path, spec.Speed, spec.TargetIndex))
	}

	s.frame = 0
	s.status = StatusRacing
	s.progress = progress.New(0)
}

// Reset returns a fresh session built from the same input. The receiver is
// left untouched, so old and new sessions can be used independently.
func (s *Session) Reset() *Session {
	fresh := &Session{
		input:    s.input,
		track:    s.track,
		bounds:   s.bounds,
		interval: s.interval,
		logger:   s.logger,
	}
	fresh.start()
	return fresh
}

// Tick advances the race by one frame, applying actions to the player car,
// and returns the events of the frame. It is a no-op once the race is over.
func (s *Session) Tick(actions ...kinematics.Action) []Event {
	if s.status != StatusRacing {
		return nil
	}
	s.frame++
	now := s.Elapsed()

	for _, a := range actions {
		s.player.Apply(a)
	}
	s.player.Advance()

	var events []Event
	next, tr := progress.Step(s.progress, s.player.Box, s.track, now)
	s.progress = next
	switch tr {
	case progress.CheckpointPassed:
		events = append(events, s.event(EventCheckpoint, 0))
		s.logger.Debug("checkpoint passed", "frame", s.frame, "checkpoint", s.progress.LastCheckpoint)
	case progress.LapCompleted:
		lapTime, _ := s.progress.LastLap()
		events = append(events, s.event(EventLap, lapTime))
		s.logger.Info("lap completed", "frame", s.frame, "lap", s.progress.Lap-1, "lap_time", lapTime)
	}

	for _, o := range s.opponents {
		o.Follow()
	}

	if s.bounds.OutOfBounds(s.player.Position()) {
		s.status = StatusCrashed
		events = append(events, s.event(EventOutOfBounds, 0))
		s.logger.Warn("player out of bounds", "frame", s.frame,
			"x", s.player.Position().X, "y", s.player.Position().Y,
			"laps_completed", s.progress.Completed())
	}
	return events
}

func (s *Session) event(kind EventKind, lapTime time.Duration) Event {
	return Event{
		Frame:      s.frame,
		Kind:       kind,
		Checkpoint: s.progress.LastCheckpoint,
		Lap:        s.progress.Lap,
		LapTime:    lapTime,
		Position:   s.player.Position(),
	}
}

// Run drives the session for the configured number of frames using the
// scripted controls and returns the log. It stops early when the player
// leaves the world bounds or ctx is cancelled.
func (s *Session) Run(ctx context.Context) (RaceLog, error) {
	if s.input.Meta.Frames <= 0 {
		return RaceLog{}, fmt.Errorf("race %q: frame count must be positive, got %d", s.input.Meta.RaceID, s.input.Meta.Frames)
	}

	log := RaceLog{Meta: s.input.Meta}
	log.Output = append(log.Output, s.Snapshot(nil))
	for s.frame < s.input.Meta.Frames && s.status == StatusRacing {
		if err := ctx.Err(); err != nil {
			return RaceLog{}, fmt.Errorf("at frame %d: %w", s.frame, err)
		}
		events := s.Tick(s.ControlsAt(s.frame)...)
		log.Output = append(log.Output, s.Snapshot(events))
	}
	log.Summary = s.Summary()
	s.logger.Info("race finished", "race_id", s.input.Meta.RaceID, "status", s.status,
		"frames", s.frame, "laps_completed", s.progress.Completed())
	return log, nil
}

// ControlsAt returns the scripted actions for frame f, in script order.
func (s *Session) ControlsAt(f int) []kinematics.Action {
	var out []kinematics.Action
	for _, c := range s.input.Controls {
		if f >= c.FromFrame && f < c.ToFrame {
			out = append(out, c.Actions...)
		}
	}
	return out
}

// Snapshot returns the state of the race at the current frame.
func (s *Session) Snapshot(events []Event) FrameLog {
	opps := make([]vehicle.OpponentLog, len(s.opponents))
	for i, o := range s.opponents {
		opps[i] = o.GetLog()
	}
	return FrameLog{
		Frame:   s.frame,
		Elapsed: seconds(s.Elapsed()),
		Status:  s.status,
		Player:  s.player.GetLog(),
		Progress: ProgressLog{
			Lap:            s.progress.Lap,
			LastCheckpoint: s.progress.LastCheckpoint,
			LapTimes:       secondsAll(s.progress.LapTimes),
		},
		Opponents: opps,
		Events:    events,
	}
}

// Summary returns the outcome of the race so far.
func (s *Session) Summary() Summary {
	sum := Summary{
		Status:        s.status,
		Frames:        s.frame,
		LapsCompleted: s.progress.Completed(),
		LapTimes:      secondsAll(s.progress.LapTimes),
		TrackLength:   s.track.Length(),
	}
	if best, ok := s.progress.BestLap(); ok {
		sum.BestLap = seconds(best)
	}
	return sum
}

// Player returns the player car. Callers may read it but should steer it only through Tick.
func (s *Session) Player() *vehicle.Car { return s.player }

// Opponents returns the AI opponents in input order.
func (s *Session) Opponents() []*vehicle.Opponent { return s.opponents }

// Track returns the shared, read-only track.
func (s *Session) Track() *track.Track { return s.track }

// Bounds returns the world rectangle.
func (s *Session) Bounds() track.Bounds { return s.bounds }

// Progress returns a copy of the player's lap record.
func (s *Session) Progress() progress.State {
	p := s.progress
	p.LapTimes = append([]time.Duration(nil), p.LapTimes...)
	return p
}

// Status returns whether the race is still running.
func (s *Session) Status() Status { return s.status }

// Frame returns the number of frames simulated so far.
func (s *Session) Frame() int { return s.frame }

// Elapsed returns the simulation clock.
func (s *Session) Elapsed() time.Duration { return time.Duration(s.frame) * s.interval }

// Interval returns the simulated duration of one frame.
func (s *Session) Interval() time.Duration { return s.interval }

// RunJSON is the primary entry point for the CLI and WASM targets.
// It accepts a JSON-encoded RaceInput, runs the race, and returns a
// JSON-encoded RaceLog.
func RunJSON(ctx context.Context, jsonInput string, opts ...Option) (string, error) {
	var input RaceInput
	if err := json.Unmarshal([]byte(jsonInput), &input); err != nil {
		return "", fmt.Errorf("invalid input JSON: %w", err)
	}

	s, err := NewSession(input, opts...)
	if err != nil {
		return "", err
	}

	raceLog, err := s.Run(ctx)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(raceLog)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}
