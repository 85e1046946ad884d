// Package progress implements the lap-progression state machine for the
// player vehicle.
//
// Checkpoints are credited strictly in forward cyclic order: only the
// checkpoint after the last credited one is ever tested, so driving backwards
// or cutting across the circuit can neither gain nor lose lap credit. A car
// that geometrically misses a checkpoint cannot progress until it returns to it.
package progress

import (
	"time"

	"github.com/cxd309/race-engine/internal/geom"
)

// Checkpoints is the read-only checkpoint geometry the tracker tests against.
// *track.Track satisfies it.
type Checkpoints interface {
	NumCheckpoints() int
	Checkpoint(i int) (geom.Rect, bool)
}

// Transition names the outcome of one Step.
type Transition string

const (
	None             Transition = "none"
	CheckpointPassed Transition = "checkpoint"
	LapCompleted     Transition = "lap"
)

// State is the lap record of one vehicle.
// A new state already counts checkpoint 0 as passed.
type State struct {
	Lap            int             `json:"current_lap"`
	LastCheckpoint int             `json:"last_checkpoint_index"`
	LapStart       time.Duration   `json:"lap_start"`
	LapTimes       []time.Duration `json:"lap_times"`
}

// New returns the state at the start of a race whose clock reads now.
func New(now time.Duration) State {
	return State{Lap: 1, LastCheckpoint: 0, LapStart: now}
}

// Next returns the only checkpoint index that can be credited next on a
// circuit of n checkpoints.
func (s State) Next(n int) int {
	if n <= 0 {
		return 0
	}
	return (s.LastCheckpoint + 1) % n
}

// Remaining returns how many checkpoints must still be passed to finish the
// current lap, counting the start/finish gate.
func (s State) Remaining(n int) int {
	if n <= 0 {
		return 0
	}
	return n - s.LastCheckpoint
}

// Completed returns the number of finished laps.
func (s State) Completed() int { return len(s.LapTimes) }

// LastLap returns the most recent lap time, or false before the first lap.
func (s State) LastLap() (time.Duration, bool) {
	if len(s.LapTimes) == 0 {
		return 0, false
	}
	return s.LapTimes[len(s.LapTimes)-1], true
}

// BestLap returns the fastest lap time, or false before the first lap.
func (s State) BestLap() (time.Duration, bool) {
	if len(s.LapTimes) == 0 {
		return 0, false
	}
	best := s.LapTimes[0]
	for _, lt := range s.LapTimes[1:] {
		if lt < best {
			best = lt
		}
	}
	return best, true
}

// Current returns the running time of the lap in progress.
func (s State) Current(now time.Duration) time.Duration { return now - s.LapStart }

// Step is the single transition function of the tracker. It tests box against
// the next checkpoint only and returns the new state and what happened.
// The returned LapTimes never shares its backing array with s.
func Step(s State, box geom.Rect, cps Checkpoints, now time.Duration) (State, Transition) {
	n := cps.NumCheckpoints()
	if n == 0 {
		return s, None
	}

	next := s.Next(n)
	cp, ok := cps.Checkpoint(next)
	if !ok || !box.Intersects(cp) {
		return s, None
	}

	if next == 0 && s.LastCheckpoint == n-1 {
		times := make([]time.Duration, len(s.LapTimes), len(s.LapTimes)+1)
		copy(times, s.LapTimes)
		s.LapTimes = append(times, now-s.LapStart)
		s.LapStart = now
		s.Lap++
		s.LastCheckpoint = 0
		return s, LapCompleted
	}

	s.LastCheckpoint = next
	return s, CheckpointPassed
}
