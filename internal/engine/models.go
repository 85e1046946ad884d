package engine

import (
	"log/slog"
	"time"

	"github.com/cxd309/race-engine/internal/geom"
	"github.com/cxd309/race-engine/internal/kinematics"
	"github.com/cxd309/race-engine/internal/progress"
	"github.com/cxd309/race-engine/internal/track"
	"github.com/cxd309/race-engine/internal/vehicle"
)

// DefaultTickRate is the number of simulation frames per second.
const DefaultTickRate = 60.0

// RaceMeta holds the identity and timing parameters for a race.
type RaceMeta struct {
	RaceID   string  `json:"race_id"`
	Frames   int     `json:"frames,omitempty"`    // frames simulated by Run
	TickRate float64 `json:"tick_rate,omitempty"` // frames per second
}

// PlayerSpec is the starting configuration of the player car.
type PlayerSpec struct {
	Start      geom.Point         `json:"start"`
	Heading    float64            `json:"heading"` // degrees
	Kinematics vehicle.Kinematics `json:"kinematics"`
}

// OpponentSpec is the starting configuration of one AI opponent.
// The opponent is placed on the AI path waypoint StartIndex (taken modulo the
// path length) and heads for TargetIndex, which must index a path waypoint.
type OpponentSpec struct {
	ID          vehicle.OpponentID `json:"opponent_id"`
	Speed       float64            `json:"speed,omitempty"` // units per frame
	StartIndex  int                `json:"start_index"`
	TargetIndex int                `json:"target_index"`
}

// ControlWindow holds actions applied on every frame f with FromFrame <= f < ToFrame.
type ControlWindow struct {
	FromFrame int                 `json:"from_frame"`
	ToFrame   int                 `json:"to_frame"`
	Actions   []kinematics.Action `json:"actions"`
}

// RaceInput is the JSON-serialisable input to the engine.
type RaceInput struct {
	Meta      RaceMeta        `json:"race_meta"`
	TrackData track.TrackData `json:"track_data"`
	Bounds    *track.Bounds   `json:"bounds,omitempty"`
	Player    PlayerSpec      `json:"player"`
	Opponents []OpponentSpec  `json:"opponents"`
	Controls  []ControlWindow `json:"controls,omitempty"`
}

// Status is the race state as seen by the race controller.
type Status string

const (
	StatusRacing  Status = "racing"
	StatusCrashed Status = "crashed" // player left the world bounds
)

// EventKind classifies a race event.
type EventKind string

const (
	EventCheckpoint  EventKind = "checkpoint"
	EventLap         EventKind = "lap"
	EventOutOfBounds EventKind = "out_of_bounds"
)

// Event is something notable that happened to the player during a frame.
type Event struct {
	Frame      int           `json:"frame"`
	Kind       EventKind     `json:"kind"`
	Checkpoint int           `json:"checkpoint"`
	Lap        int           `json:"lap"`                // current lap after the event
	LapTime    time.Duration `json:"lap_time,omitempty"` // set for EventLap
	Position   geom.Point    `json:"position"`
}

// ProgressLog is the player's lap record with times in seconds.
type ProgressLog struct {
	Lap            int       `json:"current_lap"`
	LastCheckpoint int       `json:"last_checkpoint_index"`
	LapTimes       []float64 `json:"lap_times"` // seconds
}

// FrameLog is the state of the race at a single frame.
type FrameLog struct {
	Frame     int                   `json:"frame"`
	Elapsed   float64               `json:"elapsed"` // seconds
	Status    Status                `json:"status"`
	Player    vehicle.CarLog        `json:"player"`
	Progress  ProgressLog           `json:"progress"`
	Opponents []vehicle.OpponentLog `json:"opponents"`
	Events    []Event               `json:"events,omitempty"`
}

// Summary is the outcome of a finished Run.
type Summary struct {
	Status        Status    `json:"status"`
	Frames        int       `json:"frames"`
	LapsCompleted int       `json:"laps_completed"`
	LapTimes      []float64 `json:"lap_times"`          // seconds
	BestLap       float64   `json:"best_lap,omitempty"` // seconds
	TrackLength   float64   `json:"track_length"`
}

// RaceLog is the complete output of a Run.
type RaceLog struct {
	Meta    RaceMeta   `json:"race_meta"`
	Output  []FrameLog `json:"output"`
	Summary Summary    `json:"summary"`
}

// Session is one race: the track, the player car, the AI opponents and the
// player's lap record. Sessions share nothing mutable with each other.
type Session struct {
	input    RaceInput
	track    *track.Track
	bounds   track.Bounds
	interval time.Duration
	logger   *slog.Logger

	player    *vehicle.Car
	opponents []*vehicle.Opponent
	progress  progress.State
	status    Status
	frame     int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger routes session logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

func seconds(d time.Duration) float64 { return d.Seconds() }

func secondsAll(ds []time.Duration) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = seconds(d)
	}
	return out
}
