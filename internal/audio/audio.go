// Package audio plays short tones for race events through the system speaker.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/cxd309/race-engine/internal/engine"
)

const sampleRate = beep.SampleRate(44100)

// Cue frequencies in Hz.
const (
	CheckpointFreq = 660.0
	LapFreq        = 880.0
	CrashFreq      = 110.0
)

// Player turns race events into sounds. The zero value is silent.
type Player struct {
	mu    sync.Mutex
	ready bool
	play  func(beep.Streamer)
}

// NewPlayer returns a Player that is silent until Init succeeds.
func NewPlayer() *Player {
	return &Player{}
}

// Init opens the speaker. A failure leaves the Player silent; callers may
// treat it as non-fatal.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}
	p.play = func(s beep.Streamer) { speaker.Play(s) }
	p.ready = true
	return nil
}

// Close silences the Player and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ready {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.ready = false
	p.play = nil
}

// Events plays the cue for each event of a frame.
func (p *Player) Events(events []engine.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ready {
		return
	}
	for _, ev := range events {
		if s := Cue(ev.Kind); s != nil {
			p.play(s)
		}
	}
}

// Cue returns the sound for an event kind, or nil when it has none.
func Cue(kind engine.EventKind) beep.Streamer {
	switch kind {
	case engine.EventCheckpoint:
		return tone(CheckpointFreq, 40*time.Millisecond)
	case engine.EventLap:
		return beep.Seq(
			tone(LapFreq, 80*time.Millisecond),
			tone(LapFreq*1.5, 120*time.Millisecond),
		)
	case engine.EventOutOfBounds:
		return tone(CrashFreq, 400*time.Millisecond)
	}
	return nil
}

func tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		// only reachable for frequencies above the Nyquist limit
		return beep.Silence(sampleRate.N(d))
	}
	return beep.Take(sampleRate.N(d), sine)
}
