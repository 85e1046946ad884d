// Package terminal is the interactive front end: a tcell screen that shows
// the title, the race and the game-over summary, and turns key presses into
// player actions.
package terminal

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/cxd309/race-engine/internal/engine"
	"github.com/cxd309/race-engine/internal/kinematics"
)

// State is the screen currently shown.
type State int

const (
	StateTitle State = iota
	StatePlaying
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateTitle:
		return "title"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game_over"
	}
	return "unknown"
}

// holdFrames is how long a key press keeps its action active. Terminals
// report presses and auto-repeats but never releases, so a held key is a
// stream of presses each extending the hold.
const holdFrames = 8

// EventHook receives the events of every played frame.
type EventHook func(ctx context.Context, events []engine.Event)

// Game drives one race session from keyboard input.
type Game struct {
	screen  tcell.Screen
	session *engine.Session
	state   State
	logger  *slog.Logger
	hooks   []EventHook
	status  *StatusHandler

	// held maps an action to the last frame it applies to.
	held map[kinematics.Action]int
}

// Option configures a Game.
type Option func(*Game)

// WithLogger routes front-end logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithEventHook registers h to receive race events.
func WithEventHook(h EventHook) Option {
	return func(g *Game) {
		if h != nil {
			g.hooks = append(g.hooks, h)
		}
	}
}

// WithStatus shows the last message accepted by h on the HUD.
func WithStatus(h *StatusHandler) Option {
	return func(g *Game) { g.status = h }
}

// New creates a Game showing the title screen. The screen must already be
// initialised.
func New(screen tcell.Screen, session *engine.Session, opts ...Option) *Game {
	g := &Game{
		screen:  screen,
		session: session,
		state:   StateTitle,
		logger:  slog.New(slog.DiscardHandler),
		held:    map[kinematics.Action]int{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State returns the screen currently shown.
func (g *Game) State() State { return g.state }

// Session returns the race being played.
func (g *Game) Session() *engine.Session { return g.session }

// keyAction maps a key press to a player action.
func keyAction(ev *tcell.EventKey) (kinematics.Action, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return kinematics.ActionAccelerate, true
	case tcell.KeyDown:
		return kinematics.ActionBrake, true
	case tcell.KeyLeft:
		return kinematics.ActionSteerLeft, true
	case tcell.KeyRight:
		return kinematics.ActionSteerRight, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return kinematics.ActionAccelerate, true
		case 's', 'S':
			return kinematics.ActionBrake, true
		case 'a', 'A':
			return kinematics.ActionSteerLeft, true
		case 'd', 'D':
			return kinematics.ActionSteerRight, true
		}
	}
	return "", false
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// HandleEvent reacts to one terminal event. It returns false when the
// player asked to quit.
func (g *Game) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			g.logger.Info("quit requested", "state", g.state.String())
			return false
		}
		switch g.state {
		case StateTitle:
			if ev.Key() == tcell.KeyEnter {
				g.start()
			}
		case StatePlaying:
			if a, ok := keyAction(ev); ok {
				g.held[a] = g.session.Frame() + holdFrames
			}
		case StateGameOver:
			if ev.Key() == tcell.KeyRune && (ev.Rune() == 'r' || ev.Rune() == 'R') {
				g.session = g.session.Reset()
				g.start()
			}
		}
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return true
}

func (g *Game) start() {
	clear(g.held)
	g.state = StatePlaying
	g.logger.Info("race started", "frame", g.session.Frame())
}

// Actions returns the actions held for the next frame, in a fixed order.
func (g *Game) Actions() []kinematics.Action {
	next := g.session.Frame()
	var out []kinematics.Action
	for _, a := range []kinematics.Action{
		kinematics.ActionAccelerate,
		kinematics.ActionBrake,
		kinematics.ActionSteerLeft,
		kinematics.ActionSteerRight,
	} {
		if last, ok := g.held[a]; ok && next < last {
			out = append(out, a)
		}
	}
	return out
}

// Step advances the race by one frame when it is being played.
func (g *Game) Step(ctx context.Context) {
	if g.state != StatePlaying {
		return
	}
	events := g.session.Tick(g.Actions()...)
	for _, h := range g.hooks {
		h(ctx, events)
	}
	if g.session.Status() != engine.StatusRacing {
		g.state = StateGameOver
		g.logger.Info("game over", "frame", g.session.Frame(),
			"laps_completed", g.session.Progress().Completed())
	}
}

// Run polls the terminal on its own goroutine and steps and redraws the race
// at the session tick rate until the player quits or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	ticker := time.NewTicker(g.session.Interval())
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go g.screen.ChannelEvents(events, quit)

	g.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !g.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			g.Step(ctx)
			g.Draw()
		}
	}
}
