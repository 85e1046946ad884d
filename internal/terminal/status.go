package terminal

import (
	"context"
	"log/slog"
	"sync"
)

// StatusHandler is a slog.Handler that keeps the last record it accepts so
// the HUD can show it. Attributes and groups are dropped.
type StatusHandler struct {
	level slog.Leveler

	mu  sync.Mutex
	msg string
}

// NewStatusHandler returns a handler accepting records at level or above.
func NewStatusHandler(level slog.Leveler) *StatusHandler {
	return &StatusHandler{level: level}
}

func (h *StatusHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *StatusHandler) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	if r.Level >= slog.LevelWarn {
		msg = r.Level.String() + " " + msg
	}
	h.mu.Lock()
	h.msg = msg
	h.mu.Unlock()
	return nil
}

func (h *StatusHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *StatusHandler) WithGroup(string) slog.Handler { return h }

// Message returns the last accepted message, or "" if there is none.
func (h *StatusHandler) Message() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.msg
}
