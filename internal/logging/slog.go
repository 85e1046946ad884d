// Package logging sets up the structured logger shared by the racer commands.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// SlogManager owns the process logger.
type SlogManager struct {
	logger *slog.Logger
}

// NewSlogManager creates a manager with no handlers configured.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup replaces the logger. Records go to file when it is non-nil and to
// console otherwise. Extra handlers, such as the terminal HUD status handler,
// see every record and apply their own levels.
func (m *SlogManager) Setup(file, console io.Writer, level string, extra ...slog.Handler) {
	lvl := parseLevel(level)

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	switch {
	case file != nil:
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	case console != nil:
		handlers = append(handlers, slog.NewTextHandler(console, handlerOpts))
	}
	handlers = append(handlers, extra...)

	m.logger = slog.New(NewMultiHandler(handlers...))
	m.logger.Info("Logging initialized", "level", lvl.String())
}

// SetupStderr is Setup with console output on stderr, leaving stdout free
// for command output.
func (m *SlogManager) SetupStderr(file io.Writer, level string) {
	m.Setup(file, os.Stderr, level)
}

// Logger returns the configured logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}
