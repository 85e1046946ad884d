// Command racer is the interactive terminal game. Settings come from
// racer.cfg.json in the directory given by -config; logs are written to a
// file under logsDir because the terminal belongs to the game.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/cxd309/race-engine/internal/audio"
	"github.com/cxd309/race-engine/internal/config"
	"github.com/cxd309/race-engine/internal/engine"
	"github.com/cxd309/race-engine/internal/logging"
	"github.com/cxd309/race-engine/internal/telemetry"
	"github.com/cxd309/race-engine/internal/terminal"
)

func main() {
	configDir := flag.String("config", ".", "directory containing "+config.FileName)
	flag.Parse()

	if err := run(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "racer: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir string) error {
	start := time.Now()
	cfgErr := config.Load(configDir)

	logFile, err := logging.OpenLogFile(config.GetString("logsDir"), "racer", start)
	if err != nil {
		return err
	}
	defer logFile.Close()

	status := terminal.NewStatusHandler(slog.LevelInfo)
	lm := logging.NewSlogManager()
	lm.Setup(logFile, nil, config.GetString("logLevel"), status)
	logger := lm.Logger()
	if cfgErr != nil {
		logger.Warn("using default settings", "error", cfgErr)
	}

	input, err := config.RaceInput()
	if err != nil {
		return err
	}
	session, err := engine.NewSession(input, engine.WithLogger(logger))
	if err != nil {
		return err
	}

	opts := []terminal.Option{terminal.WithLogger(logger), terminal.WithStatus(status)}

	if config.GetBool("telemetry.enabled") {
		local := telemetry.InstallLocal()
		defer logTotals(logger, local)

		rec, err := telemetry.New(input.Meta.RaceID)
		if err != nil {
			return err
		}
		opts = append(opts, terminal.WithEventHook(rec.Record))
	}

	if config.GetBool("audio.enabled") {
		player := audio.NewPlayer()
		if err := player.Init(); err != nil {
			logger.Warn("audio disabled", "error", err)
		} else {
			defer player.Close()
			opts = append(opts, terminal.WithEventHook(func(_ context.Context, evs []engine.Event) {
				player.Events(evs)
			}))
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	game := terminal.New(screen, session, opts...)
	if err := game.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("racer exited", "uptime", time.Since(start).Round(time.Second))
	return nil
}

func logTotals(logger *slog.Logger, local *telemetry.Local) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	totals, err := local.Totals(ctx)
	if err != nil {
		logger.Error("reading metrics", "error", err)
	} else {
		attrs := make([]any, 0, 2*len(totals))
		for name, v := range totals {
			attrs = append(attrs, name, v)
		}
		logger.Info("session metrics", attrs...)
	}
	if err := local.Shutdown(ctx); err != nil {
		logger.Error("shutting down metrics", "error", err)
	}
}
