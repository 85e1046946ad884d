// Command cli reads a RaceInput JSON from a file argument (or stdin), runs the
// race headless, and writes the RaceLog JSON to stdout. Logs go to stderr at
// the level set by logLevel in racer.cfg.json, when one is present in the
// working directory.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cxd309/race-engine/internal/config"
	"github.com/cxd309/race-engine/internal/engine"
	"github.com/cxd309/race-engine/internal/logging"
)

func main() {
	var (
		data []byte
		err  error
	)

	if len(os.Args) > 1 {
		data, err = os.ReadFile(os.Args[1])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading input: %v\n", err)
		os.Exit(1)
	}

	// a missing config file leaves the defaults in place
	_ = config.Load(".")
	lm := logging.NewSlogManager()
	lm.SetupStderr(nil, config.GetString("logLevel"))

	result, err := engine.RunJSON(context.Background(), string(data), engine.WithLogger(lm.Logger()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "race error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result)
}
