//go:build js && wasm

// Command wasm exposes the race engine to the browser via WebAssembly.
// After loading, it registers a global JavaScript function:
//
//	runRace(jsonString) -> jsonString
//
// The input and output are JSON-encoded RaceInput and RaceLog respectively,
// the same contract used by the CLI.
package main

import (
	"context"
	"syscall/js"

	"github.com/cxd309/race-engine/internal/engine"
)

func main() {
	js.Global().Set("runRace", js.FuncOf(runRace))
	select {} // keep the WASM module alive until the page is closed
}

func runRace(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := engine.RunJSON(context.Background(), args[0].String())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}
