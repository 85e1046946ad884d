// Package config loads racer settings from racer.cfg.json with viper.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/cxd309/race-engine/internal/engine"
	"github.com/cxd309/race-engine/internal/kinematics"
	"github.com/cxd309/race-engine/internal/track"
	"github.com/cxd309/race-engine/internal/vehicle"
)

// FileName is the config file looked up in the config directory.
const FileName = "racer.cfg.json"

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./racerlogs")
	viper.SetDefault("raceFile", "")
	viper.SetDefault("tickRate", engine.DefaultTickRate)

	viper.SetDefault("world.width", track.DefaultBounds.Width)
	viper.SetDefault("world.height", track.DefaultBounds.Height)

	viper.SetDefault("track.checkpointSize", 40)
	viper.SetDefault("track.width", track.DefaultWidth)
	viper.SetDefault("track.startGate.width", 100)
	viper.SetDefault("track.startGate.height", 10)

	viper.SetDefault("player.acceleration", engine.DefaultAcceleration)

	viper.SetDefault("audio.enabled", true)
	viper.SetDefault("telemetry.enabled", false)
}

// Load sets default values and reads the config file from configDir.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetFloat returns a float config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// RaceInput returns the race to play. When raceFile is set the race is read
// from that JSON file as is; otherwise the stock race is adjusted by the
// world, track, player and tickRate keys.
func RaceInput() (engine.RaceInput, error) {
	if path := GetString("raceFile"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return engine.RaceInput{}, fmt.Errorf("reading race file: %w", err)
		}
		var input engine.RaceInput
		if err := json.Unmarshal(data, &input); err != nil {
			return engine.RaceInput{}, fmt.Errorf("parsing race file %s: %w", path, err)
		}
		return input, nil
	}

	input := engine.DefaultInput()
	input.Meta.TickRate = GetFloat("tickRate")

	w, h := GetFloat("world.width"), GetFloat("world.height")
	if w <= 0 || h <= 0 {
		return engine.RaceInput{}, fmt.Errorf("world size must be positive, got %gx%g", w, h)
	}
	input.Bounds = &track.Bounds{Width: w, Height: h}
	if *input.Bounds != track.DefaultBounds {
		input.TrackData.Waypoints = engine.RectLoop(*input.Bounds, 100)
		// keep the car just inside the start gate
		input.Player.Start = input.TrackData.Waypoints[0].Add(50, 50)
	}

	input.TrackData.CheckpointSize = GetFloat("track.checkpointSize")
	input.TrackData.Width = GetFloat("track.width")
	input.TrackData.StartGate = &track.GateData{
		Width:  GetFloat("track.startGate.width"),
		Height: GetFloat("track.startGate.height"),
	}

	accel := GetFloat("player.acceleration")
	if accel < 0 {
		return engine.RaceInput{}, fmt.Errorf("player acceleration must not be negative, got %g", accel)
	}
	input.Player.Kinematics = vehicle.Kinematics{Model: kinematics.ConstantAcceleration{Accel: accel}}
	return input, nil
}
