package core

import "github.com/charmbracelet/log"

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW    int         // Screen width in characters
	ScreenH    int         // Screen height in characters
	TickRate   int         // Frames per second requested from the frame clock
	Seed       int64       // RNG seed for deterministic gameplay
	Logger     *log.Logger // nil disables logging
	ConfigPath string      // explicit config file, empty to search
	Difficulty string      // difficulty preset name, empty for the file's setting
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// FrameInput is everything the platform collects for one frame.
type FrameInput struct {
	Delta  float32    // seconds since the previous frame
	Keys   []KeyEvent // raw key events in arrival order
	Cursor *Vec2      // cursor in world space, nil when off-window
	Pause  bool       // toggle pause
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Score of the current run
	Best     int  // Best score since the game was created
	Restarts int  // Number of resets performed
	Paused   bool // Whether the game is paused
}

// RunSummary describes a run that ended in a reset.
type RunSummary struct {
	Score    int
	Duration float32 // simulated seconds
	Seed     int64
	Digest   uint64 // world digest at the moment of failure

	// Trace is every frame fed to the world since it was created, ending
	// with the frame that ended this run. Replaying it on a fresh world
	// with the same seed reproduces Digest. Empty when not recorded.
	Trace []FrameInput
}

// StepResult is returned by Game.Step() after each frame.
type StepResult struct {
	State GameState
	Ended *RunSummary // non-nil when the frame triggered a reset
}
