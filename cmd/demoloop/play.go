package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/demoloop/internal/core"
	"github.com/vovakirdan/demoloop/internal/platform/tui"
	"github.com/vovakirdan/demoloop/internal/registry"
	"github.com/vovakirdan/demoloop/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <demo>",
	Short: "Play a demo",
	Long: `Start playing the specified demo.

Controls:
  Space         - Flap (flappy) / Shoot (topdown)
  WASD/Arrows   - Move (topdown, terrain)
  Mouse         - Aim (topdown)
  P/Esc         - Pause
  R             - New session with a fresh seed
  Ctrl+S        - Screenshot to ~/.demoloop/screenshots
  Q/Ctrl+C      - Quit

Difficulty options (flappy):
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  demoloop play flappy
  demoloop play flappy --difficulty hard
  demoloop play topdown --config ./my-topdown.toml
  demoloop play terrain --seed 7`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

// runtimeConfig builds the demo config from the global flags and the
// current terminal size.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	cfg.ConfigPath = flagConfig
	cfg.Difficulty = flagDifficulty
	return cfg
}

// openStore opens the runs database, or returns nil with a warning so the
// demo still works without it.
func openStore(cfg core.RuntimeConfig) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		cfg.Logger.Warn("could not open runs database", "path", flagDBPath, "err", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		return nil
	}
	return store
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown demo %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'demoloop list' to see available demos.")
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg := runtimeConfig()
	cfg.Logger = logger

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating demo: %v\n", err)
		os.Exit(1)
	}

	store := openStore(cfg)
	_, runErr := tui.Run(game, store, cfg)
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		closeLog()
		fmt.Fprintf(os.Stderr, "Error running demo: %v\n", runErr)
		os.Exit(1)
	}
}
