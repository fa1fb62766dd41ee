package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/demoloop/internal/platform/tui"
	"github.com/vovakirdan/demoloop/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start demoloop with a demo picker menu",
	Long: `Start demoloop in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a demo.
Press B inside a demo to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select demo
  Tab          - Scoreboard
  Q            - Quit

Examples:
  demoloop menu
  demoloop menu --fps 30
  demoloop menu --db ./runs.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg := runtimeConfig()
	cfg.Logger = logger
	store := openStore(cfg)

	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating demo: %v\n", err)
			continue
		}

		// Fresh seed per demo unless one was pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		back, err := tui.Run(game, store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running demo: %v\n", err)
			continue
		}
		if !back {
			break
		}
	}

	if store != nil {
		store.Close()
	}
}
