// demoloop runs small real-time game demos in the terminal: a Flappy Bird
// style side-scroller, a top-down shooter and an endless noise terrain.
//
// Usage:
//
//	demoloop list              - List available demos
//	demoloop play <demo>       - Play a demo
//	demoloop menu              - Start menu to pick demos interactively
//	demoloop serve             - Start SSH server for remote play
//	demoloop scores <demo>     - Show the best runs for a demo
//	demoloop simulate <demo>   - Run a demo headless and print its digest
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible runs
//	--db <path>          - Set database path (default: ~/.demoloop/runs.db)
//	--config <path>      - Demo config file (YAML or TOML)
//	--difficulty <name>  - Difficulty preset: easy, normal, hard, fixed
//	--log-level <level>  - debug, info, warn, error
//	--log-file <path>    - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import demos to register them
	_ "github.com/vovakirdan/demoloop/internal/games/flappy"
	_ "github.com/vovakirdan/demoloop/internal/games/terrain"
	_ "github.com/vovakirdan/demoloop/internal/games/topdown"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "demoloop",
	Short: "demoloop - real-time game demos in your terminal",
	Long: `demoloop runs small real-time game demos in the terminal. Every demo
shares one fixed frame pipeline: input, physics, collision, restart.

Available commands:
  list      - Show all available demos
  play      - Play a specific demo directly
  menu      - Interactive demo picker menu
  serve     - Start SSH server for remote play
  scores    - View the best runs
  simulate  - Run a demo headless and print its state digest
  config    - Print a demo's default config

Examples:
  demoloop list
  demoloop play flappy
  demoloop play topdown --seed 42
  demoloop serve --ssh :2222
  demoloop simulate flappy --frames 600 --seed 1`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.demoloop/runs.db", "Path to runs database")
	pf.StringVar(&flagConfig, "config", "", "Path to a demo config file (YAML or TOML)")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(configCmd)
}
