package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/demoloop/internal/registry"
	"github.com/vovakirdan/demoloop/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresAll   bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores <demo>",
	Short: "Show the best runs for a demo",
	Long: `Display the best runs for the specified demo, with the seed each
run was played on and its state digest. Runs marked as replayable carry
their recorded input and can be checked with
'demoloop simulate --verify <run>'.

Examples:
  demoloop scores flappy
  demoloop scores flappy --limit 25
  demoloop scores flappy --all
  demoloop scores flappy --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "Show every stored run")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every stored run of the demo")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown demo %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'demoloop list' to see available demos.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating demo: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared all runs of %s.\n", game.Title())
		return
	}

	var runs []storage.RunEntry
	if flagScoresAll {
		runs, err = store.AllScores(gameID)
	} else {
		runs, err = store.TopScores(gameID, flagScoresLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	fmt.Printf("Best Runs - %s\n", game.Title())
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'demoloop play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-8s  %-20s  %-16s  %-6s  %s\n", "Rank", "Run", "Score", "Time", "Seed", "Digest", "Replay", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-8s  %-20s  %-16s  %-6s  %s\n", "----", "---", "-----", "----", "----", "------", "------", "----")
	for i, r := range runs {
		replay := "-"
		if r.Replayable {
			replay = "yes"
		}
		fmt.Printf("  %-4d  %-8s  %-6d  %-8s  %-20d  %016x  %-6s  %s\n",
			i+1, r.ShortID(), r.Score, r.Duration.Round(100*time.Millisecond), r.Seed, r.Digest,
			replay, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GetGameStats(gameID); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Runs: %d  Average: %.1f  Played: %s\n",
			stats.HighScore, stats.GamesCount, stats.AvgScore, stats.TotalTime.Round(time.Second))
	}
}
