package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/demoloop/internal/registry"
	"github.com/vovakirdan/demoloop/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available demos",
	Long: `Shows a list of all demos registered in demoloop, with the number of
stored runs and the best score of each.`,
	Run: runList,
}

// loadStats reads per-demo run statistics. A missing or broken database
// only hides the columns.
func loadStats() map[string]*storage.GameStats {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil
	}
	defer store.Close()
	stats, err := store.GetAllGamesStats()
	if err != nil {
		return nil
	}
	return stats
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No demos available.")
		return
	}

	fmt.Println("Available demos:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		if len(g.ID) > maxIDLen {
			maxIDLen = len(g.ID)
		}
	}

	stats := loadStats()
	fmt.Printf("  %-*s  %-20s  %5s  %5s\n", maxIDLen, "ID", "Title", "Runs", "Best")
	fmt.Printf("  %-*s  %-20s  %5s  %5s\n", maxIDLen, "--", "-----", "----", "----")
	for _, g := range games {
		runs, best := "-", "-"
		if st, ok := stats[g.ID]; ok {
			runs, best = fmt.Sprint(st.GamesCount), fmt.Sprint(st.HighScore)
		}
		fmt.Printf("  %-*s  %-20s  %5s  %5s\n", maxIDLen, g.ID, g.Title, runs, best)
	}

	fmt.Println()
	fmt.Println("Run 'demoloop play <id>' to play a demo.")
}
