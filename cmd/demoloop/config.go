package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/demoloop/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config <demo>",
	Short: "Print a demo's default config",
	Long: `Prints the built-in YAML config of a demo. Save it under
~/.demoloop/configs/<demo>.yaml or pass it with --config to tune the demo.

Examples:
  demoloop config flappy > ~/.demoloop/configs/flappy.yaml
  demoloop config topdown > my-topdown.yaml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeDefaultConfig(os.Stdout, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func writeDefaultConfig(w io.Writer, gameID string) error {
	data := config.GetDefaultYAML(gameID)
	if data == nil {
		return fmt.Errorf("demo %q has no config", gameID)
	}
	_, err := w.Write(data)
	return err
}
