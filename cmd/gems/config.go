package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gems/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration",
	Long: `Print the built-in gems.yaml.

Save it to ~/.gems/configs/gems.yaml or pass it with --config to
change the board size, palette, scoring, timings or move limit.
Keys left out of a file keep their default values.

Examples:
  gems config > ~/.gems/configs/gems.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func runConfig(_ *cobra.Command, _ []string) {
	data := config.GetDefaultYAML("gems")
	if data == nil {
		fmt.Fprintln(os.Stderr, "Error: no embedded default config")
		os.Exit(1)
	}
	fmt.Print(string(data))
}
