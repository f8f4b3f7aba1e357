// gems is a match-3 puzzle for the terminal.
//
// Usage:
//
//	gems play [mode]      - Play a mode directly (default: gems)
//	gems menu             - Pick a mode interactively
//	gems serve            - Start SSH server for remote play
//	gems scores [mode]    - Show high scores
//	gems list             - List available modes
//	gems config           - Print the default config
//	gems sim              - Run random swaps headless and log the results
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 60)
//	--seed <value>   - Set RNG seed for reproducible boards
//	--db <path>      - Set database path (default: ~/.gems/scores.db)
//	--config <path>  - Use a custom gems.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gems/internal/games/gems"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gems",
	Short: "Gems - swap and match gems in your terminal",
	Long: `Gems is a match-3 puzzle played in the terminal.

Swap two adjacent gems to line up three or more of the same kind.
Matched gems vanish, the ones above fall down and new gems drop in,
which may start a chain reaction.

Available commands:
  play     - Play a mode directly
  menu     - Interactive mode picker
  serve    - Start SSH server for remote play
  scores   - View high scores
  list     - Show all available modes
  config   - Print the default configuration
  sim      - Simulate random swaps without a terminal UI

Examples:
  gems play
  gems play gems_endless --seed 42
  gems menu
  gems serve --ssh :2222
  gems sim --swaps 50 --verbose`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		gems.SetConfigPath(flagConfig)
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.gems/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom gems config YAML")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(simCmd)
}
