package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gems/internal/config"
	"github.com/vovakirdan/tui-gems/internal/games/gems"
	"github.com/vovakirdan/tui-gems/internal/match3"
)

var (
	flagSimSwaps   int
	flagSimVerbose bool
	flagSimCopy    bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Simulate random swaps without a terminal UI",
	Long: `Deal a board and try random adjacent swaps, logging every result.

The engine runs with the same config as the game, so a fixed --seed
reproduces the same boards and swaps. Useful for tuning gems.yaml.

Examples:
  gems sim --seed 42
  gems sim --swaps 200 --verbose
  gems sim --copy`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimSwaps, "swaps", 20, "Number of swaps to try")
	simCmd.Flags().BoolVarP(&flagSimVerbose, "verbose", "v", false, "Log every cascade phase")
	simCmd.Flags().BoolVar(&flagSimCopy, "copy", false, "Copy the final board to the clipboard")
}

func runSim(_ *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gems-sim",
	})
	if flagSimVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.LoadGems(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	engine, err := match3.New(cfg.EngineConfig(), rng, match3.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("board dealt", "seed", seed, "size", cfg.Board.Size, "palette", cfg.Board.Palette)
	fmt.Println(engine.Board().String())

	accepted, rejected := 0, 0
	for i := 0; i < flagSimSwaps; i++ {
		a, b := randomPair(rng, cfg.Board.Size)
		t, err := engine.TrySwap(a, b)
		if err != nil {
			logger.Error("swap failed", "from", a, "to", b, "error", err)
			os.Exit(1)
		}

		switch t.Outcome {
		case match3.OutcomeSwapAccepted:
			accepted++
			logger.Info(gems.StatusFor(t),
				"from", a, "to", b,
				"cleared", t.Cleared(),
				"cascades", t.Cascades(),
				"points", t.Points,
				"score", t.Score,
			)
		default:
			rejected++
			logger.Debug(gems.StatusFor(t), "from", a, "to", b, "outcome", t.Outcome)
		}
	}

	fmt.Println(engine.Board().String())
	logger.Info("simulation finished",
		"accepted", accepted,
		"rejected", rejected,
		"score", engine.Score(),
		"moves", engine.Moves(),
	)
	logger.Info("gems on board", gemCounts(engine.Board().Tokens())...)

	if flagSimCopy {
		if err := clipboard.WriteAll(engine.Board().String()); err != nil {
			logger.Warn("could not copy board", "error", err)
		}
	}
}

// randomPair picks a cell and one of its in-bounds orthogonal neighbours.
func randomPair(rng *rand.Rand, size int) (match3.Coord, match3.Coord) {
	a := match3.At(rng.Intn(size), rng.Intn(size))
	dirs := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for {
		d := dirs[rng.Intn(len(dirs))]
		b := match3.At(a.Row+d[0], a.Col+d[1])
		if b.Row >= 0 && b.Row < size && b.Col >= 0 && b.Col < size {
			return a, b
		}
	}
}

// gemCounts tallies a settled board as name/count pairs in palette order.
func gemCounts(rows [][]match3.Token) []any {
	var counts [match3.MaxPalette]int
	for _, row := range rows {
		for _, tok := range row {
			if int(tok) < len(counts) {
				counts[tok]++
			}
		}
	}

	var kv []any
	for tok, n := range counts {
		if n > 0 {
			kv = append(kv, match3.Token(tok).String(), n)
		}
	}
	return kv
}
