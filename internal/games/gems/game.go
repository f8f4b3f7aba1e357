// Package gems adapts the match3 engine to the registry.Game interface:
// a keyboard/mouse cursor over the board, tick-based playback of each
// swap's cascade, a HUD and the move-budget rules of the two modes.
package gems

import (
	"math/rand"

	"github.com/atotto/clipboard"

	"github.com/vovakirdan/tui-gems/internal/config"
	"github.com/vovakirdan/tui-gems/internal/core"
	"github.com/vovakirdan/tui-gems/internal/match3"
	"github.com/vovakirdan/tui-gems/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic Mode = "classic" // Fixed move budget
	ModeEndless Mode = "endless" // Unlimited moves, unranked
)

// Game implements the gem-swapping puzzle.
type Game struct {
	mode Mode
	cfg  config.GemsConfig
	rng  *rand.Rand
	tick uint64

	engine *match3.Engine
	cursor match3.Coord

	// Phase events collected by the engine observer during one swap
	events   []match3.PhaseEvent
	playback playback

	status        string
	statusChanged bool

	// Screen dimensions
	screenW int
	screenH int

	gameOver bool
	paused   bool
	tooSmall bool
	failed   bool // Engine could not deal or refill a board

	// clip receives the board text on Copy; nil disables copying
	clip func(string) error
}

var configPath string

// SetConfigPath sets a custom config file used by the next Reset.
// An empty path restores the default search order.
func SetConfigPath(path string) {
	configPath = path
}

// New creates a classic mode game.
func New() *Game {
	return &Game{
		mode: ModeClassic,
		cfg:  config.DefaultGemsConfig(),
		clip: clipboard.WriteAll,
	}
}

// NewEndless creates an endless mode game.
func NewEndless() *Game {
	return &Game{
		mode: ModeEndless,
		cfg:  config.DefaultGemsConfig(),
		clip: clipboard.WriteAll,
	}
}

func init() {
	registry.Register("gems", func() registry.Game {
		return New()
	})
	registry.Register("gems_endless", func() registry.Game {
		return NewEndless()
	})
}

// SetClipboard replaces the copy target, the local system clipboard by
// default. Remote sessions pass a writer for the player's terminal.
func (g *Game) SetClipboard(fn func(string) error) {
	g.clip = fn
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "gems_endless"
	}
	return "gems"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Gems (Endless)"
	}
	return "Gems"
}

// Ranked reports whether finished games of this mode go to the scoreboard.
func (g *Game) Ranked() bool {
	return g.mode == ModeClassic
}

// Reset loads the config and deals a new board.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.gameOver = false
	g.paused = false
	g.failed = false
	g.events = nil
	g.playback = playback{}

	g.setStatus(msgWelcome)

	gemsCfg, err := config.LoadGems(configPath)
	if err != nil {
		gemsCfg = config.DefaultGemsConfig()
		g.setStatus("Config error, using defaults: " + err.Error())
	}
	g.cfg = gemsCfg

	g.engine, err = match3.New(g.cfg.EngineConfig(), g.rng, match3.WithObserver(g.observe))
	if err != nil {
		g.fail(err)
		return
	}

	size := g.cfg.Board.Size
	g.cursor = match3.At(size/2, size/2)

	g.checkScreenSize()
}

// observe records engine phases for playback.
func (g *Game) observe(ev match3.PhaseEvent) {
	g.events = append(g.events, ev)
}

func (g *Game) fail(err error) {
	g.failed = true
	g.gameOver = true
	g.setStatus("Board error: " + err.Error())
}

func (g *Game) setStatus(s string) {
	if s == "" {
		return
	}
	g.status = s
	g.statusChanged = true
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	boardW, boardH := boardExtent(g.cfg.Board.Size)
	minW := max(boardW, hudMinWidth)
	minH := hudHeight + boardH + footerHeight
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.statusChanged = false

	if g.tooSmall || g.engine == nil {
		return g.result()
	}

	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.paused {
		return g.result()
	}

	// Playback holds input the way the engine lock does
	if g.playback.active() {
		g.setStatus(g.playback.advance())
		if !g.playback.active() {
			g.checkGameOver()
		}
		return g.result()
	}

	if g.gameOver {
		// Restart after game over is handled by the platform
		return g.result()
	}

	switch {
	case in.Has(core.ActionRestart):
		g.restart()
		return g.result()
	case in.Has(core.ActionCopy):
		g.copyToClipboard()
	}

	g.moveCursor(in)

	if in.Has(core.ActionSelect) {
		g.selectCell(g.cursor)
	}

	for _, p := range in.Clicks {
		if g.playback.active() || g.gameOver {
			break
		}
		c, ok := g.cellAt(p.X, p.Y)
		if !ok {
			continue
		}
		g.cursor = c
		g.selectCell(c)
	}

	return g.result()
}

func (g *Game) result() core.StepResult {
	res := core.StepResult{State: g.State()}
	if g.statusChanged {
		res.Status = g.status
	}
	return res
}

// restart redeals the board mid-game, keeping the RNG stream.
func (g *Game) restart() {
	if err := g.engine.Reset(); err != nil {
		g.fail(err)
		return
	}
	g.setStatus(msgWelcome)
}

func (g *Game) copyToClipboard() {
	if g.clip == nil {
		g.setStatus(msgCopyFailed)
		return
	}
	if err := g.clip(g.engine.Board().String()); err != nil {
		g.setStatus(msgCopyFailed)
		return
	}
	g.setStatus(msgCopied)
}

func (g *Game) moveCursor(in core.InputFrame) {
	last := g.cfg.Board.Size - 1
	switch {
	case in.Has(core.ActionUp):
		g.cursor.Row = core.Clamp(g.cursor.Row-1, 0, last)
	case in.Has(core.ActionDown):
		g.cursor.Row = core.Clamp(g.cursor.Row+1, 0, last)
	case in.Has(core.ActionLeft):
		g.cursor.Col = core.Clamp(g.cursor.Col-1, 0, last)
	case in.Has(core.ActionRight):
		g.cursor.Col = core.Clamp(g.cursor.Col+1, 0, last)
	}
}

// selectCell feeds one pick into the engine and queues the resulting
// animation.
func (g *Game) selectCell(c match3.Coord) {
	g.events = g.events[:0]
	t, err := g.engine.Select(c)
	if err != nil {
		g.fail(err)
		return
	}

	g.setStatus(StatusFor(t))

	if t.Outcome == match3.OutcomeSwapAccepted || t.Outcome == match3.OutcomeSwapRejected {
		g.playback = newPlayback(g.events, t, g.cfg.Timing)
		if g.playback.active() {
			g.setStatus(g.playback.status())
		}
	}

	if !g.playback.active() {
		g.checkGameOver()
	}
}

// checkGameOver ends a classic game once the move budget is spent and the
// board has settled.
func (g *Game) checkGameOver() {
	if g.mode != ModeClassic || g.engine == nil {
		return
	}
	if limit := g.cfg.Session.MoveLimit; limit > 0 && g.engine.Moves() >= limit {
		g.gameOver = true
		g.setStatus(msgOutOfMoves)
	}
}

// Moves returns the number of accepted swaps.
func (g *Game) Moves() int {
	if g.engine == nil {
		return 0
	}
	return g.engine.Moves()
}

// MovesLeft returns the remaining budget, or -1 when moves are unlimited.
func (g *Game) MovesLeft() int {
	return g.movesLeftAt(g.Moves())
}

func (g *Game) movesLeftAt(moves int) int {
	limit := g.cfg.Session.MoveLimit
	if g.mode == ModeEndless || limit == 0 {
		return -1
	}
	return max(limit-moves, 0)
}

// Status returns the current status line.
func (g *Game) Status() string {
	return g.status
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	score := 0
	if g.engine != nil {
		score = g.engine.Score()
	}
	return core.GameState{
		Score:    score,
		GameOver: g.gameOver,
		Paused:   g.paused || g.tooSmall,
		Busy:     g.playback.active(),
	}
}

// Resize adapts the layout to a new screen size without redealing.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.checkScreenSize()
}
