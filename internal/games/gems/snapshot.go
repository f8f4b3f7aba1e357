package gems

import "github.com/vovakirdan/tui-gems/internal/match3"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateAnimating   GameStateType = "animating"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StateFailed      GameStateType = "failed"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the game state for determinism testing and replay.
type Snapshot struct {
	Tick         uint64
	Mode         string // "classic" or "endless"
	Score        int
	Moves        int
	MovesLeft    int    // -1 when unlimited
	Board        string // Settled board, one letter per gem
	Cursor       match3.Coord
	Selection    match3.Coord
	HasSelection bool
	Status       string
	State        GameStateType
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.failed:
		state = StateFailed
	case g.gameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	case g.playback.active():
		state = StateAnimating
	}

	s := Snapshot{
		Tick:      g.tick,
		Mode:      string(g.mode),
		Score:     g.State().Score,
		Moves:     g.Moves(),
		MovesLeft: g.MovesLeft(),
		Cursor:    g.cursor,
		Status:    g.status,
		State:     state,
	}
	if g.engine != nil {
		s.Board = g.engine.Board().String()
		s.Selection, s.HasSelection = g.engine.Selection()
	}
	return s
}
