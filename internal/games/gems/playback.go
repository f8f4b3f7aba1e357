package gems

import (
	"github.com/vovakirdan/tui-gems/internal/config"
	"github.com/vovakirdan/tui-gems/internal/match3"
)

// markKind selects how marked cells are drawn in a frame.
type markKind int

const (
	markNone  markKind = iota
	markSwap           // Swapped or reverted pair
	markMatch          // Cells about to be cleared
)

// frame is one held view of the board during playback.
type frame struct {
	board      *match3.Grid
	mark       markKind
	marked     []match3.Coord
	flash      []match3.Coord // Freshly spawned cells
	flashTicks int
	ticks      int
	status     string
	score      int
	moves      int
}

// playback replays the phases of one swap over ticks.
// The engine has already resolved the swap; this is presentation only.
type playback struct {
	frames []frame
	idx    int
	age    int
	final  string // Status once the last frame ends
}

// newPlayback turns the observer's phase events into timed frames.
// Phases without a configured duration are skipped.
func newPlayback(events []match3.PhaseEvent, t match3.Transition, timing config.TimingConfig) playback {
	var p playback
	score := t.Score - t.Points
	moves := t.Moves
	if t.Outcome == match3.OutcomeSwapAccepted {
		moves-- // Counted once the first match shows
	}

	add := func(f frame) {
		if f.ticks > 0 {
			p.frames = append(p.frames, f)
		}
	}

	for _, ev := range events {
		switch ev.Phase {
		case match3.PhaseSwap:
			add(frame{board: ev.Board, mark: markSwap, marked: ev.Cells, ticks: timing.SwapTicks, score: score, moves: moves})
		case match3.PhaseRevert:
			add(frame{board: ev.Board, mark: markSwap, marked: ev.Cells, ticks: timing.RevertTicks, score: score, moves: moves})
		case match3.PhaseMatch:
			if ev.Step < len(t.Steps) {
				score += t.Steps[ev.Step].Points
			}
			moves = t.Moves
			add(frame{
				board:  ev.Board,
				mark:   markMatch,
				marked: ev.Cells,
				ticks:  timing.MatchTicks,
				status: stepStatus(ev.Step),
				score:  score,
				moves:  moves,
			})
		case match3.PhaseCollapse:
			add(frame{
				board:      ev.Board,
				flash:      ev.Cells,
				flashTicks: timing.SpawnTicks,
				ticks:      timing.CollapseTicks,
				score:      score,
				moves:      moves,
			})
		}
	}

	if t.Outcome == match3.OutcomeSwapAccepted {
		p.final = msgSettle
	}
	return p
}

func (p *playback) active() bool {
	return p.idx < len(p.frames)
}

func (p *playback) current() *frame {
	if !p.active() {
		return nil
	}
	return &p.frames[p.idx]
}

// status returns the status of the frame being shown.
func (p *playback) status() string {
	if f := p.current(); f != nil {
		return f.status
	}
	return ""
}

// advance moves playback forward one tick and returns the status to show
// when the frame changed, or "".
func (p *playback) advance() string {
	f := p.current()
	if f == nil {
		return ""
	}

	p.age++
	if p.age < f.ticks {
		return ""
	}

	p.idx++
	p.age = 0
	if !p.active() {
		return p.final
	}
	return p.status()
}

// flashing reports whether spawned cells are drawn highlighted this tick.
func (p *playback) flashing() bool {
	f := p.current()
	if f == nil || len(f.flash) == 0 || p.age >= f.flashTicks {
		return false
	}
	return (p.age/flashPeriod)%2 == 0
}

// flashPeriod is the blink half-period of spawned cells, in ticks.
const flashPeriod = 4
