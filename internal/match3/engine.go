package match3

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// ErrInvalidConfig is returned for board/palette settings the engine cannot
// play with.
var ErrInvalidConfig = errors.New("match3: invalid config")

// ErrBoardFailed is returned for input after a refill could not complete.
// The board keeps the cleared cells empty; only Reset recovers.
var ErrBoardFailed = errors.New("match3: board failed, reset required")

// errResetWhileResolving guards Reset calls made from inside an observer.
var errResetWhileResolving = errors.New("match3: reset while resolving")

// Config holds the engine parameters.
type Config struct {
	Size            int // Board dimension N
	Palette         int // Number of gem types P
	PointsPerGem    int // Score per cleared cell
	MaxDrawAttempts int // Constrained draw cap, <= 0 for unlimited
}

// DefaultConfig returns the reference 8x8, 8-gem, 15-point setup.
func DefaultConfig() Config {
	return Config{
		Size:            8,
		Palette:         8,
		PointsPerGem:    15,
		MaxDrawAttempts: 1000,
	}
}

// Validate checks that the configuration can always generate match-free
// boards.
func (c Config) Validate() error {
	switch {
	case c.Size < MinRun:
		return fmt.Errorf("%w: board size %d, need at least %d", ErrInvalidConfig, c.Size, MinRun)
	case c.Palette < 3:
		return fmt.Errorf("%w: palette %d, need at least 3 gem types", ErrInvalidConfig, c.Palette)
	case c.Palette > MaxPalette:
		return fmt.Errorf("%w: palette %d, at most %d gem types", ErrInvalidConfig, c.Palette, MaxPalette)
	case c.PointsPerGem < 0:
		return fmt.Errorf("%w: negative points per gem %d", ErrInvalidConfig, c.PointsPerGem)
	}
	return nil
}

// State is the engine's input state.
type State int

const (
	StateIdle           State = iota // No selection
	StateAwaitingSecond              // One cell selected
	StateResolving                   // Swap/cascade in flight, input locked
	StateFailed                      // Refill failed, input rejected until Reset
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingSecond:
		return "awaiting_second"
	case StateResolving:
		return "resolving"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome classifies what a selection event did.
type Outcome int

const (
	OutcomeIgnored      Outcome = iota // Input dropped while resolving
	OutcomeSelected                    // First cell picked
	OutcomeDeselected                  // Same cell picked again
	OutcomeReselected                  // Non-adjacent cell replaced the selection
	OutcomeNotAdjacent                 // TrySwap with a non-adjacent pair
	OutcomeSwapRejected                // Adjacent swap without a match, reverted
	OutcomeSwapAccepted                // Adjacent swap matched and was resolved
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeSelected:
		return "selected"
	case OutcomeDeselected:
		return "deselected"
	case OutcomeReselected:
		return "reselected"
	case OutcomeNotAdjacent:
		return "not_adjacent"
	case OutcomeSwapRejected:
		return "swap_rejected"
	case OutcomeSwapAccepted:
		return "swap_accepted"
	default:
		return "unknown"
	}
}

// Event is a single cell selection from the interaction layer.
type Event struct {
	Cell Coord
}

// CascadeStep records one resolution pass: the cells cleared, the points
// they earned, the cells refilled and the board after the collapse.
type CascadeStep struct {
	Index   int // 0 is the swap's own match, later steps are cascades
	Matched []Coord
	Points  int
	Spawned []Coord
	Board   *Grid
}

// Transition is the result of applying one event.
type Transition struct {
	Outcome      Outcome
	From         State
	To           State
	Selection    Coord // Active selection after the event
	HasSelection bool
	Swap         [2]Coord // Set for swap outcomes
	Steps        []CascadeStep
	Points       int // Points earned by this event
	Score        int // Totals after the event
	Moves        int
}

// Cascades returns the number of automatic resolutions after the first.
func (t Transition) Cascades() int {
	if len(t.Steps) == 0 {
		return 0
	}
	return len(t.Steps) - 1
}

// Cleared returns the total number of cells cleared by this event.
func (t Transition) Cleared() int {
	n := 0
	for _, s := range t.Steps {
		n += len(s.Matched)
	}
	return n
}

// Phase names a point inside a swap resolution.
type Phase int

const (
	PhaseSwap     Phase = iota // Cells exchanged
	PhaseRevert                // Rejected swap undone
	PhaseMatch                 // Match set found and scored
	PhaseClear                 // Matched cells emptied
	PhaseCollapse              // Gravity applied and refilled
	PhaseSettle                // Board stable, lock released next
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseSwap:
		return "swap"
	case PhaseRevert:
		return "revert"
	case PhaseMatch:
		return "match"
	case PhaseClear:
		return "clear"
	case PhaseCollapse:
		return "collapse"
	case PhaseSettle:
		return "settle"
	default:
		return "unknown"
	}
}

// PhaseEvent is delivered to the observer while a swap resolves.
// Board is a copy taken at that phase and may contain empty cells
// during PhaseClear.
type PhaseEvent struct {
	Phase Phase
	Step  int
	Cells []Coord
	Board *Grid
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers a callback invoked synchronously at every phase of
// a swap. The processing lock is held during the callback.
func WithObserver(fn func(PhaseEvent)) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// WithBoard makes the first Reset use a copy of g instead of a generated
// board. g must match the configured size and be completely filled.
func WithBoard(g *Grid) Option {
	return func(e *Engine) {
		e.fixture = g
	}
}

// Engine owns the board, the selection, the score and move counters and
// the processing lock. It is not safe for concurrent use; all events are
// applied synchronously by a single caller.
type Engine struct {
	cfg      Config
	gen      *Generator
	grid     *Grid
	state    State
	selected Coord
	score    int
	moves    int

	logger   *log.Logger
	observer func(PhaseEvent)
	fixture  *Grid
}

// New creates an engine and deals the initial board.
func New(cfg Config, src Source, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		gen:    NewGenerator(src, cfg.Palette, cfg.MaxDrawAttempts),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset starts a new game: fresh match-free board, zero score and moves.
func (e *Engine) Reset() error {
	if e.state == StateResolving {
		return errResetWhileResolving
	}

	var (
		board *Grid
		err   error
	)
	if e.fixture != nil {
		board, err = e.takeFixture()
	} else {
		board, err = NewBoard(e.cfg.Size, e.gen)
	}
	if err != nil {
		return err
	}

	e.grid = board
	e.state = StateIdle
	e.selected = Coord{}
	e.score = 0
	e.moves = 0
	e.logger.Debug("new board", "size", e.cfg.Size, "palette", e.cfg.Palette)
	return nil
}

func (e *Engine) takeFixture() (*Grid, error) {
	g := e.fixture
	e.fixture = nil
	if g.Size() != e.cfg.Size {
		return nil, fmt.Errorf("%w: board size %d, config wants %d", ErrInvalidConfig, g.Size(), e.cfg.Size)
	}
	if n := g.EmptyCount(); n > 0 {
		return nil, fmt.Errorf("%w: board has %d empty cells", ErrInvalidConfig, n)
	}
	return g.Clone(), nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Board returns a copy of the current board.
func (e *Engine) Board() *Grid {
	return e.grid.Clone()
}

// Score returns the accumulated score.
func (e *Engine) Score() int {
	return e.score
}

// Moves returns the number of accepted swaps.
func (e *Engine) Moves() int {
	return e.moves
}

// State returns the current input state.
func (e *Engine) State() State {
	return e.state
}

// Locked reports whether the processing lock is held.
func (e *Engine) Locked() bool {
	return e.state == StateResolving
}

// Selection returns the selected cell, if any.
func (e *Engine) Selection() (Coord, bool) {
	return e.selected, e.state == StateAwaitingSecond
}

// Select is shorthand for ApplyEvent(Event{Cell: c}).
func (e *Engine) Select(c Coord) (Transition, error) {
	return e.ApplyEvent(Event{Cell: c})
}

// ApplyEvent feeds one cell selection into the state machine.
//
// Idle + cell selects it. A second pick of the same cell deselects; a
// non-adjacent pick moves the selection; an adjacent pick attempts the swap
// and, when it matches, resolves every cascade before returning. Events
// arriving while resolving are ignored. After a failed refill every event
// returns ErrBoardFailed.
func (e *Engine) ApplyEvent(ev Event) (Transition, error) {
	switch e.state {
	case StateResolving:
		return e.transition(OutcomeIgnored, e.state), nil
	case StateFailed:
		return Transition{}, ErrBoardFailed
	}
	if !e.grid.InBounds(ev.Cell) {
		return Transition{}, fmt.Errorf("%w: selection %v not in [0,%d)", ErrOutOfBounds, ev.Cell, e.cfg.Size)
	}

	from := e.state
	c := ev.Cell

	switch {
	case from == StateIdle:
		e.selected = c
		e.state = StateAwaitingSecond
		return e.transition(OutcomeSelected, from), nil

	case c == e.selected:
		e.selected = Coord{}
		e.state = StateIdle
		return e.transition(OutcomeDeselected, from), nil

	case !c.Adjacent(e.selected):
		e.selected = c
		return e.transition(OutcomeReselected, from), nil
	}

	return e.attemptSwap(e.selected, c, from)
}

// TrySwap attempts to swap a and b directly, bypassing selection. Any pending
// selection is dropped. Non-adjacent pairs leave the board untouched.
func (e *Engine) TrySwap(a, b Coord) (Transition, error) {
	switch e.state {
	case StateResolving:
		return e.transition(OutcomeIgnored, e.state), nil
	case StateFailed:
		return Transition{}, ErrBoardFailed
	}
	for _, c := range [2]Coord{a, b} {
		if !e.grid.InBounds(c) {
			return Transition{}, fmt.Errorf("%w: swap cell %v not in [0,%d)", ErrOutOfBounds, c, e.cfg.Size)
		}
	}

	from := e.state
	e.selected = Coord{}
	e.state = StateIdle
	if !a.Adjacent(b) {
		t := e.transition(OutcomeNotAdjacent, from)
		t.Swap = [2]Coord{a, b}
		return t, nil
	}
	return e.attemptSwap(a, b, from)
}

// attemptSwap exchanges a and b and either reverts (no match) or resolves
// the resulting matches. The lock is held for the whole call and released
// to Idle, or to Failed when a refill could not complete.
func (e *Engine) attemptSwap(a, b Coord, from State) (Transition, error) {
	e.state = StateResolving
	e.selected = Coord{}

	e.grid.swap(a, b)
	e.notify(PhaseSwap, 0, []Coord{a, b})

	matches := FindMatches(e.grid)
	if matches.Len() == 0 {
		e.grid.swap(a, b)
		e.notify(PhaseRevert, 0, []Coord{a, b})
		e.state = StateIdle
		e.logger.Debug("swap rejected", "a", a, "b", b)

		t := e.transition(OutcomeSwapRejected, from)
		t.To = StateIdle
		t.Swap = [2]Coord{a, b}
		return t, nil
	}

	e.moves++
	steps, err := e.resolve(matches)

	t := e.transition(OutcomeSwapAccepted, from)
	t.To = StateIdle
	t.Swap = [2]Coord{a, b}
	t.Steps = steps
	for _, s := range steps {
		t.Points += s.Points
	}
	if err != nil {
		e.state = StateFailed
		t.To = StateFailed
		e.logger.Error("resolve failed", "a", a, "b", b, "err", err)
		return t, err
	}

	e.notify(PhaseSettle, len(steps), nil)
	e.state = StateIdle
	e.logger.Debug("swap accepted",
		"a", a,
		"b", b,
		"cleared", t.Cleared(),
		"cascades", t.Cascades(),
		"points", t.Points,
		"score", e.score,
	)
	return t, nil
}

// resolve scores, clears and collapses match sets until the board has none.
func (e *Engine) resolve(matches MatchSet) ([]CascadeStep, error) {
	var steps []CascadeStep

	for idx := 0; matches.Len() > 0; idx++ {
		matched := matches.Sorted()
		points := len(matched) * e.cfg.PointsPerGem
		e.score += points
		e.notify(PhaseMatch, idx, matched)

		Clear(e.grid, matches)
		e.notify(PhaseClear, idx, matched)

		spawned, err := Collapse(e.grid, e.gen)
		if err != nil {
			return steps, err
		}
		e.notify(PhaseCollapse, idx, spawned)

		steps = append(steps, CascadeStep{
			Index:   idx,
			Matched: matched,
			Points:  points,
			Spawned: spawned,
			Board:   e.grid.Clone(),
		})
		matches = FindMatches(e.grid)
	}

	return steps, nil
}

func (e *Engine) notify(p Phase, step int, cells []Coord) {
	if e.observer == nil {
		return
	}
	e.observer(PhaseEvent{
		Phase: p,
		Step:  step,
		Cells: cells,
		Board: e.grid.Clone(),
	})
}

// transition snapshots the engine after an event.
func (e *Engine) transition(o Outcome, from State) Transition {
	sel, has := e.Selection()
	return Transition{
		Outcome:      o,
		From:         from,
		To:           e.state,
		Selection:    sel,
		HasSelection: has,
		Score:        e.score,
		Moves:        e.moves,
	}
}
