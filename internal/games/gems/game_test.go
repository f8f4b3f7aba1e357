package gems

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-gems/internal/config"
	"github.com/vovakirdan/tui-gems/internal/core"
	"github.com/vovakirdan/tui-gems/internal/match3"
	"github.com/vovakirdan/tui-gems/internal/registry"
)

// fourGems keeps the default timing but uses a small palette so that
// matching swaps are easy to find on any seed.
const fourGems = "board:\n  size: 8\n  palette: 4\n"

func newTestGame(t *testing.T, mode Mode, yamlCfg string, seed int64) *Game {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	if yamlCfg != "" {
		path := filepath.Join(t.TempDir(), "gems.yaml")
		if err := os.WriteFile(path, []byte(yamlCfg), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		SetConfigPath(path)
		t.Cleanup(func() { SetConfigPath("") })
	}

	g := New()
	if mode == ModeEndless {
		g = NewEndless()
	}
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed})
	if g.engine == nil {
		t.Fatalf("Reset() left no engine, status %q", g.status)
	}
	return g
}

func press(g *Game, actions ...core.Action) core.StepResult {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

func click(g *Game, c match3.Coord) core.StepResult {
	r := g.boardRect()
	in := core.NewInputFrame()
	in.Click(r.X+c.Col*cellWidth+1, r.Y+c.Row)
	return g.Step(in)
}

// drain steps until playback finishes and returns the number of ticks.
func drain(t *testing.T, g *Game) int {
	t.Helper()
	for n := 0; n < 10000; n++ {
		if !g.State().Busy {
			return n
		}
		press(g)
	}
	t.Fatal("playback never finished")
	return 0
}

// findSwap returns an adjacent pair whose swap does (or does not) match.
func findSwap(t *testing.T, board *match3.Grid, matching bool) (match3.Coord, match3.Coord) {
	t.Helper()
	n := board.Size()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			a := match3.At(row, col)
			for _, b := range []match3.Coord{match3.At(row, col+1), match3.At(row+1, col)} {
				if !board.InBounds(b) {
					continue
				}
				trial := board.Clone()
				ca, _ := trial.Get(a)
				cb, _ := trial.Get(b)
				trial.Set(a, cb)
				trial.Set(b, ca)
				if (match3.FindMatches(trial).Len() > 0) == matching {
					return a, b
				}
			}
		}
	}
	t.Fatalf("no swap with matching=%v on board\n%s", matching, board)
	return match3.Coord{}, match3.Coord{}
}

// swapVia picks a with the keyboard and b with the mouse.
func swapVia(g *Game, a, b match3.Coord) core.StepResult {
	g.cursor = a
	press(g, core.ActionSelect)
	return click(g, b)
}

func TestRegisteredModes(t *testing.T) {
	tests := []struct {
		id     string
		title  string
		ranked bool
	}{
		{"gems", "Gems", true},
		{"gems_endless", "Gems (Endless)", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if !registry.Exists(tt.id) {
				t.Fatalf("%s not registered", tt.id)
			}
			g, err := registry.Create(tt.id)
			if err != nil {
				t.Fatalf("Create() failed: %v", err)
			}
			if g.ID() != tt.id || g.Title() != tt.title {
				t.Errorf("got %q/%q", g.ID(), g.Title())
			}
			if g.(*Game).Ranked() != tt.ranked {
				t.Errorf("Ranked() = %v", !tt.ranked)
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	g1 := newTestGame(t, ModeClassic, "", 12345)
	g2 := newTestGame(t, ModeClassic, "", 12345)
	g3 := newTestGame(t, ModeClassic, "", 54321)

	s1, s2 := g1.Snapshot(), g2.Snapshot()
	if s1 != s2 {
		t.Errorf("same seed produced different games:\n%+v\n%+v", s1, s2)
	}
	if s1.Board == g3.Snapshot().Board {
		t.Error("different seeds produced the same board")
	}
	if s1.State != StatePlaying || s1.Status != msgWelcome {
		t.Errorf("initial snapshot = %+v", s1)
	}
}

func TestInitialBoardIsStable(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", 7)
	if n := match3.FindMatches(g.engine.Board()).Len(); n != 0 {
		t.Errorf("initial board has %d matched cells", n)
	}
	if s := g.Snapshot(); s.Score != 0 || s.Moves != 0 || s.MovesLeft != 30 {
		t.Errorf("initial counters = %+v", s)
	}
}

func TestCursorClampsToBoard(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", 1)

	for i := 0; i < 12; i++ {
		press(g, core.ActionUp)
		press(g, core.ActionLeft)
	}
	if g.cursor != match3.At(0, 0) {
		t.Errorf("cursor = %v, expected top-left", g.cursor)
	}

	for i := 0; i < 12; i++ {
		press(g, core.ActionDown)
		press(g, core.ActionRight)
	}
	if g.cursor != match3.At(7, 7) {
		t.Errorf("cursor = %v, expected bottom-right", g.cursor)
	}
}

func TestSelectAndDeselect(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", 1)

	res := press(g, core.ActionSelect)
	if res.Status != msgSelected {
		t.Errorf("status = %q, expected %q", res.Status, msgSelected)
	}
	if s := g.Snapshot(); !s.HasSelection || s.Selection != g.cursor {
		t.Errorf("selection = %v/%v, expected cursor %v", s.Selection, s.HasSelection, g.cursor)
	}

	res = press(g, core.ActionSelect)
	if res.Status != msgDeselected || g.Snapshot().HasSelection {
		t.Errorf("second pick should deselect, status %q", res.Status)
	}

	// No status change, no status in the result
	if res := press(g); res.Status != "" {
		t.Errorf("idle tick reported status %q", res.Status)
	}
}

func TestNonAdjacentPickMovesSelection(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", 1)

	click(g, match3.At(0, 0))
	res := click(g, match3.At(1, 1))
	if res.Status != msgAdjacent {
		t.Errorf("status = %q, expected %q", res.Status, msgAdjacent)
	}
	if s := g.Snapshot(); s.Selection != match3.At(1, 1) || !s.HasSelection {
		t.Errorf("selection = %+v, expected (1,1)", s.Selection)
	}
	if g.Moves() != 0 {
		t.Error("diagonal pick must not count as a move")
	}
}

func TestClickOutsideBoardIgnored(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", 1)
	before := g.cursor

	in := core.NewInputFrame()
	in.Click(0, 0)
	g.Step(in)

	if g.cursor != before || g.Snapshot().HasSelection {
		t.Error("click outside the board should do nothing")
	}
}

func TestRejectedSwapPlayback(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", 99)
	board := g.engine.Board()
	a, b := findSwap(t, board, false)

	res := swapVia(g, a, b)
	if res.Status != msgNoMatch {
		t.Errorf("status = %q, expected %q", res.Status, msgNoMatch)
	}
	if !res.State.Busy {
		t.Fatal("rejected swap should play back")
	}

	// Input is ignored while the swap is shown
	g.cursor = a
	press(g, core.ActionSelect)
	if g.Snapshot().HasSelection {
		t.Error("pick during playback should be ignored")
	}

	timing := config.DefaultGemsConfig().Timing
	if n := drain(t, g) + 1; n != timing.SwapTicks+timing.RevertTicks {
		t.Errorf("playback took %d ticks, expected %d", n, timing.SwapTicks+timing.RevertTicks)
	}
	if !g.engine.Board().Equal(board) {
		t.Error("rejected swap changed the board")
	}
	if g.Moves() != 0 || g.State().Score != 0 {
		t.Error("rejected swap changed the counters")
	}
}

func TestAcceptedSwapScoresAndSettles(t *testing.T) {
	g := newTestGame(t, ModeClassic, fourGems, 42)
	a, b := findSwap(t, g.engine.Board(), true)

	res := swapVia(g, a, b)
	if res.Status != msgNice && res.Status != msgBigMatch {
		t.Errorf("status = %q after accepted swap", res.Status)
	}
	if !res.State.Busy || g.Snapshot().State != StateAnimating {
		t.Fatal("accepted swap should play back")
	}

	score := res.State.Score
	if score <= 0 || score%15 != 0 {
		t.Errorf("score = %d, expected a positive multiple of 15", score)
	}
	if g.Moves() != 1 {
		t.Errorf("moves = %d, expected 1", g.Moves())
	}

	// The HUD counts up from the pre-swap score
	if f := g.playback.current(); f == nil || f.score != 0 {
		t.Error("first frame should show the score before the swap")
	}

	drain(t, g)

	s := g.Snapshot()
	if s.Status != msgSettle {
		t.Errorf("status = %q, expected %q", s.Status, msgSettle)
	}
	if strings.Contains(s.Board, ".") {
		t.Errorf("settled board has empty cells:\n%s", s.Board)
	}
	if match3.FindMatches(g.engine.Board()).Len() != 0 {
		t.Error("settled board still has matches")
	}
	if s.Score != score || s.MovesLeft != 29 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestMoveLimitEndsClassicGame(t *testing.T) {
	cfg := fourGems + "session:\n  move_limit: 1\n"

	g := newTestGame(t, ModeClassic, cfg, 5)
	a, b := findSwap(t, g.engine.Board(), true)
	swapVia(g, a, b)

	if g.State().GameOver {
		t.Error("game should not end before the board settles")
	}
	drain(t, g)

	if !g.State().GameOver || g.Snapshot().State != StateGameOver {
		t.Fatal("classic game should end when the budget is spent")
	}
	if g.status != msgOutOfMoves {
		t.Errorf("status = %q", g.status)
	}

	// Further picks do nothing
	press(g, core.ActionSelect)
	if g.Snapshot().HasSelection {
		t.Error("pick after game over should be ignored")
	}

	e := newTestGame(t, ModeEndless, cfg, 5)
	a, b = findSwap(t, e.engine.Board(), true)
	swapVia(e, a, b)
	drain(t, e)
	if e.State().GameOver || e.MovesLeft() != -1 {
		t.Error("endless mode has no move budget")
	}
}

func TestZeroTimingSkipsPlayback(t *testing.T) {
	cfg := fourGems + `timing:
  swap_ticks: 0
  revert_ticks: 0
  match_ticks: 0
  collapse_ticks: 0
  spawn_ticks: 0
session:
  move_limit: 1
`
	g := newTestGame(t, ModeClassic, cfg, 3)
	a, b := findSwap(t, g.engine.Board(), true)

	res := swapVia(g, a, b)
	if res.State.Busy {
		t.Error("no playback expected without timing")
	}
	if !res.State.GameOver {
		t.Error("game should end right away when nothing plays back")
	}
}

func TestPauseFreezesInput(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", 1)

	if !press(g, core.ActionPause).State.Paused {
		t.Fatal("expected paused")
	}
	press(g, core.ActionSelect)
	if g.Snapshot().HasSelection || g.Snapshot().State != StatePaused {
		t.Error("pick while paused should be ignored")
	}
	if press(g, core.ActionPause).State.Paused {
		t.Error("expected resumed")
	}
}

func TestRestartDealsNewBoard(t *testing.T) {
	g := newTestGame(t, ModeClassic, fourGems, 11)
	a, b := findSwap(t, g.engine.Board(), true)
	swapVia(g, a, b)
	drain(t, g)

	res := press(g, core.ActionRestart)
	if res.State.Score != 0 || g.Moves() != 0 {
		t.Errorf("restart kept counters: score %d moves %d", res.State.Score, g.Moves())
	}
	if res.Status != msgWelcome {
		t.Errorf("status = %q", res.Status)
	}
	if match3.FindMatches(g.engine.Board()).Len() != 0 {
		t.Error("new board has matches")
	}
}

func TestCopyBoard(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", 1)

	var copied string
	g.SetClipboard(func(s string) error {
		copied = s
		return nil
	})

	res := press(g, core.ActionCopy)
	if copied != g.engine.Board().String() {
		t.Errorf("copied %q", copied)
	}
	if res.Status != msgCopied {
		t.Errorf("status = %q", res.Status)
	}

	g.SetClipboard(func(string) error { return errors.New("no clipboard") })
	if res := press(g, core.ActionCopy); res.Status != msgCopyFailed {
		t.Errorf("status = %q", res.Status)
	}

	g.SetClipboard(nil)
	if res := press(g, core.ActionCopy); res.Status != msgCopyFailed {
		t.Errorf("status with copying disabled = %q", res.Status)
	}
}

func TestTooSmallScreen(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 8, Seed: 1})

	if !g.State().Paused || g.Snapshot().State != StatePausedSmall {
		t.Error("small screen should pause the game")
	}

	dst := core.NewScreen(20, 8)
	g.Render(dst)
	if !strings.Contains(dst.String(), "Window too small") {
		t.Errorf("expected too-small message, got:\n%s", dst.String())
	}
}

func TestRenderBoardColors(t *testing.T) {
	g := newTestGame(t, ModeClassic, "", 8)
	dst := core.NewScreen(80, 24)
	g.Render(dst)

	r := g.boardRect()
	board := g.engine.Board()
	for row := 0; row < board.Size(); row++ {
		for col := 0; col < board.Size(); col++ {
			cell, _ := board.Get(match3.At(row, col))
			tok, _ := cell.Token()
			got := dst.GetCell(r.X+col*cellWidth+1, r.Y+row)
			if got.Rune != rune(tok.Letter()) || got.Color != GemColor(tok) {
				t.Fatalf("cell (%d,%d) drawn as %q/%v, expected %q/%v",
					row, col, got.Rune, got.Color, tok.Letter(), GemColor(tok))
			}
		}
	}

	// Cursor brackets around the center cell
	c := g.cursor
	if got := dst.Get(r.X+c.Col*cellWidth, r.Y+c.Row); got != '[' {
		t.Errorf("cursor bracket = %q", got)
	}
	if !strings.Contains(dst.String(), "Score: 0") {
		t.Error("HUD missing score")
	}
}

func TestHUDFollowsPlaybackFrame(t *testing.T) {
	cfg := fourGems + "session:\n  move_limit: 30\n"
	g := newTestGame(t, ModeClassic, cfg, 42)
	a, b := findSwap(t, g.engine.Board(), true)
	swapVia(g, a, b)

	hud := func() string {
		dst := core.NewScreen(80, 24)
		g.Render(dst)
		return dst.Row(1)
	}

	// Swap frame: nothing counted yet
	line := hud()
	if !strings.Contains(line, "Score: 0") || !strings.Contains(line, "Moves: 0  Left: 30") {
		t.Errorf("HUD during swap = %q", line)
	}

	for g.State().Busy {
		f := g.playback.current()
		if f == nil {
			break
		}
		line = hud()
		want := fmt.Sprintf("Moves: %d  Left: %d", f.moves, 30-f.moves)
		if !strings.Contains(line, fmt.Sprintf("Score: %d", f.score)) || !strings.Contains(line, want) {
			t.Fatalf("HUD %q does not match frame %d/%d", line, f.score, f.moves)
		}
		press(g)
	}

	line = hud()
	want := fmt.Sprintf("Score: %d", g.State().Score)
	if !strings.Contains(line, want) || !strings.Contains(line, "Moves: 1  Left: 29") {
		t.Errorf("settled HUD = %q", line)
	}
}

func TestRenderGameOverOverlay(t *testing.T) {
	cfg := fourGems + "session:\n  move_limit: 1\n"
	g := newTestGame(t, ModeClassic, cfg, 21)
	a, b := findSwap(t, g.engine.Board(), true)
	swapVia(g, a, b)
	drain(t, g)

	dst := core.NewScreen(80, 24)
	g.Render(dst)
	if !strings.Contains(dst.String(), "OUT OF MOVES") {
		t.Errorf("expected game over overlay:\n%s", dst.String())
	}
}

func TestStatusFor(t *testing.T) {
	four := []match3.Coord{match3.At(0, 0), match3.At(0, 1), match3.At(0, 2), match3.At(0, 3)}
	three := four[:3]

	tests := []struct {
		name string
		tr   match3.Transition
		want string
	}{
		{"ignored", match3.Transition{Outcome: match3.OutcomeIgnored}, ""},
		{"selected", match3.Transition{Outcome: match3.OutcomeSelected}, msgSelected},
		{"deselected", match3.Transition{Outcome: match3.OutcomeDeselected}, msgDeselected},
		{"reselected", match3.Transition{Outcome: match3.OutcomeReselected}, msgAdjacent},
		{"not adjacent", match3.Transition{Outcome: match3.OutcomeNotAdjacent}, msgAdjacent},
		{"rejected", match3.Transition{Outcome: match3.OutcomeSwapRejected}, msgNoMatch},
		{"three", match3.Transition{
			Outcome: match3.OutcomeSwapAccepted,
			Steps:   []match3.CascadeStep{{Matched: three}},
		}, msgNice},
		{"four then cascade", match3.Transition{
			Outcome: match3.OutcomeSwapAccepted,
			Steps:   []match3.CascadeStep{{Matched: four}, {Index: 1, Matched: three}},
		}, msgBigMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.tr); got != tt.want {
				t.Errorf("StatusFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlaybackFrames(t *testing.T) {
	board := match3.NewGrid(3)
	events := []match3.PhaseEvent{
		{Phase: match3.PhaseSwap, Board: board},
		{Phase: match3.PhaseMatch, Step: 0, Board: board},
		{Phase: match3.PhaseClear, Step: 0, Board: board},
		{Phase: match3.PhaseCollapse, Step: 0, Board: board, Cells: []match3.Coord{match3.At(0, 0)}},
		{Phase: match3.PhaseMatch, Step: 1, Board: board},
		{Phase: match3.PhaseClear, Step: 1, Board: board},
		{Phase: match3.PhaseCollapse, Step: 1, Board: board},
		{Phase: match3.PhaseSettle, Step: 2, Board: board},
	}
	tr := match3.Transition{
		Outcome: match3.OutcomeSwapAccepted,
		Steps:   []match3.CascadeStep{{Points: 45}, {Index: 1, Points: 60}},
		Points:  105,
		Score:   205,
		Moves:   4,
	}
	timing := config.TimingConfig{SwapTicks: 2, MatchTicks: 3, CollapseTicks: 0, SpawnTicks: 5}

	p := newPlayback(events, tr, timing)

	// Swap, two matches; collapses have no duration
	if len(p.frames) != 3 {
		t.Fatalf("got %d frames, expected 3", len(p.frames))
	}
	wantScores := []int{100, 145, 205}
	wantMoves := []int{3, 4, 4}
	for i, f := range p.frames {
		if f.score != wantScores[i] || f.moves != wantMoves[i] {
			t.Errorf("frame %d counters = %d/%d, want %d/%d",
				i, f.score, f.moves, wantScores[i], wantMoves[i])
		}
	}
	if p.frames[1].status != "" || p.frames[2].status != msgChain {
		t.Errorf("statuses = %q, %q", p.frames[1].status, p.frames[2].status)
	}

	var statuses []string
	ticks := 0
	for p.active() {
		if s := p.advance(); s != "" {
			statuses = append(statuses, s)
		}
		ticks++
	}
	if ticks != 8 {
		t.Errorf("playback ran %d ticks, expected 8", ticks)
	}
	if len(statuses) != 2 || statuses[0] != msgChain || statuses[1] != msgSettle {
		t.Errorf("statuses = %v", statuses)
	}
}

func TestSpawnFlashBlinks(t *testing.T) {
	p := playback{frames: []frame{{
		ticks:      20,
		flash:      []match3.Coord{match3.At(0, 0)},
		flashTicks: 10,
	}}}

	var pattern []bool
	for i := 0; i < 12; i++ {
		pattern = append(pattern, p.flashing())
		p.advance()
	}
	want := []bool{true, true, true, true, false, false, false, false, true, true, false, false}
	for i := range want {
		if pattern[i] != want[i] {
			t.Fatalf("flash pattern = %v, want %v", pattern, want)
		}
	}
}
