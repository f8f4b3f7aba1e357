package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-gems/internal/core"
	"github.com/vovakirdan/tui-gems/internal/storage"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{"w", runeKey('w'), core.ActionUp, false},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown, false},
		{"a", runeKey('a'), core.ActionLeft, false},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionSelect, false},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionSelect, false},
		{"pause", runeKey('p'), core.ActionPause, false},
		{"restart", runeKey('r'), core.ActionRestart, false},
		{"copy", tea.KeyMsg{Type: tea.KeyCtrlY}, core.ActionCopy, false},
		{"back", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{"quit", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('z'), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey(%q) = %v/%v, want %v/%v", tt.msg.String(), action, quit, tt.action, tt.quit)
			}
		})
	}
}

func TestMapKeyToFrame(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	if km.MapKeyToFrame(runeKey('d'), &frame) {
		t.Error("d is not a quit key")
	}
	if !frame.Has(core.ActionRight) {
		t.Error("expected ActionRight in frame")
	}

	frame.Clear()
	km.MapKeyToFrame(runeKey('z'), &frame)
	if !frame.Empty() {
		t.Error("unbound key should leave the frame empty")
	}
}

func TestMapMouseToFrame(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	press := tea.MouseMsg{X: 12, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	if !km.MapMouseToFrame(press, &frame) {
		t.Fatal("left press should produce a click")
	}
	if len(frame.Clicks) != 1 || frame.Clicks[0] != (core.Point{X: 12, Y: 5}) {
		t.Errorf("clicks = %v", frame.Clicks)
	}

	ignored := []tea.MouseMsg{
		{X: 1, Y: 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
		{X: 1, Y: 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone},
		{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonRight},
	}
	for _, msg := range ignored {
		if km.MapMouseToFrame(msg, &frame) {
			t.Errorf("%v should not click", msg)
		}
	}
	if len(frame.Clicks) != 1 {
		t.Errorf("clicks = %v", frame.Clicks)
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runeKey('k'), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey('b'), MenuActionBack},
		{runeKey('q'), MenuActionQuit},
		{runeKey('x'), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestGameKeyMapHelp(t *testing.T) {
	keys := DefaultGameKeyMap()
	if len(keys.ShortHelp()) == 0 {
		t.Error("ShortHelp() is empty")
	}
	n := 0
	for _, col := range keys.FullHelp() {
		n += len(col)
	}
	if n != 11 {
		t.Errorf("FullHelp() lists %d bindings, expected 11", n)
	}
}

// scoredGame is a minimal game that ends with a fixed score.
type scoredGame struct {
	id     string
	score  int
	moves  int
	ranked bool
}

func (g *scoredGame) ID() string { return g.id }
func (g *scoredGame) Title() string { return g.id }
func (g *scoredGame) Reset(core.RuntimeConfig) {}
func (g *scoredGame) Render(dst *core.Screen) { dst.DrawText(0, 0, g.id) }
func (g *scoredGame) Ranked() bool { return g.ranked }
func (g *scoredGame) Moves() int { return g.moves }
func (g *scoredGame) State() core.GameState { return core.GameState{Score: g.score, GameOver: true} }
func (g *scoredGame) Step(core.InputFrame) core.StepResult {
	return core.StepResult{State: g.State()}
}

func TestSaveFinalScore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	ranked := &scoredGame{id: "gems", score: 450, moves: 30, ranked: true}
	unranked := &scoredGame{id: "gems_endless", score: 900, moves: 70}
	zero := &scoredGame{id: "gems", ranked: true}

	for _, g := range []*scoredGame{ranked, unranked, zero} {
		if err := saveFinalScore(store, g, g.State()); err != nil {
			t.Fatalf("saveFinalScore(%s) failed: %v", g.id, err)
		}
	}
	if err := saveFinalScore(nil, ranked, ranked.State()); err != nil {
		t.Errorf("nil store should be a no-op, got %v", err)
	}

	scores, _ := store.TopScores("gems", 10)
	if len(scores) != 1 || scores[0].Score != 450 || scores[0].Moves != 30 {
		t.Errorf("gems scores = %+v", scores)
	}
	if endless, _ := store.TopScores("gems_endless", 10); len(endless) != 0 {
		t.Errorf("unranked game was saved: %+v", endless)
	}
}

func TestModelSavesScoreOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	g := &scoredGame{id: "gems", score: 120, moves: 30, ranked: true}
	var model tea.Model = NewModel(g, store, core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 60, Seed: 1})

	for i := 0; i < 3; i++ {
		model, _ = model.Update(TickMsg{})
	}

	scores, _ := store.AllScores("gems")
	if len(scores) != 1 {
		t.Errorf("expected one saved score, got %d", len(scores))
	}

	if !strings.Contains(model.View(), "gems") {
		t.Error("View() should render the game")
	}
}

func TestModelBackAfterGameOver(t *testing.T) {
	g := &scoredGame{id: "gems"}
	var model tea.Model = NewModel(g, nil, core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 60, Seed: 1})

	model, _ = model.Update(TickMsg{})
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})

	m := model.(Model)
	if !m.IsGoingBack() || cmd == nil {
		t.Error("esc after game over should leave the game")
	}
}

func TestRenderScreenColors(t *testing.T) {
	s := core.NewScreen(6, 1)
	s.DrawTextWithColor(0, 0, "RD", core.ColorBrightRed)
	s.DrawText(3, 0, "ok")

	out := RenderScreen(s)
	if !strings.Contains(out, "RD") || !strings.Contains(out, "ok") {
		t.Errorf("RenderScreen() lost text: %q", out)
	}
}
