package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-gems/internal/registry"
	"github.com/vovakirdan/tui-gems/internal/storage"
)

func init() {
	registry.Register("sb_classic", func() registry.Game {
		return &scoredGame{id: "sb_classic", ranked: true}
	})
	registry.Register("sb_endless", func() registry.Game {
		return &scoredGame{id: "sb_endless"}
	})
}

func TestScoreboardListsRankedModesOnly(t *testing.T) {
	m := NewScoreboardModel(nil, 100, 30)

	for _, mode := range m.modes {
		if mode.ID == "sb_endless" {
			t.Error("unranked mode should not be listed")
		}
	}
	found := false
	for _, mode := range m.modes {
		found = found || mode.ID == "sb_classic"
	}
	if !found {
		t.Errorf("ranked mode missing from %v", m.modes)
	}
}

func TestScoreboardShowsScoresAndStats(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := store.SaveScore("sb_classic", 4321, 30); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	m := NewScoreboardModel(store, 100, 30)
	for m.modes[m.mode].ID != "sb_classic" {
		m.cycle(1)
	}

	for _, width := range []int{100, 50} {
		next, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: 30})
		view := next.View()
		if !strings.Contains(view, "4321") {
			t.Errorf("width %d: score missing from view", width)
		}
		if !strings.Contains(view, "Best") {
			t.Errorf("width %d: stats missing from view", width)
		}
	}
}

func TestScoreboardBackAndQuit(t *testing.T) {
	m := NewScoreboardModel(nil, 80, 24)

	back, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !back.(ScoreboardModel).IsGoingBack() || cmd == nil {
		t.Error("esc should return to the menu")
	}

	quit, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !quit.(ScoreboardModel).IsQuitting() {
		t.Error("q should quit")
	}
}
