package main

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-gems/internal/match3"
)

func TestRandomPairAdjacentInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, size := range []int{3, 8} {
		for i := 0; i < 500; i++ {
			a, b := randomPair(rng, size)
			if !a.Adjacent(b) {
				t.Fatalf("size %d: %v and %v are not adjacent", size, a, b)
			}
			for _, c := range []int{a.Row, a.Col, b.Row, b.Col} {
				if c < 0 || c >= size {
					t.Fatalf("size %d: pair %v %v out of bounds", size, a, b)
				}
			}
		}
	}
}

func TestGemCounts(t *testing.T) {
	board, err := match3.ParseGrid("RRD", "ADR", "RDA")
	if err != nil {
		t.Fatalf("ParseGrid() failed: %v", err)
	}

	got := gemCounts(board.Tokens())
	want := []any{match3.Ruby.String(), 4, match3.Diamond.String(), 3, match3.Amethyst.String(), 2}
	if len(got) != len(want) {
		t.Fatalf("gemCounts() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("gemCounts()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
