package match3

import (
	"errors"
	"fmt"
)

// ErrGenerationExhausted is returned when a constrained draw could not find
// an acceptable token within the configured attempt limit. It only happens
// with a degenerate palette/board configuration.
var ErrGenerationExhausted = errors.New("match3: constrained token draw exhausted")

// Source is the randomness a Generator draws from.
// *math/rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Generator produces gem tokens from a fixed palette.
type Generator struct {
	src         Source
	palette     int
	maxAttempts int // <= 0 means unlimited
}

// NewGenerator creates a generator over the first palette tokens.
func NewGenerator(src Source, palette, maxAttempts int) *Generator {
	return &Generator{
		src:         src,
		palette:     palette,
		maxAttempts: maxAttempts,
	}
}

// Palette returns the number of distinct tokens the generator produces.
func (g *Generator) Palette() int {
	return g.palette
}

// Random returns a token chosen uniformly from the palette.
func (g *Generator) Random() Token {
	return Token(g.src.Intn(g.palette))
}

// Constrained draws tokens until wouldMatch rejects none of them, i.e. until
// placing the candidate would not complete a run of three.
func (g *Generator) Constrained(wouldMatch func(Token) bool) (Token, error) {
	for attempt := 1; ; attempt++ {
		t := g.Random()
		if !wouldMatch(t) {
			return t, nil
		}
		if g.maxAttempts > 0 && attempt >= g.maxAttempts {
			return 0, fmt.Errorf("%w after %d attempts (palette %d)", ErrGenerationExhausted, attempt, g.palette)
		}
	}
}

// completesRun reports whether t equals both neighbours a and b.
func completesRun(t Token, a, b Cell) bool {
	return a.filled && b.filled && a.token == t && b.token == t
}

// NewBoard fills a size×size grid in row-major order so that no cell
// completes a horizontal run with the two cells to its left or a vertical
// run with the two cells above it. The result contains no match.
func NewBoard(size int, gen *Generator) (*Grid, error) {
	g := NewGrid(size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			t, err := gen.Constrained(func(t Token) bool {
				return completesRun(t, g.at(row, col-1), g.at(row, col-2)) ||
					completesRun(t, g.at(row-1, col), g.at(row-2, col))
			})
			if err != nil {
				return nil, fmt.Errorf("match3: build board at %v: %w", At(row, col), err)
			}
			g.put(row, col, Filled(t))
		}
	}
	return g, nil
}
