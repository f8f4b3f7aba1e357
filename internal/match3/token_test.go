package match3

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cycleSource replays a fixed sequence of draws.
type cycleSource struct {
	vals []int
	pos  int
}

func (s *cycleSource) Intn(n int) int {
	v := s.vals[s.pos%len(s.vals)] % n
	s.pos++
	return v
}

func TestGeneratorRandomStaysInPalette(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(1)), 5, 0)
	for i := 0; i < 1000; i++ {
		tok := gen.Random()
		require.Less(t, int(tok), 5)
	}
	assert.Equal(t, 5, gen.Palette())
}

func TestGeneratorConstrainedRetries(t *testing.T) {
	src := &cycleSource{vals: []int{0, 0, 0, 2}}
	gen := NewGenerator(src, 4, 10)

	tok, err := gen.Constrained(func(t Token) bool { return t == Ruby })
	require.NoError(t, err)
	assert.Equal(t, Amethyst, tok)
	assert.Equal(t, 4, src.pos, "three rejected draws then one accepted")
}

func TestGeneratorConstrainedExhausted(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(1)), 3, 25)

	calls := 0
	_, err := gen.Constrained(func(Token) bool {
		calls++
		return true
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationExhausted))
	assert.Equal(t, 25, calls)
}

func TestNewBoardHasNoMatches(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		palette int
	}{
		{"reference 8x8", 8, 8},
		{"small palette", 8, 3},
		{"tiny board", 3, 3},
		{"wide board", 12, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(0); seed < 25; seed++ {
				gen := NewGenerator(rand.New(rand.NewSource(seed)), tt.palette, 1000)
				g, err := NewBoard(tt.size, gen)
				require.NoError(t, err)

				assert.Equal(t, tt.size, g.Size())
				assert.Equal(t, 0, g.EmptyCount(), "seed %d", seed)
				assert.Equal(t, 0, FindMatches(g).Len(), "seed %d\n%s", seed, g)
			}
		})
	}
}

func TestNewBoardIsDeterministic(t *testing.T) {
	a, err := NewBoard(8, NewGenerator(rand.New(rand.NewSource(99)), 8, 1000))
	require.NoError(t, err)
	b, err := NewBoard(8, NewGenerator(rand.New(rand.NewSource(99)), 8, 1000))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}
