// Package match3 implements the tile-matching engine behind the gems game:
// board storage, match-safe token generation, run and cluster detection,
// gravity collapse with refill, and the swap/cascade state machine.
// It is UI-agnostic and deterministic for a given random source.
package match3

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOutOfBounds is returned when a coordinate lies outside the grid.
var ErrOutOfBounds = errors.New("match3: coordinate out of bounds")

// Token identifies a gem type. Values are in [0, palette size).
type Token uint8

// Reference gem palette, in token order.
var gemNames = [...]string{
	"ruby",
	"diamond",
	"amethyst",
	"emerald",
	"topaz",
	"sapphire",
	"rose",
	"citrine",
}

// Single-letter codes, unique per gem. Rose is 'P' (pink) to avoid ruby.
var gemLetters = [...]byte{'R', 'D', 'A', 'E', 'T', 'S', 'P', 'C'}

// MaxPalette is the largest supported palette size.
const MaxPalette = len(gemNames)

// Gem tokens of the reference palette.
const (
	Ruby Token = iota
	Diamond
	Amethyst
	Emerald
	Topaz
	Sapphire
	Rose
	Citrine
)

// String returns the gem name.
func (t Token) String() string {
	if int(t) < len(gemNames) {
		return gemNames[t]
	}
	return fmt.Sprintf("gem%d", t)
}

// Letter returns the single-letter code used by ParseGrid and Grid.String.
func (t Token) Letter() byte {
	if int(t) < len(gemLetters) {
		return gemLetters[t]
	}
	return '?'
}

// tokenFromLetter maps a Letter() code back to its token.
func tokenFromLetter(b byte) (Token, bool) {
	for i, l := range gemLetters {
		if l == b {
			return Token(i), true
		}
	}
	return 0, false
}

// Cell is either a filled gem or empty.
// The zero value is empty.
type Cell struct {
	token  Token
	filled bool
}

// Filled returns a cell holding the given token.
func Filled(t Token) Cell {
	return Cell{token: t, filled: true}
}

// Empty returns an empty cell.
func Empty() Cell {
	return Cell{}
}

// Token returns the cell's token and whether the cell is filled.
func (c Cell) Token() (Token, bool) {
	return c.token, c.filled
}

// IsEmpty reports whether the cell holds no token.
func (c Cell) IsEmpty() bool {
	return !c.filled
}

// Coord addresses a grid cell. Row 0 is the top row.
type Coord struct {
	Row int
	Col int
}

// At is a convenience constructor for Coord.
func At(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

// String returns "(row,col)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Adjacent reports whether two coordinates share an edge.
// Diagonal neighbours are not adjacent.
func (c Coord) Adjacent(other Coord) bool {
	dr := c.Row - other.Row
	dc := c.Col - other.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr+dc == 1
}

// less orders coordinates row-major.
func (c Coord) less(other Coord) bool {
	if c.Row != other.Row {
		return c.Row < other.Row
	}
	return c.Col < other.Col
}

// Grid is a square board of cells stored in row-major order.
type Grid struct {
	size  int
	cells []Cell
}

// NewGrid creates an empty size×size grid.
func NewGrid(size int) *Grid {
	return &Grid{
		size:  size,
		cells: make([]Cell, size*size),
	}
}

// Size returns the board dimension N.
func (g *Grid) Size() int {
	return g.size
}

// InBounds reports whether c lies within [0,N) on both axes.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.size && c.Col >= 0 && c.Col < g.size
}

// Get returns the cell at c.
func (g *Grid) Get(c Coord) (Cell, error) {
	if !g.InBounds(c) {
		return Cell{}, fmt.Errorf("%w: %v not in [0,%d)", ErrOutOfBounds, c, g.size)
	}
	return g.cells[c.Row*g.size+c.Col], nil
}

// Set stores cell at c.
func (g *Grid) Set(c Coord, cell Cell) error {
	if !g.InBounds(c) {
		return fmt.Errorf("%w: %v not in [0,%d)", ErrOutOfBounds, c, g.size)
	}
	g.cells[c.Row*g.size+c.Col] = cell
	return nil
}

// at is the unchecked accessor used inside the engine.
// Out-of-range coordinates read as empty.
func (g *Grid) at(row, col int) Cell {
	if row < 0 || row >= g.size || col < 0 || col >= g.size {
		return Cell{}
	}
	return g.cells[row*g.size+col]
}

func (g *Grid) put(row, col int, cell Cell) {
	g.cells[row*g.size+col] = cell
}

// swap exchanges the contents of two in-bounds cells.
func (g *Grid) swap(a, b Coord) {
	ia := a.Row*g.size + a.Col
	ib := b.Row*g.size + b.Col
	g.cells[ia], g.cells[ib] = g.cells[ib], g.cells[ia]
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{size: g.size, cells: cells}
}

// Equal reports whether two grids have the same size and contents.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.size != other.size {
		return false
	}
	for i, cell := range g.cells {
		if cell != other.cells[i] {
			return false
		}
	}
	return true
}

// EmptyCount returns the number of empty cells.
func (g *Grid) EmptyCount() int {
	n := 0
	for _, cell := range g.cells {
		if !cell.filled {
			n++
		}
	}
	return n
}

// Tokens returns the board as rows of tokens.
// Only meaningful at rest, when every cell is filled; empty cells read as 0.
func (g *Grid) Tokens() [][]Token {
	rows := make([][]Token, g.size)
	for r := range rows {
		rows[r] = make([]Token, g.size)
		for c := range rows[r] {
			rows[r][c] = g.cells[r*g.size+c].token
		}
	}
	return rows
}

// String renders the grid one row per line, one letter per gem, '.' for empty.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.size*g.size + g.size)
	for r := 0; r < g.size; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < g.size; c++ {
			cell := g.at(r, c)
			if cell.filled {
				sb.WriteByte(cell.token.Letter())
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// ParseGrid builds a grid from rows of gem letters (see Token.Letter).
// '.' denotes an empty cell. All rows must have the same length as the
// number of rows.
func ParseGrid(rows ...string) (*Grid, error) {
	n := len(rows)
	if n == 0 {
		return nil, errors.New("match3: empty grid")
	}
	g := NewGrid(n)
	for r, line := range rows {
		if len(line) != n {
			return nil, fmt.Errorf("match3: row %d has %d cells, want %d", r, len(line), n)
		}
		for c := 0; c < n; c++ {
			if line[c] == '.' {
				continue
			}
			t, ok := tokenFromLetter(line[c])
			if !ok {
				return nil, fmt.Errorf("match3: unknown gem %q at %v", line[c], At(r, c))
			}
			g.put(r, c, Filled(t))
		}
	}
	return g, nil
}
