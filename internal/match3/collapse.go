package match3

import (
	"fmt"
	"sort"
)

// Clear empties every cell in the set. Coordinates outside the grid are
// ignored.
func Clear(g *Grid, set MatchSet) {
	for c := range set {
		if g.InBounds(c) {
			g.put(c.Row, c.Col, Empty())
		}
	}
}

// Collapse applies gravity column by column and refills the vacated cells.
//
// For each column the surviving gems keep their top-to-bottom order and move
// down to the bottom rows. The k vacated top rows are generated top first:
// a candidate is rejected if it equals the two cells to its left in the board
// being rewritten (columns to the left are already final for this pass) or
// the two cells above it in the column being drafted. Cells below the refill
// region are not consulted.
//
// The pass is drafted on a copy: if a refill draw fails, g is left exactly
// as it was. Returns the refilled coordinates in row-major order.
func Collapse(g *Grid, gen *Generator) ([]Coord, error) {
	n := g.size
	next := g.Clone()
	var spawned []Coord

	draft := make([]Cell, n)
	survivors := make([]Cell, 0, n)

	for col := 0; col < n; col++ {
		survivors = survivors[:0]
		for row := 0; row < n; row++ {
			if cell := g.at(row, col); cell.filled {
				survivors = append(survivors, cell)
			}
		}

		empties := n - len(survivors)
		if empties == 0 {
			continue
		}

		for i := range draft {
			draft[i] = Empty()
		}
		for row := 0; row < empties; row++ {
			t, err := gen.Constrained(func(t Token) bool {
				if completesRun(t, next.at(row, col-1), next.at(row, col-2)) {
					return true
				}
				above1, above2 := Empty(), Empty()
				if row > 0 {
					above1 = draft[row-1]
				}
				if row > 1 {
					above2 = draft[row-2]
				}
				return completesRun(t, above1, above2)
			})
			if err != nil {
				return nil, fmt.Errorf("match3: refill %v: %w", At(row, col), err)
			}
			draft[row] = Filled(t)
		}
		copy(draft[empties:], survivors)

		for row := 0; row < n; row++ {
			next.put(row, col, draft[row])
		}
		for row := 0; row < empties; row++ {
			spawned = append(spawned, At(row, col))
		}
	}

	copy(g.cells, next.cells)
	sortCoords(spawned)
	return spawned, nil
}

// sortCoords orders coordinates row-major in place.
func sortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		return cs[i].less(cs[j])
	})
}
