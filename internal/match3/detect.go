package match3

const (
	// MinRun is the shortest row/column run that counts as a match.
	MinRun = 3
	// MinCluster is the smallest connected same-gem region cleared as a whole.
	MinCluster = 4
)

// MatchSet is a set of board coordinates. Each cell appears at most once.
type MatchSet map[Coord]struct{}

// NewMatchSet creates a set holding the given coordinates.
func NewMatchSet(coords ...Coord) MatchSet {
	s := make(MatchSet, len(coords))
	for _, c := range coords {
		s.Add(c)
	}
	return s
}

// Add inserts c.
func (s MatchSet) Add(c Coord) {
	s[c] = struct{}{}
}

// Has reports whether c is in the set.
func (s MatchSet) Has(c Coord) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of coordinates.
func (s MatchSet) Len() int {
	return len(s)
}

// Merge adds every coordinate of other.
func (s MatchSet) Merge(other MatchSet) {
	for c := range other {
		s[c] = struct{}{}
	}
}

// Sorted returns the coordinates in row-major order.
func (s MatchSet) Sorted() []Coord {
	out := make([]Coord, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sortCoords(out)
	return out
}

// Equal reports whether both sets hold the same coordinates.
func (s MatchSet) Equal(other MatchSet) bool {
	if len(s) != len(other) {
		return false
	}
	for c := range s {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

// FindRuns returns every cell that belongs to a horizontal or vertical run
// of at least MinRun equal, non-empty cells.
func FindRuns(g *Grid) MatchSet {
	runs := make(MatchSet)
	n := g.size
	for row := 0; row < n; row++ {
		scanLine(g, runs, func(i int) Coord { return At(row, i) })
	}
	for col := 0; col < n; col++ {
		scanLine(g, runs, func(i int) Coord { return At(i, col) })
	}
	return runs
}

// scanLine accumulates a streak along one row or column and records each
// run of MinRun or more when it breaks, including at the end of the line.
func scanLine(g *Grid, out MatchSet, coordAt func(i int) Coord) {
	n := g.size
	cellAt := func(i int) Cell {
		c := coordAt(i)
		return g.at(c.Row, c.Col)
	}
	record := func(end, length int) {
		for k := 0; k < length; k++ {
			out.Add(coordAt(end - k))
		}
	}

	streak := 1
	for i := 1; i < n; i++ {
		cur, prev := cellAt(i), cellAt(i-1)
		if cur.filled && cur == prev {
			streak++
			continue
		}
		if streak >= MinRun && prev.filled {
			record(i-1, streak)
		}
		streak = 1
	}
	if streak >= MinRun && cellAt(n-1).filled {
		record(n-1, streak)
	}
}

// FindMatches returns the full match set for the board: every run cell, plus
// every cell of a 4-connected same-gem cluster of at least MinCluster cells
// that contains a run cell. Each cell is visited at most once.
func FindMatches(g *Grid) MatchSet {
	base := FindRuns(g)
	if base.Len() == 0 {
		return base
	}

	matches := make(MatchSet, base.Len())
	matches.Merge(base)

	visited := make([]bool, g.size*g.size)
	stack := make([]Coord, 0, g.size*g.size)
	cluster := make([]Coord, 0, g.size*g.size)

	for _, start := range base.Sorted() {
		if visited[start.Row*g.size+start.Col] {
			continue
		}
		kind := g.at(start.Row, start.Col)
		if !kind.filled {
			continue
		}

		visited[start.Row*g.size+start.Col] = true
		stack = append(stack[:0], start)
		cluster = cluster[:0]

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cluster = append(cluster, cur)

			for _, next := range neighbours(cur) {
				if !g.InBounds(next) {
					continue
				}
				idx := next.Row*g.size + next.Col
				if visited[idx] || g.cells[idx] != kind {
					continue
				}
				visited[idx] = true
				stack = append(stack, next)
			}
		}

		if len(cluster) >= MinCluster {
			for _, c := range cluster {
				matches.Add(c)
			}
		}
	}

	return matches
}

// neighbours returns the four edge-adjacent coordinates: up, down, left, right.
func neighbours(c Coord) [4]Coord {
	return [4]Coord{
		{c.Row - 1, c.Col},
		{c.Row + 1, c.Col},
		{c.Row, c.Col - 1},
		{c.Row, c.Col + 1},
	}
}
