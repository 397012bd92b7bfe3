// internal/puzzle/grid.go
//
// Grid is the square letter buffer shared by the word-search and crossword
// layouts. Cells start out Empty and only ever hold lowercase a–z once a
// word (or noise) has been written into them.

package puzzle

import "strings"

// Empty is the sentinel held by cells no word has claimed yet.
const Empty byte = 0

// Direction is the axis a word runs along.
type Direction string

const (
	Across Direction = "across"
	Down   Direction = "down"
)

// step returns the row/col delta for one character along d.
func (d Direction) step() (dr, dc int) {
	if d == Down {
		return 1, 0
	}
	return 0, 1
}

// Perpendicular returns the other axis.
func (d Direction) Perpendicular() Direction {
	if d == Across {
		return Down
	}
	return Across
}

// Grid is an N×N mutable character matrix.
type Grid struct {
	size  int
	cells [][]byte
}

// NewGrid allocates a size×size grid with every cell Empty.
func NewGrid(size int) *Grid {
	cells := make([][]byte, size)
	for i := range cells {
		cells[i] = make([]byte, size)
	}
	return &Grid{size: size, cells: cells}
}

// Size is the grid's edge length.
func (g *Grid) Size() int { return g.size }

// InBounds reports whether (row, col) lies inside the grid.
// Get and Set do not check; callers guard with this.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.size && col >= 0 && col < g.size
}

// Get returns the character at (row, col) or Empty.
func (g *Grid) Get(row, col int) byte { return g.cells[row][col] }

// Set overwrites the cell at (row, col).
func (g *Grid) Set(row, col int, ch byte) { g.cells[row][col] = ch }

// Full reports whether no cell is Empty.
func (g *Grid) Full() bool {
	for _, row := range g.cells {
		for _, ch := range row {
			if ch == Empty {
				return false
			}
		}
	}
	return true
}

// Rows returns the grid as one string per row; Empty cells become "".
func (g *Grid) Rows() [][]string {
	out := make([][]string, g.size)
	for r, row := range g.cells {
		out[r] = make([]string, g.size)
		for c, ch := range row {
			if ch != Empty {
				out[r][c] = string(ch)
			}
		}
	}
	return out
}

// Line reads the straight run between two cells (inclusive) that share a
// row or a column. ok is false for diagonal or out-of-range endpoints.
func (g *Grid) Line(start, end Cell) (s string, ok bool) {
	if !g.InBounds(start.Row, start.Col) || !g.InBounds(end.Row, end.Col) {
		return "", false
	}
	dr, dc := sign(end.Row-start.Row), sign(end.Col-start.Col)
	if dr != 0 && dc != 0 {
		return "", false
	}
	n := max(abs(end.Row-start.Row), abs(end.Col-start.Col)) + 1
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[i] = g.cells[start.Row+i*dr][start.Col+i*dc]
	}
	return string(b), true
}

// String renders the grid for terminals, with '.' for Empty cells.
func (g *Grid) String() string {
	var sb strings.Builder
	for _, row := range g.cells {
		for c, ch := range row {
			if c > 0 {
				sb.WriteByte(' ')
			}
			if ch == Empty {
				ch = '.'
			}
			sb.WriteByte(ch)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
