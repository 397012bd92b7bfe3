// internal/puzzle/place.go
//
// Entries, cells and placements, plus the placement checker and writer
// shared by both generators.

package puzzle

import (
	"fmt"
	"strconv"
	"strings"
)

// Entry is one word offered to a generator.
type Entry struct {
	ID   string `json:"id"`
	Text string `json:"text"`           // display form, e.g. "Use a fork"
	Hint string `json:"hint,omitempty"` // clue shown to the player
	Word string `json:"-"`              // Clean(Text); what actually goes on the grid
}

// NewEntry builds an Entry, deriving Word from text.
func NewEntry(id, text, hint string) Entry {
	return Entry{ID: id, Text: text, Hint: hint, Word: Clean(text)}
}

// Clean lowercases s and drops everything that is not an ASCII letter.
func Clean(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := lower(s[i])
		if ch >= 'a' && ch <= 'z' {
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

// usable drops entries whose clean word is empty, re-deriving Word when a
// caller left it unset.
func usable(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Word == "" {
			e.Word = Clean(e.Text)
		}
		if e.Word != "" {
			out = append(out, e)
		}
	}
	return out
}

// Cell addresses one grid square.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Key renders the cell as "row-col", the form used for crossword inputs.
func (c Cell) Key() string { return strconv.Itoa(c.Row) + "-" + strconv.Itoa(c.Col) }

// ParseCell is the inverse of Cell.Key.
func ParseCell(key string) (Cell, error) {
	r, c, ok := strings.Cut(key, "-")
	if !ok {
		return Cell{}, fmt.Errorf("cell key %q: missing separator", key)
	}
	row, err := strconv.Atoi(r)
	if err != nil {
		return Cell{}, fmt.Errorf("cell key %q: %w", key, err)
	}
	col, err := strconv.Atoi(c)
	if err != nil {
		return Cell{}, fmt.Errorf("cell key %q: %w", key, err)
	}
	return Cell{Row: row, Col: col}, nil
}

// Placement records where an entry lives on the grid.
type Placement struct {
	Entry     Entry     `json:"entry"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Direction Direction `json:"direction"`
	Number    int       `json:"number,omitempty"` // crossword clue number, placement order
}

// Cells lists the squares the placement covers, first letter first.
func (p Placement) Cells() []Cell {
	dr, dc := p.Direction.step()
	out := make([]Cell, len(p.Entry.Word))
	for i := range out {
		out[i] = Cell{Row: p.Row + i*dr, Col: p.Col + i*dc}
	}
	return out
}

// Start is the cell holding the first letter.
func (p Placement) Start() Cell { return Cell{Row: p.Row, Col: p.Col} }

// End is the cell holding the last letter.
func (p Placement) End() Cell {
	dr, dc := p.Direction.step()
	n := len(p.Entry.Word) - 1
	return Cell{Row: p.Row + n*dr, Col: p.Col + n*dc}
}

// CanPlace reports whether word fits at (row, col) running along dir: the
// whole run is inside the grid and every cell on it is Empty or already
// holds the same letter. Empty words never fit.
func CanPlace(g *Grid, word string, row, col int, dir Direction) bool {
	n := len(word)
	if n == 0 {
		return false
	}
	dr, dc := dir.step()
	if !g.InBounds(row, col) || !g.InBounds(row+(n-1)*dr, col+(n-1)*dc) {
		return false
	}
	for i := 0; i < n; i++ {
		cell := g.Get(row+i*dr, col+i*dc)
		if cell != Empty && cell != lower(word[i]) {
			return false
		}
	}
	return true
}

// Place writes word onto the grid without any checks. Call CanPlace first.
func Place(g *Grid, word string, row, col int, dir Direction) {
	dr, dc := dir.step()
	for i := 0; i < len(word); i++ {
		g.Set(row+i*dr, col+i*dc, lower(word[i]))
	}
}

func lower(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}
