// internal/puzzle/crossword.go
//
// Crossword layout: anchored first word, perpendicular intersections,
// clue numbering in placement order and per-cell answer checking.

package puzzle

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// Crossword is a generated crossword layout. Grid cells no word uses stay
// Empty and are the puzzle's black squares.
type Crossword struct {
	Grid       *Grid
	Placements []Placement // placed words; Number follows placement order
	Dropped    []Entry     // words with no valid intersection
}

// Crossword interlocks up to CrosswordBatchSize entries.
//
// The first word that fits runs across the middle row, centred. Every later
// word is tried against the already placed words in order: for each letter
// of a placed word and each matching letter of the candidate, the
// perpendicular placement through that shared cell is checked, and the first
// one CanPlace accepts is taken. Words with no such spot are dropped.
func (g *Generator) Crossword(entries []Entry) (*Crossword, error) {
	if len(entries) > CrosswordBatchSize {
		return nil, ErrBatchTooLarge
	}
	entries = usable(entries)
	if len(entries) == 0 {
		return nil, ErrNoWords
	}

	size := g.options.CrosswordSize
	cw := &Crossword{Grid: NewGrid(size)}

	for _, e := range entries {
		var (
			p  Placement
			ok bool
		)
		if len(cw.Placements) == 0 {
			p, ok = cw.anchor(e)
		} else {
			p, ok = cw.intersect(e)
		}
		if !ok {
			log.Debug().Str("word", e.Word).Msg("crossword: word dropped")
			cw.Dropped = append(cw.Dropped, e)
			continue
		}
		Place(cw.Grid, e.Word, p.Row, p.Col, p.Direction)
		p.Number = len(cw.Placements) + 1
		cw.Placements = append(cw.Placements, p)
	}
	return cw, nil
}

// anchor centres the first word across the middle row.
func (cw *Crossword) anchor(e Entry) (Placement, bool) {
	size := cw.Grid.Size()
	row := size / 2
	col := max(0, (size-len(e.Word))/2)
	if !CanPlace(cw.Grid, e.Word, row, col, Across) {
		return Placement{}, false
	}
	return Placement{Entry: e, Row: row, Col: col, Direction: Across}, true
}

// intersect finds the first perpendicular crossing with a placed word.
func (cw *Crossword) intersect(e Entry) (Placement, bool) {
	for _, placed := range cw.Placements {
		dir := placed.Direction.Perpendicular()
		for _, shared := range placed.Cells() {
			ch := cw.Grid.Get(shared.Row, shared.Col)
			for j := 0; j < len(e.Word); j++ {
				if e.Word[j] != ch {
					continue
				}
				row, col := shared.Row, shared.Col-j
				if dir == Down {
					row, col = shared.Row-j, shared.Col
				}
				if CanPlace(cw.Grid, e.Word, row, col, dir) {
					return Placement{Entry: e, Row: row, Col: col, Direction: dir}, true
				}
			}
		}
	}
	return Placement{}, false
}

// Across returns the across placements in clue-number order.
func (cw *Crossword) Across() []Placement { return cw.byDirection(Across) }

// Down returns the down placements in clue-number order.
func (cw *Crossword) Down() []Placement { return cw.byDirection(Down) }

func (cw *Crossword) byDirection(d Direction) []Placement {
	var out []Placement
	for _, p := range cw.Placements {
		if p.Direction == d {
			out = append(out, p)
		}
	}
	return out
}

// CheckResult reports how a set of crossword inputs compares to the answers.
type CheckResult struct {
	Complete bool   `json:"complete"`
	Solved   []int  `json:"solved"` // clue numbers whose every cell matches
	Wrong    []Cell `json:"wrong"`  // answer cells that are blank or incorrect
}

// Check compares per-cell inputs with every placed word. Input values are
// case-insensitive; only their last character counts. The puzzle is
// Complete when every cell of every placement matches.
func (cw *Crossword) Check(inputs map[Cell]string) CheckResult {
	res := CheckResult{Solved: []int{}, Wrong: []Cell{}}
	wrong := make(map[Cell]bool)
	for _, p := range cw.Placements {
		ok := true
		for i, cell := range p.Cells() {
			if normalizeInput(inputs[cell]) != p.Entry.Word[i] {
				ok = false
				if !wrong[cell] {
					wrong[cell] = true
					res.Wrong = append(res.Wrong, cell)
				}
			}
		}
		if ok {
			res.Solved = append(res.Solved, p.Number)
		}
	}
	res.Complete = len(cw.Placements) > 0 && len(res.Solved) == len(cw.Placements)
	return res
}

// normalizeInput keeps the last character of v, lowercased; Empty if none.
func normalizeInput(v string) byte {
	v = strings.TrimSpace(v)
	if v == "" {
		return Empty
	}
	return lower(v[len(v)-1])
}
