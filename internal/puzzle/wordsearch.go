// internal/puzzle/wordsearch.go
//
// Word-search layout: random straight placements, noise fill and
// selection matching.

package puzzle

import (
	"errors"

	"github.com/rs/zerolog/log"
)

const letters = "abcdefghijklmnopqrstuvwxyz"

var (
	ErrNotStraight = errors.New("selection must share a row or a column")
	ErrOutOfBounds = errors.New("selection outside the grid")
)

// WordSearch is a generated word-search layout.
type WordSearch struct {
	Grid       *Grid
	Placements []Placement // placed words, in input order
	Skipped    []Entry     // words that found no spot within the attempt budget
}

// WordSearch lays out up to WordSearchBatchSize entries on a fresh grid.
//
// Each word gets MaxAttempts random (direction, origin) trials and takes the
// first one CanPlace accepts; a word that runs out of trials is skipped, not
// reported as an error. Remaining Empty cells are filled with random letters.
func (g *Generator) WordSearch(entries []Entry) (*WordSearch, error) {
	if len(entries) > WordSearchBatchSize {
		return nil, ErrBatchTooLarge
	}
	entries = usable(entries)
	if len(entries) == 0 {
		return nil, ErrNoWords
	}

	size := g.options.WordSearchSize
	ws := &WordSearch{Grid: NewGrid(size)}

	for _, e := range entries {
		placed := false
		for attempt := 0; attempt < g.options.MaxAttempts; attempt++ {
			dir := Across
			if g.rng.Intn(2) == 1 {
				dir = Down
			}
			row, col := g.rng.Intn(size), g.rng.Intn(size)
			if CanPlace(ws.Grid, e.Word, row, col, dir) {
				Place(ws.Grid, e.Word, row, col, dir)
				ws.Placements = append(ws.Placements, Placement{Entry: e, Row: row, Col: col, Direction: dir})
				placed = true
				break
			}
		}
		if !placed {
			log.Debug().Str("word", e.Word).Int("attempts", g.options.MaxAttempts).Msg("word search: word skipped")
			ws.Skipped = append(ws.Skipped, e)
		}
	}

	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if ws.Grid.Get(r, c) == Empty {
				ws.Grid.Set(r, c, letters[g.rng.Intn(len(letters))])
			}
		}
	}
	return ws, nil
}

// Find matches a two-endpoint selection against the placed words.
//
// The endpoints must share a row or column; the run between them (inclusive)
// is compared with every placed word not in found, read forwards and
// backwards. The first match wins. ok is false when nothing matches.
func (ws *WordSearch) Find(start, end Cell, found map[string]bool) (p Placement, ok bool, err error) {
	if !ws.Grid.InBounds(start.Row, start.Col) || !ws.Grid.InBounds(end.Row, end.Col) {
		return Placement{}, false, ErrOutOfBounds
	}
	line, straight := ws.Grid.Line(start, end)
	if !straight {
		return Placement{}, false, ErrNotStraight
	}
	line = Clean(line)
	rev := reverse(line)
	for _, p := range ws.Placements {
		if found[p.Entry.ID] {
			continue
		}
		if p.Entry.Word == line || p.Entry.Word == rev {
			return p, true, nil
		}
	}
	return Placement{}, false, nil
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
