// internal/game/engine.go
//
// Round controller for the Word Search game.
// Responsibilities:
//   - Shuffle the word list (uniform) and split it into batches of six.
//   - Generate one layout per batch and track which words were found.
//   - Advance through rounds: playing → round_complete → … → finished.
//
// Notes:
//   - A round where no word could be placed is regenerated a few times and
//     then skipped so the session cannot stall.
//   - Sessions are mutated by HTTP handlers, so every method locks.

package game

import (
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/treehouse/internal/puzzle"
	"github.com/robalobadob/treehouse/internal/words"
)

// WordSearch holds the state of a word-search session.
type WordSearch struct {
	session
	batches    [][]puzzle.Entry
	gen        *puzzle.Generator
	puzzle     *puzzle.WordSearch
	found      map[string]bool
	foundOrder []puzzle.Placement
	selections int
}

// SelectResult is returned from WordSearch.Select.
type SelectResult struct {
	Match      *puzzle.Placement `json:"match,omitempty"`
	State      State             `json:"state"`
	Selections int               `json:"selections"`
}

// NewWordSearch starts a session over entries for player.
func NewWordSearch(player string, entries []puzzle.Entry, opts Options) (*WordSearch, error) {
	rng := newRand(opts.Seed)
	batches := words.Batches(words.Shuffle(entries, rng), puzzle.WordSearchBatchSize)
	if opts.MaxRounds > 0 && len(batches) > opts.MaxRounds {
		batches = batches[:opts.MaxRounds]
	}
	now := time.Now()
	g := &WordSearch{
		session: session{ID: randomID(), Player: player, Started: now, Touched: now},
		batches: batches,
		gen:     puzzle.New(&puzzle.Options{Seed: nonZero(rng.Int63())}),
	}
	if !g.startRound() {
		return nil, ErrNoRounds
	}
	return g, nil
}

// startRound builds the layout for the current batch, skipping batches that
// cannot place anything. It reports false once the batches run out.
func (g *WordSearch) startRound() bool {
	for ; g.Round < len(g.batches); g.Round++ {
		for try := 0; try < maxRegenerations; try++ {
			ws, err := g.gen.WordSearch(g.batches[g.Round])
			if err != nil {
				log.Warn().Err(err).Str("gameId", g.ID).Int("round", g.Round).Msg("word search round skipped")
				break
			}
			if len(ws.Placements) > 0 {
				g.puzzle = ws
				g.found = make(map[string]bool)
				g.foundOrder = nil
				return true
			}
		}
	}
	g.Finished = true
	return false
}

// Select checks a two-endpoint selection against the current round.
// A selection that is not a straight line is an error; one that simply does
// not spell a hidden word is not.
func (g *WordSearch) Select(start, end puzzle.Cell) (SelectResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Finished {
		return SelectResult{State: StateFinished, Selections: g.selections}, ErrFinished
	}
	g.Touched = time.Now()
	p, ok, err := g.puzzle.Find(start, end, g.found)
	if err != nil {
		return SelectResult{State: g.state(), Selections: g.selections}, err
	}
	g.selections++
	res := SelectResult{State: StatePlaying}
	if ok {
		g.found[p.Entry.ID] = true
		g.foundOrder = append(g.foundOrder, p)
		res.Match = &p
		if len(g.found) == len(g.puzzle.Placements) {
			g.Round++
			res.State = StateRoundComplete
			if !g.startRound() {
				res.State = StateFinished
			}
		}
	}
	res.Selections = g.selections
	return res, nil
}

// state reports the coarse state outside of a transition.
func (g *WordSearch) state() State {
	if g.Finished {
		return StateFinished
	}
	return StatePlaying
}

// IsFinished reports whether every round has been played.
func (g *WordSearch) IsFinished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Finished
}

// Selections is the number of straight-line selections made so far.
func (g *WordSearch) Selections() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selections
}

// View snapshots the session for clients.
func (g *WordSearch) View() WordSearchView {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := WordSearchView{
		ID:     g.ID,
		Round:  min(g.Round+1, len(g.batches)),
		Rounds: len(g.batches),
		State:  g.state(),
		Words:  []WordView{},
		Found:  []puzzle.Placement{},
	}
	if g.Finished || g.puzzle == nil {
		return v
	}
	v.Grid = g.puzzle.Grid.Rows()
	for _, p := range g.puzzle.Placements {
		v.Words = append(v.Words, WordView{ID: p.Entry.ID, Text: p.Entry.Text, Found: g.found[p.Entry.ID]})
	}
	v.Found = append(v.Found, g.foundOrder...)
	return v
}

// Placements returns the current round's hidden words (answers).
func (g *WordSearch) Placements() []puzzle.Placement {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.puzzle == nil || g.Finished {
		return nil
	}
	return append([]puzzle.Placement(nil), g.puzzle.Placements...)
}

func newRand(seed int64) *mrand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return mrand.New(mrand.NewSource(seed))
}

func nonZero(n int64) int64 {
	if n == 0 {
		return 1
	}
	return n
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
