// internal/game/crossword.go
//
// Round controller for the Crossword game: batches of five words, one
// interlocked grid per batch, advance when every word is correct.

package game

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/treehouse/internal/puzzle"
	"github.com/robalobadob/treehouse/internal/words"
)

// Crossword holds the state of a crossword session: batches of five words,
// one interlocked grid per batch.
type Crossword struct {
	session
	batches [][]puzzle.Entry
	gen     *puzzle.Generator
	puzzle  *puzzle.Crossword
	solved  map[int]bool
	checks  int
}

// CheckResult is returned from Crossword.Check.
type CheckResult struct {
	puzzle.CheckResult
	State  State `json:"state"`
	Checks int   `json:"checks"`
}

// NewCrossword starts a crossword session over entries for player.
func NewCrossword(player string, entries []puzzle.Entry, opts Options) (*Crossword, error) {
	rng := newRand(opts.Seed)
	batches := words.Batches(words.Shuffle(entries, rng), puzzle.CrosswordBatchSize)
	if opts.MaxRounds > 0 && len(batches) > opts.MaxRounds {
		batches = batches[:opts.MaxRounds]
	}
	now := time.Now()
	g := &Crossword{
		session: session{ID: randomID(), Player: player, Started: now, Touched: now},
		batches: batches,
		gen:     puzzle.New(&puzzle.Options{Seed: nonZero(rng.Int63())}),
	}
	if !g.startRound() {
		return nil, ErrNoRounds
	}
	return g, nil
}

// startRound lays out the current batch. The crossword generator is
// deterministic for a batch, so a batch that places nothing is skipped.
func (g *Crossword) startRound() bool {
	for ; g.Round < len(g.batches); g.Round++ {
		cw, err := g.gen.Crossword(g.batches[g.Round])
		if err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Int("round", g.Round).Msg("crossword round skipped")
			continue
		}
		if len(cw.Placements) == 0 {
			continue
		}
		g.puzzle = cw
		g.solved = make(map[int]bool)
		return true
	}
	g.Finished = true
	return false
}

// Check compares the player's per-cell inputs with the current round. When
// every placed word matches, the session moves to the next round.
func (g *Crossword) Check(inputs map[puzzle.Cell]string) (CheckResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Finished {
		return CheckResult{State: StateFinished, Checks: g.checks}, ErrFinished
	}
	g.Touched = time.Now()
	g.checks++

	res := CheckResult{CheckResult: g.puzzle.Check(inputs), State: StatePlaying, Checks: g.checks}
	for _, n := range res.Solved {
		g.solved[n] = true
	}
	if res.Complete {
		g.Round++
		res.State = StateRoundComplete
		if !g.startRound() {
			res.State = StateFinished
		}
	}
	return res, nil
}

// IsFinished reports whether every round has been solved.
func (g *Crossword) IsFinished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Finished
}

// View snapshots the session without revealing unsolved answers.
func (g *Crossword) View() CrosswordView {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := CrosswordView{
		ID:     g.ID,
		Round:  min(g.Round+1, len(g.batches)),
		Rounds: len(g.batches),
		State:  StatePlaying,
		Across: []ClueView{},
		Down:   []ClueView{},
	}
	if g.Finished {
		v.State = StateFinished
		return v
	}
	grid := g.puzzle.Grid
	v.Size = grid.Size()
	v.Open = make([][]bool, v.Size)
	for r := range v.Open {
		v.Open[r] = make([]bool, v.Size)
		for c := range v.Open[r] {
			v.Open[r][c] = grid.Get(r, c) != puzzle.Empty
		}
	}
	for _, p := range g.puzzle.Placements {
		cv := ClueView{Number: p.Number, Row: p.Row, Col: p.Col, Length: len(p.Entry.Word), Hint: p.Entry.Hint}
		if g.solved[p.Number] {
			cv.Text = p.Entry.Text
		}
		if p.Direction == puzzle.Across {
			v.Across = append(v.Across, cv)
		} else {
			v.Down = append(v.Down, cv)
		}
	}
	return v
}

// Placements returns the current round's answers.
func (g *Crossword) Placements() []puzzle.Placement {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.puzzle == nil || g.Finished {
		return nil
	}
	return append([]puzzle.Placement(nil), g.puzzle.Placements...)
}
