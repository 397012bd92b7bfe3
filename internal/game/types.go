// internal/game/types.go
//
// Shared types for the puzzle round controllers.
// Defines:
//   - State: coarse session state reported to clients.
//   - Options: seed and round limit for a new session.
//   - Views returned to clients (answers are never included for crosswords).

package game

import (
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/treehouse/internal/puzzle"
)

// State is the coarse progress of a session.
type State string

const (
	StatePlaying       State = "playing"
	StateRoundComplete State = "round_complete" // the last action finished a round
	StateFinished      State = "finished"
)

var (
	ErrFinished = errors.New("game finished")
	ErrNoRounds = errors.New("no playable rounds")
)

// maxRegenerations bounds how often a round with nothing placed is rebuilt
// before the batch is skipped.
const maxRegenerations = 3

// Options configures a new session.
type Options struct {
	Seed      int64 // 0 = random
	MaxRounds int   // 0 = one round per batch
}

// WordView is a word the player is looking for.
type WordView struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Found bool   `json:"found,omitempty"`
}

// WordSearchView is the client snapshot of a word-search session.
type WordSearchView struct {
	ID     string             `json:"gameId"`
	Round  int                `json:"round"` // 1-based
	Rounds int                `json:"rounds"`
	State  State              `json:"state"`
	Grid   [][]string         `json:"grid"`
	Words  []WordView         `json:"words"`
	Found  []puzzle.Placement `json:"found"`
}

// ClueView is one numbered crossword clue.
type ClueView struct {
	Number int    `json:"number"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Length int    `json:"length"`
	Hint   string `json:"hint"`
	Text   string `json:"text,omitempty"` // only once solved
}

// CrosswordView is the client snapshot of a crossword session. Open marks
// answer cells; everything else is a black square.
type CrosswordView struct {
	ID     string     `json:"gameId"`
	Round  int        `json:"round"`
	Rounds int        `json:"rounds"`
	State  State      `json:"state"`
	Size   int        `json:"size"`
	Open   [][]bool   `json:"open"`
	Across []ClueView `json:"across"`
	Down   []ClueView `json:"down"`
}

// session carries what both controllers share.
type session struct {
	mu       sync.Mutex
	ID       string
	Player   string
	Started  time.Time
	Touched  time.Time
	Round    int // 0-based batch index
	Finished bool
}

// SessionID implements store.Session.
func (s *session) SessionID() string { return s.ID }

// Owner is the player the session belongs to.
func (s *session) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Player
}

// Reassign hands the session to player to when it currently belongs to
// from, e.g. once a guest signs in. It reports whether ownership changed.
func (s *session) Reassign(from, to string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if from == "" || to == "" || s.Player != from {
		return false
	}
	s.Player = to
	return true
}

// LastActive implements store.Session.
func (s *session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Touched
}
