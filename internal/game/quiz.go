// internal/game/quiz.go
//
// Round controller for the multiple-choice games (detective, fill_blank,
// hidden_treasure).
//
// Notes:
//   - A wrong choice keeps the player on the same question; only a correct
//     one moves on. The session finishes after the last question.
//   - Answers never leave the server; the view carries the current question
//     without its answer.

package game

import (
	"errors"
	"time"

	"github.com/robalobadob/treehouse/internal/catalog"
	"github.com/robalobadob/treehouse/internal/quiz"
	"github.com/robalobadob/treehouse/internal/words"
)

var ErrInvalidChoice = errors.New("choice is not one of the options")

// Quiz holds the state of a multiple-choice session.
type Quiz struct {
	session
	Game      catalog.GameType
	questions []quiz.Question
	attempts  int
	mistakes  int
}

// AnswerResult is returned from Quiz.Answer.
type AnswerResult struct {
	Correct  bool  `json:"correct"`
	State    State `json:"state"`
	Attempts int   `json:"attempts"`
	Mistakes int   `json:"mistakes"`
}

// QuizView is the client snapshot of a quiz session.
type QuizView struct {
	ID        string           `json:"gameId"`
	Game      catalog.GameType `json:"game"`
	Question  int              `json:"question"` // 1-based
	Questions int              `json:"questions"`
	State     State            `json:"state"`
	Mistakes  int              `json:"mistakes"`
	Current   *quiz.Question   `json:"current,omitempty"`
}

// NewQuiz starts a quiz for game over items. opts.MaxRounds caps the number
// of questions.
func NewQuiz(player string, game catalog.GameType, items []words.Item, opts Options) (*Quiz, error) {
	rng := newRand(opts.Seed)
	qs, err := quiz.New(nonZero(rng.Int63())).Questions(game, items, opts.MaxRounds)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, ErrNoRounds
	}
	now := time.Now()
	return &Quiz{
		session:   session{ID: randomID(), Player: player, Started: now, Touched: now},
		Game:      game,
		questions: qs,
	}, nil
}

// Answer checks choice (an option id) against the current question.
func (g *Quiz) Answer(choice string) (AnswerResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Finished {
		return AnswerResult{State: StateFinished, Attempts: g.attempts, Mistakes: g.mistakes}, ErrFinished
	}
	q := g.questions[g.Round]
	if !q.Has(choice) {
		return AnswerResult{State: StatePlaying, Attempts: g.attempts, Mistakes: g.mistakes}, ErrInvalidChoice
	}
	g.Touched = time.Now()
	g.attempts++

	res := AnswerResult{State: StatePlaying}
	if choice == q.Answer {
		res.Correct = true
		g.Round++
		res.State = StateRoundComplete
		if g.Round == len(g.questions) {
			g.Finished = true
			res.State = StateFinished
		}
	} else {
		g.mistakes++
	}
	res.Attempts, res.Mistakes = g.attempts, g.mistakes
	return res, nil
}

// IsFinished reports whether every question has been answered.
func (g *Quiz) IsFinished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Finished
}

// View snapshots the session for clients.
func (g *Quiz) View() QuizView {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := QuizView{
		ID:        g.ID,
		Game:      g.Game,
		Question:  min(g.Round+1, len(g.questions)),
		Questions: len(g.questions),
		State:     StatePlaying,
		Mistakes:  g.mistakes,
	}
	if g.Finished {
		v.State = StateFinished
		return v
	}
	q := g.questions[g.Round]
	v.Current = &q
	return v
}

// Answers returns the remaining answers in order.
func (g *Quiz) Answers() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for _, q := range g.questions[min(g.Round, len(g.questions)):] {
		out = append(out, q.Answer)
	}
	return out
}
