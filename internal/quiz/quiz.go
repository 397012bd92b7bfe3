// internal/quiz/quiz.go
//
// Multiple-choice question generation for the quiz-style mini-games.
//
// Games:
//   - detective:       an emoji; pick its English word among 4 options.
//   - fill_blank:      a sentence with a gap; pick the phrase that fits.
//     Distractors come from the same category when there are enough.
//   - hidden_treasure: 3 items are shown, one goes missing; pick it among
//     the missing item and 2 items from outside the set.
//
// Notes:
//   - All shuffles are uniform (rand.Shuffle) over a seeded *rand.Rand, so
//     a seed reproduces the same questions.
//   - Answers stay on the server; Question.Answer is never serialized.

package quiz

import (
	"errors"
	"math/rand"
	"time"

	"github.com/robalobadob/treehouse/internal/catalog"
	"github.com/robalobadob/treehouse/internal/words"
)

const (
	Choices             = 4 // options per detective / fill_blank question
	TreasureSetSize     = 3
	TreasureDistractors = 2
	TreasureRounds      = 5
)

var (
	ErrUnsupported     = errors.New("game has no quiz")
	ErrNotEnoughWords  = errors.New("not enough words for a question")
	ErrInvalidQuestion = errors.New("question count must not be negative")
)

// Option is one answer button.
type Option struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Emoji string `json:"emoji,omitempty"`
}

// Question is one multiple-choice step.
type Question struct {
	Prompt  string   `json:"prompt"`          // sentence clue for fill_blank
	Emoji   string   `json:"emoji,omitempty"` // detective and fill_blank picture
	Set     []Option `json:"set,omitempty"`   // hidden_treasure items to memorize
	Options []Option `json:"options"`
	Answer  string   `json:"-"` // id of the correct option
}

// Has reports whether id is one of the question's options.
func (q Question) Has(id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// Supported reports whether game has a quiz generator.
func Supported(game catalog.GameType) bool {
	switch game {
	case catalog.Detective, catalog.FillBlank, catalog.HiddenTreasure:
		return true
	}
	return false
}

// Generator builds questions from a seeded random source.
type Generator struct {
	rng *rand.Rand
}

// New returns a Generator; seed 0 means time based.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Questions builds up to n questions for game (n <= 0 means the default:
// one per item for detective and fill_blank, TreasureRounds for
// hidden_treasure).
func (g *Generator) Questions(game catalog.GameType, items []words.Item, n int) ([]Question, error) {
	if n < 0 {
		return nil, ErrInvalidQuestion
	}
	switch game {
	case catalog.Detective:
		return g.Detective(items, n)
	case catalog.FillBlank:
		return g.FillBlank(items, n)
	case catalog.HiddenTreasure:
		if n == 0 {
			n = TreasureRounds
		}
		return g.HiddenTreasure(items, n)
	}
	return nil, ErrUnsupported
}

// Detective asks for the English word behind each item's emoji.
func (g *Generator) Detective(items []words.Item, n int) ([]Question, error) {
	if len(items) < Choices {
		return nil, ErrNotEnoughWords
	}
	targets := take(g.shuffle(items), n)
	out := make([]Question, 0, len(targets))
	for _, it := range targets {
		distractors := take(g.shuffle(without(items, it.ID)), Choices-1)
		out = append(out, Question{
			Emoji:   it.Emoji,
			Options: g.options(it, distractors, false),
			Answer:  it.ID,
		})
	}
	return out, nil
}

// FillBlank asks which item completes each item's sentence clue.
// Distractors share the target's category, topped up from the rest.
func (g *Generator) FillBlank(items []words.Item, n int) ([]Question, error) {
	if len(items) < Choices {
		return nil, ErrNotEnoughWords
	}
	targets := take(g.shuffle(items), n)
	out := make([]Question, 0, len(targets))
	for _, it := range targets {
		others := g.shuffle(without(items, it.ID))
		distractors := make([]words.Item, 0, Choices-1)
		for _, o := range others {
			if o.Category == it.Category && len(distractors) < Choices-1 {
				distractors = append(distractors, o)
			}
		}
		for _, o := range others {
			if len(distractors) == Choices-1 {
				break
			}
			if o.Category != it.Category {
				distractors = append(distractors, o)
			}
		}
		prompt := it.SentenceClue
		if prompt == "" {
			prompt = "___"
		}
		out = append(out, Question{
			Prompt:  prompt,
			Emoji:   it.Emoji,
			Options: g.options(it, distractors, false),
			Answer:  it.ID,
		})
	}
	return out, nil
}

// HiddenTreasure builds n memory rounds: a set of TreasureSetSize items, one
// of which goes missing, to be picked among TreasureDistractors outsiders.
func (g *Generator) HiddenTreasure(items []words.Item, n int) ([]Question, error) {
	if len(items) < TreasureSetSize+TreasureDistractors {
		return nil, ErrNotEnoughWords
	}
	out := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		shuffled := g.shuffle(items)
		set := shuffled[:TreasureSetSize]
		missing := set[g.rng.Intn(len(set))]
		outside := g.shuffle(shuffled[TreasureSetSize:])[:TreasureDistractors]

		q := Question{Options: g.options(missing, outside, true), Answer: missing.ID}
		for _, it := range set {
			q.Set = append(q.Set, option(it, true))
		}
		out = append(out, q)
	}
	return out, nil
}

// options returns answer plus distractors in uniform random order. Emojis
// are left off where the prompt itself is the emoji.
func (g *Generator) options(answer words.Item, distractors []words.Item, emoji bool) []Option {
	opts := make([]Option, 0, len(distractors)+1)
	opts = append(opts, option(answer, emoji))
	for _, d := range distractors {
		opts = append(opts, option(d, emoji))
	}
	g.rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	return opts
}

func (g *Generator) shuffle(items []words.Item) []words.Item {
	out := append([]words.Item(nil), items...)
	g.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func option(it words.Item, emoji bool) Option {
	o := Option{ID: it.ID, Text: it.En}
	if emoji {
		o.Emoji = it.Emoji
	}
	return o
}

func without(items []words.Item, id string) []words.Item {
	out := make([]words.Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// take returns the first n items, or all of them when n <= 0 or too large.
func take(items []words.Item, n int) []words.Item {
	if n <= 0 || n > len(items) {
		return items
	}
	return items[:n]
}
