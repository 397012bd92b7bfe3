// internal/words/words.go
//
// Vocabulary list management for the puzzle games.
//
// Responsibilities:
//   - Load the word list from WORDS_FILE (JSON) or fall back to the embedded
//     25-item list in assets/words.json.
//   - Convert items into puzzle entries (clean word + clue text).
//   - Uniform shuffling and batching for rounds.
//
// Constraints:
//   • IDs must be unique and non-empty.
//   • Items whose text has no letters are kept for display but never become
//     puzzle entries.

package words

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/treehouse/assets"
	"github.com/robalobadob/treehouse/internal/puzzle"
)

// Category groups items the way the review screen lists them.
type Category string

const (
	CategoryPhrase Category = "phrase"
	CategoryVocab  Category = "vocab"
)

// Item is one vocabulary entry.
type Item struct {
	ID           string   `json:"id"`
	En           string   `json:"en"`
	Ch           string   `json:"ch"`
	IPA          string   `json:"ipa,omitempty"`
	Emoji        string   `json:"emoji,omitempty"`
	Category     Category `json:"category"`
	SentenceClue string   `json:"sentenceClue,omitempty"`
}

// Entry converts the item into a puzzle entry. The clue is the emoji and
// Chinese gloss, which is what the crossword shows next to each number.
func (it Item) Entry() puzzle.Entry {
	hint := strings.TrimSpace(it.Emoji + " " + it.Ch)
	return puzzle.NewEntry(it.ID, it.En, hint)
}

var (
	defaultOnce  sync.Once
	defaultItems []Item
	defaultErr   error
)

// Default returns the embedded word list, parsed once.
func Default() ([]Item, error) {
	defaultOnce.Do(func() {
		raw, err := assets.WordList()
		if err != nil {
			defaultErr = err
			return
		}
		defaultItems, defaultErr = parse(raw)
	})
	return defaultItems, defaultErr
}

// Load reads the list from path, or returns Default when path is empty.
func Load(path string) ([]Item, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word file: %w", err)
	}
	items, err := parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

func parse(raw []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode word list: %w", err)
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ID == "" {
			return nil, fmt.Errorf("word %q: missing id", it.En)
		}
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("word %q: duplicate id %s", it.En, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	if len(items) == 0 {
		return nil, errors.New("words: list is empty")
	}
	return items, nil
}

// Entries converts items to puzzle entries, dropping ones with no letters.
func Entries(items []Item) []puzzle.Entry {
	out := make([]puzzle.Entry, 0, len(items))
	for _, it := range items {
		if e := it.Entry(); e.Word != "" {
			out = append(out, e)
		}
	}
	return out
}

// Shuffle returns a uniformly shuffled copy of entries.
func Shuffle(entries []puzzle.Entry, rng *rand.Rand) []puzzle.Entry {
	out := append([]puzzle.Entry(nil), entries...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Batches splits entries into consecutive groups of size; the last group may
// be shorter.
func Batches(entries []puzzle.Entry, size int) [][]puzzle.Entry {
	if size <= 0 {
		return nil
	}
	var out [][]puzzle.Entry
	for i := 0; i < len(entries); i += size {
		out = append(out, entries[i:min(i+size, len(entries))])
	}
	return out
}

// Filter returns the items in cat.
func Filter(items []Item, cat Category) []Item {
	var out []Item
	for _, it := range items {
		if it.Category == cat {
			out = append(out, it)
		}
	}
	return out
}
