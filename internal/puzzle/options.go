// internal/puzzle/options.go
//
// Generator options, size/batch constants and sentinel errors.

package puzzle

import (
	"errors"
	"math/rand"
	"time"
)

const (
	WordSearchSize      = 10
	CrosswordSize       = 11
	WordSearchBatchSize = 6
	CrosswordBatchSize  = 5

	// MaxPlacementAttempts bounds the random trials spent on one word-search word.
	MaxPlacementAttempts = 100
)

var (
	ErrNoWords       = errors.New("no placeable words in batch")
	ErrBatchTooLarge = errors.New("batch exceeds the generator's word limit")
)

// Options configures layout generation.
type Options struct {
	WordSearchSize int   // edge of the word-search grid
	CrosswordSize  int   // edge of the crossword grid
	MaxAttempts    int   // random trials per word-search word
	Seed           int64 // seed for reproducible layouts (0 = random)
}

// DefaultOptions returns the sizes the games are played at.
func DefaultOptions() *Options {
	return &Options{
		WordSearchSize: WordSearchSize,
		CrosswordSize:  CrosswordSize,
		MaxAttempts:    MaxPlacementAttempts,
	}
}

// Generator builds word-search and crossword layouts.
// A Generator is not safe for concurrent use.
type Generator struct {
	options *Options
	rng     *rand.Rand
}

// New creates a layout generator with the given options.
func New(options *Options) *Generator {
	if options == nil {
		options = DefaultOptions()
	}
	opts := *options
	if opts.WordSearchSize <= 0 {
		opts.WordSearchSize = WordSearchSize
	}
	if opts.CrosswordSize <= 0 {
		opts.CrosswordSize = CrosswordSize
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = MaxPlacementAttempts
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		options: &opts,
		rng:     rand.New(rand.NewSource(seed)),
	}
}
