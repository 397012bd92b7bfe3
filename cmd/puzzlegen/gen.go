// cmd/puzzlegen/gen.go
//
// Cobra commands for puzzlegen: wordsearch and crossword.

package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robalobadob/treehouse/internal/puzzle"
	"github.com/robalobadob/treehouse/internal/words"
)

type genFlags struct {
	seed      int64
	batches   int
	wordsFile string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	var f genFlags
	root := &cobra.Command{
		Use:          "puzzlegen",
		Short:        "Generate vocabulary puzzle layouts",
		SilenceUsage: true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if f.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().Int64Var(&f.seed, "seed", 0, "Random seed (0 = time based)")
	root.PersistentFlags().IntVarP(&f.batches, "batch", "n", 1, "Number of layouts to print")
	root.PersistentFlags().StringVar(&f.wordsFile, "words", os.Getenv("WORDS_FILE"), "Word list JSON (default: built-in list)")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "Log skipped words")

	root.AddCommand(&cobra.Command{
		Use:   "wordsearch",
		Short: "Generate 10x10 word searches",
		Long: `Generate word searches from consecutive batches of six shuffled words.

Examples:
  puzzlegen wordsearch
  puzzlegen wordsearch --seed 42 -n 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWordSearch(cmd.OutOrStdout(), f)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "crossword",
		Short: "Generate 11x11 crosswords",
		Long: `Generate crosswords from consecutive batches of five shuffled words.

Examples:
  puzzlegen crossword --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrossword(cmd.OutOrStdout(), f)
		},
	})
	return root
}

// batches loads the word list, shuffles it with the seed and returns the
// first n batches of size, cycling through the list if it runs short.
func batches(f genFlags, size int) (*puzzle.Generator, [][]puzzle.Entry, error) {
	if f.batches < 1 {
		return nil, nil, fmt.Errorf("--batch must be at least 1, got %d", f.batches)
	}
	items, err := words.Load(f.wordsFile)
	if err != nil {
		return nil, nil, err
	}
	seed := f.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	all := words.Batches(words.Shuffle(words.Entries(items), rng), size)
	if len(all) == 0 {
		return nil, nil, puzzle.ErrNoWords
	}
	out := make([][]puzzle.Entry, f.batches)
	for i := range out {
		out[i] = all[i%len(all)]
	}
	return puzzle.New(&puzzle.Options{Seed: seed}), out, nil
}

func runWordSearch(w io.Writer, f genFlags) error {
	gen, bs, err := batches(f, puzzle.WordSearchBatchSize)
	if err != nil {
		return err
	}
	for i, b := range bs {
		ws, err := gen.WordSearch(b)
		if err != nil {
			return fmt.Errorf("layout %d: %w", i+1, err)
		}
		fmt.Fprintf(w, "Word search %d/%d\n%s\n", i+1, len(bs), ws.Grid)
		printPlacements(w, ws.Placements)
		for _, e := range ws.Skipped {
			fmt.Fprintf(w, "  skipped: %s\n", e.Text)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func runCrossword(w io.Writer, f genFlags) error {
	gen, bs, err := batches(f, puzzle.CrosswordBatchSize)
	if err != nil {
		return err
	}
	for i, b := range bs {
		cw, err := gen.Crossword(b)
		if err != nil {
			return fmt.Errorf("layout %d: %w", i+1, err)
		}
		fmt.Fprintf(w, "Crossword %d/%d\n%s\n", i+1, len(bs), cw.Grid)
		fmt.Fprintln(w, "Across:")
		printPlacements(w, cw.Across())
		fmt.Fprintln(w, "Down:")
		printPlacements(w, cw.Down())
		for _, e := range cw.Dropped {
			fmt.Fprintf(w, "  dropped: %s\n", e.Text)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func printPlacements(w io.Writer, ps []puzzle.Placement) {
	for _, p := range ps {
		label := "-"
		if p.Number > 0 {
			label = fmt.Sprint(p.Number)
		}
		fmt.Fprintf(w, "  %2s %-6s (%d,%d) %-20s %s\n", label, p.Direction, p.Row, p.Col, p.Entry.Text, p.Entry.Hint)
	}
}
