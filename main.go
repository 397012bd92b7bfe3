// main.go
//
// Entry point for the treehouse server.
//
// Startup:
//   - Load .env and typed config; set the zerolog level.
//   - Load the word list (WORDS_FILE or embedded) and open/migrate SQLite.
//   - Start janitors for idle sessions and serve until SIGINT/SIGTERM.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/treehouse/internal/config"
	"github.com/robalobadob/treehouse/internal/db"
	"github.com/robalobadob/treehouse/internal/game"
	"github.com/robalobadob/treehouse/internal/httpserver"
	"github.com/robalobadob/treehouse/internal/store"
	"github.com/robalobadob/treehouse/internal/words"
)

const pruneInterval = 10 * time.Minute

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	items, err := words.Load(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}

	conn, err := db.OpenMigrated(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wordSearch := store.NewMemoryStore[*game.WordSearch]()
	crosswords := store.NewMemoryStore[*game.Crossword]()
	quizzes := store.NewMemoryStore[*game.Quiz]()
	go store.Janitor(ctx, wordSearch, pruneInterval, cfg.SessionTTL, func(n int) {
		log.Info().Int("sessions", n).Msg("pruned idle word searches")
	})
	go store.Janitor(ctx, crosswords, pruneInterval, cfg.SessionTTL, func(n int) {
		log.Info().Int("sessions", n).Msg("pruned idle crosswords")
	})
	go store.Janitor(ctx, quizzes, pruneInterval, cfg.SessionTTL, func(n int) {
		log.Info().Int("sessions", n).Msg("pruned idle quizzes")
	})

	srv := httpserver.New(httpserver.Deps{
		Config:     cfg,
		Items:      items,
		DB:         conn,
		WordSearch: wordSearch,
		Crosswords: crosswords,
		Quizzes:    quizzes,
	})

	log.Info().Str("port", cfg.Port).Int("words", len(items)).Msg("starting treehouse server")
	if err := srv.Run(ctx, ":"+cfg.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
		return
	}
	log.Info().Msg("shut down")
}
