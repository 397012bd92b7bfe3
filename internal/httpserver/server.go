// internal/httpserver/server.go
//
// HTTP server wiring for the treehouse backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/words", "/games".
//   - Puzzle endpoints (optional auth): /wordsearch/*, /crossword/*, /quiz/*.
//   - Progress endpoints (optional auth): POST /progress/complete, GET /treehouse.
//   - Daily puzzle endpoints (optional auth): mounted under /daily.
//   - Auth endpoints: /auth/*.
//
// Notes:
//   - Guests are identified by an anonymous cookie; their progress moves to
//     their account when they sign up or log in.
//   - Live puzzle sessions stay in memory; progress and results go to SQLite.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/treehouse/internal/account"
	"github.com/robalobadob/treehouse/internal/catalog"
	"github.com/robalobadob/treehouse/internal/config"
	"github.com/robalobadob/treehouse/internal/game"
	"github.com/robalobadob/treehouse/internal/progress"
	"github.com/robalobadob/treehouse/internal/puzzle"
	"github.com/robalobadob/treehouse/internal/store"
	"github.com/robalobadob/treehouse/internal/words"
)

// Server bundles router, session stores and persistence.
type Server struct {
	r          *chi.Mux
	cfg        config.Config
	items      []words.Item
	entries    []puzzle.Entry
	wordSearch store.Store[*game.WordSearch]
	crosswords store.Store[*game.Crossword]
	quizzes    store.Store[*game.Quiz]
	progress   *progress.Store
	accounts   *account.Store
	daily      *dailyServer
}

// Deps are the collaborators New wires into the server.
type Deps struct {
	Config     config.Config
	Items      []words.Item
	DB         *sql.DB
	WordSearch store.Store[*game.WordSearch]
	Crosswords store.Store[*game.Crossword]
	Quizzes    store.Store[*game.Quiz]
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.WordSearch == nil {
		d.WordSearch = store.NewMemoryStore[*game.WordSearch]()
	}
	if d.Crosswords == nil {
		d.Crosswords = store.NewMemoryStore[*game.Crossword]()
	}
	if d.Quizzes == nil {
		d.Quizzes = store.NewMemoryStore[*game.Quiz]()
	}
	s := &Server{
		r:          chi.NewRouter(),
		cfg:        d.Config,
		items:      d.Items,
		entries:    words.Entries(d.Items),
		wordSearch: d.WordSearch,
		crosswords: d.Crosswords,
		quizzes:    d.Quizzes,
		progress:   progress.NewStore(d.DB),
		accounts:   account.NewStore(d.DB),
	}

	timeout := d.Config.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)        // add X-Request-ID
	s.r.Use(chimw.RealIP)           // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)          // zerolog access log
	s.r.Use(chimw.Recoverer)        // recover from panics
	s.r.Use(chimw.Timeout(timeout)) // bound handler time
	s.r.Use(jsonContentType)        // default JSON responses
	s.r.Use(s.cors)                 // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"treehouse-go","endpoints":["/health","/words","/games","/wordsearch/*","/crossword/*","/quiz/*","/daily/*","/treehouse","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Get("/words", s.handleWords)
	s.r.Get("/games", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalog.Games())
	})

	// Games, progress and daily: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		s.mountWordSearch(r)
		s.mountCrossword(r)
		s.mountQuiz(r)
		s.mountProgress(r)
		s.mountDaily(r, d.DB)
	})

	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Run serves HTTP on addr until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func (s *Server) Run(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}

// ServeHTTP lets the server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// handleWords returns the vocabulary list, optionally filtered by ?category=.
func (s *Server) handleWords(w http.ResponseWriter, r *http.Request) {
	items := s.items
	if cat := r.URL.Query().Get("category"); cat != "" {
		items = words.Filter(items, words.Category(cat))
	}
	if items == nil {
		items = []words.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// decodeOptional is decode for bodies that may be empty.
func decodeOptional(r *http.Request, v any) error {
	if err := decode(r, v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
