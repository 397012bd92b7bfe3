// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily word search.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's puzzle (creates or reuses session)
//   - POST /daily/select      → submit a selection for today's puzzle
//   - GET  /daily/leaderboard → top 20 results for today (or ?date=YYYY-MM-DD)
//
// Everyone gets the same single-round puzzle on a date (seeded from date + salt).
// Each player can finish it once per day (enforced by DB + in-memory session).
// Sessions live in memory while playing; the result is persisted on finish.

package httpserver

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/treehouse/internal/catalog"
	"github.com/robalobadob/treehouse/internal/daily"
	"github.com/robalobadob/treehouse/internal/game"
	"github.com/robalobadob/treehouse/internal/puzzle"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	now      func() time.Time
	sessions map[string]*game.WordSearch // active sessions keyed by playerID|date
	mu       sync.Mutex                  // guards sessions
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router, db *sql.DB) {
	salt := s.cfg.DailySalt
	if salt == "" {
		salt = "local_dev_salt"
	}
	s.daily = &dailyServer{
		srv:      s,
		store:    daily.NewStore(db),
		salt:     salt,
		now:      time.Now,
		sessions: make(map[string]*game.WordSearch),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.daily.handleNew)
		r.Post("/select", s.daily.handleSelect)
		r.Get("/leaderboard", s.daily.handleLeaderboard)
	})
}

func sessionKey(player, date string) string { return player + "|" + date }

// session returns the live session for player today, dropping sessions left
// over from earlier dates.
func (d *dailyServer) session(player, date string) (*game.WordSearch, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k := range d.sessions {
		if !strings.HasSuffix(k, "|"+date) {
			delete(d.sessions, k)
		}
	}
	g, ok := d.sessions[sessionKey(player, date)]
	return g, ok
}

// claim moves live sessions of anonID to userID. A session the user already
// has for the same date wins over the guest's.
func (d *dailyServer) claim(anonID, userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	prefix := anonID + "|"
	for k, g := range d.sessions {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		delete(d.sessions, k)
		nk := sessionKey(userID, strings.TrimPrefix(k, prefix))
		if _, taken := d.sessions[nk]; taken {
			continue
		}
		g.Reassign(anonID, userID)
		d.sessions[nk] = g
	}
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	Date   string               `json:"date"`
	Played bool                 `json:"played"`
	View   *game.WordSearchView `json:"view,omitempty"`
}

// handleNew creates or reuses today's session.
// - If the player already has a DB row for today → Played=true, no view.
// - Otherwise create/reuse an in-memory session and return its view.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	player := d.srv.playerID(w, r)
	now := d.now()
	date := daily.DateKey(now)

	played, err := d.store.AlreadyPlayed(r.Context(), player, date)
	if err != nil {
		log.Error().Err(err).Str("player", player).Msg("daily lookup")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	if g, ok := d.session(player, date); ok {
		v := g.View()
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, View: &v})
		return
	}
	g, err := game.NewWordSearch(player, d.srv.entries, game.Options{
		Seed:      daily.Seed(now, d.salt),
		MaxRounds: 1,
	})
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily puzzle")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	d.mu.Lock()
	if existing, ok := d.sessions[sessionKey(player, date)]; ok {
		g = existing // lost a race with a concurrent /new
	} else {
		d.sessions[sessionKey(player, date)] = g
	}
	d.mu.Unlock()

	v := g.View()
	writeJSON(w, http.StatusOK, dailyNewRes{Date: date, View: &v})
}

// -----------------------------------------------------------------------------
// /daily/select

type dailySelectRes struct {
	game.SelectResult
	ElapsedMs int     `json:"elapsedMs,omitempty"`
	Reward    *reward `json:"reward,omitempty"`
}

// handleSelect applies a selection to today's session and persists the result
// once every word is found.
func (d *dailyServer) handleSelect(w http.ResponseWriter, r *http.Request) {
	var body selectReq
	if err := decode(r, &body); err != nil || body.GameID == "" {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	player := d.srv.playerID(w, r)
	date := daily.DateKey(d.now())

	g, ok := d.session(player, date)
	if !ok || g.ID != body.GameID {
		writeError(w, http.StatusConflict, "no session")
		return
	}
	res, err := g.Select(body.Start, body.End)
	switch {
	case errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, puzzle.ErrNotStraight), errors.Is(err, puzzle.ErrOutOfBounds):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := dailySelectRes{SelectResult: res}
	if res.State == game.StateFinished {
		out.ElapsedMs = int(d.now().Sub(g.Started).Milliseconds())
		if err := d.store.InsertResult(r.Context(), daily.Result{
			PlayerID: player, Date: date, Selections: res.Selections, ElapsedMs: out.ElapsedMs,
		}); err != nil {
			log.Error().Err(err).Str("player", player).Msg("daily result")
		}
		out.Reward = d.srv.complete(r, player, catalog.WordSearch)
	}
	writeJSON(w, http.StatusOK, out)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
