// internal/httpserver/routes_puzzle.go
//
// HTTP routes for the Word Search and Crossword mini-games.
//   - POST /wordsearch/new     → start a session (optional {"rounds": n})
//   - POST /wordsearch/select  → submit a start/end selection
//   - GET  /wordsearch/{id}    → current snapshot
//   - POST /crossword/new      → start a session
//   - POST /crossword/check    → submit per-cell inputs keyed "row-col"
//   - GET  /crossword/{id}     → current snapshot (answers hidden)
//
// Sessions belong to the player that created them; other players get 404.
// Finishing a session records the game as completed for the treehouse.

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/treehouse/internal/catalog"
	"github.com/robalobadob/treehouse/internal/game"
	"github.com/robalobadob/treehouse/internal/puzzle"
	"github.com/robalobadob/treehouse/internal/store"
)

// newGameReq is the optional body of the /new endpoints.
type newGameReq struct {
	Rounds int `json:"rounds"`
}

// reward is attached to the response that finishes a session.
type reward struct {
	First     bool              `json:"first"`
	Treehouse catalog.Treehouse `json:"treehouse"`
}

type selectReq struct {
	GameID string      `json:"gameId"`
	Start  puzzle.Cell `json:"start"`
	End    puzzle.Cell `json:"end"`
}

type selectRes struct {
	game.SelectResult
	Reward *reward              `json:"reward,omitempty"`
	View   *game.WordSearchView `json:"view,omitempty"` // next round's layout after round_complete
}

type checkReq struct {
	GameID string            `json:"gameId"`
	Inputs map[string]string `json:"inputs"`
}

type checkRes struct {
	game.CheckResult
	Reward *reward             `json:"reward,omitempty"`
	View   *game.CrosswordView `json:"view,omitempty"`
}

// -----------------------------------------------------------------------------
// word search

func (s *Server) mountWordSearch(r chi.Router) {
	r.Route("/wordsearch", func(r chi.Router) {
		r.Post("/new", s.handleWordSearchNew)
		r.Post("/select", s.handleWordSearchSelect)
		r.Get("/{id}", s.handleWordSearchGet)
	})
}

func (s *Server) handleWordSearchNew(w http.ResponseWriter, r *http.Request) {
	var body newGameReq
	if err := decodeOptional(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if body.Rounds < 0 {
		writeError(w, http.StatusBadRequest, "rounds must not be negative")
		return
	}
	player := s.playerID(w, r)
	g, err := game.NewWordSearch(player, s.entries, game.Options{MaxRounds: body.Rounds})
	if err != nil {
		log.Error().Err(err).Msg("new word search")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.wordSearch.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "store_error")
		return
	}
	writeJSON(w, http.StatusOK, g.View())
}

func (s *Server) handleWordSearchSelect(w http.ResponseWriter, r *http.Request) {
	var body selectReq
	if err := decode(r, &body); err != nil || body.GameID == "" {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	player := s.playerID(w, r)
	g, ok := s.ownedWordSearch(w, r, body.GameID, player)
	if !ok {
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
	out := selectRes{SelectResult: res}
	switch res.State {
	case game.StateFinished:
		out.Reward = s.complete(r, player, catalog.WordSearch)
	case game.StateRoundComplete:
		v := g.View()
		out.View = &v
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleWordSearchGet(w http.ResponseWriter, r *http.Request) {
	g, ok := s.ownedWordSearch(w, r, chi.URLParam(r, "id"), s.playerID(w, r))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g.View())
}

func (s *Server) ownedWordSearch(w http.ResponseWriter, r *http.Request, id, player string) (*game.WordSearch, bool) {
	g, err := s.wordSearch.Get(r.Context(), id)
	if err != nil || g.Owner() != player {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Str("gameId", id).Msg("load word search")
		}
		writeError(w, http.StatusNotFound, "game not found")
		return nil, false
	}
	return g, true
}

// -----------------------------------------------------------------------------
// crossword

func (s *Server) mountCrossword(r chi.Router) {
	r.Route("/crossword", func(r chi.Router) {
		r.Post("/new", s.handleCrosswordNew)
		r.Post("/check", s.handleCrosswordCheck)
		r.Get("/{id}", s.handleCrosswordGet)
	})
}

func (s *Server) handleCrosswordNew(w http.ResponseWriter, r *http.Request) {
	var body newGameReq
	if err := decodeOptional(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if body.Rounds < 0 {
		writeError(w, http.StatusBadRequest, "rounds must not be negative")
		return
	}
	player := s.playerID(w, r)
	g, err := game.NewCrossword(player, s.entries, game.Options{MaxRounds: body.Rounds})
	if err != nil {
		log.Error().Err(err).Msg("new crossword")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.crosswords.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "store_error")
		return
	}
	writeJSON(w, http.StatusOK, g.View())
}

func (s *Server) handleCrosswordCheck(w http.ResponseWriter, r *http.Request) {
	var body checkReq
	if err := decode(r, &body); err != nil || body.GameID == "" {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	inputs := make(map[puzzle.Cell]string, len(body.Inputs))
	for k, v := range body.Inputs {
		c, err := puzzle.ParseCell(k)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		inputs[c] = v
	}
	player := s.playerID(w, r)
	g, ok := s.ownedCrossword(w, r, body.GameID, player)
	if !ok {
		return
	}
	res, err := g.Check(inputs)
	if errors.Is(err, game.ErrFinished) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := checkRes{CheckResult: res}
	switch res.State {
	case game.StateFinished:
		out.Reward = s.complete(r, player, catalog.Crossword)
	case game.StateRoundComplete:
		v := g.View()
		out.View = &v
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCrosswordGet(w http.ResponseWriter, r *http.Request) {
	g, ok := s.ownedCrossword(w, r, chi.URLParam(r, "id"), s.playerID(w, r))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g.View())
}

func (s *Server) ownedCrossword(w http.ResponseWriter, r *http.Request, id, player string) (*game.Crossword, bool) {
	g, err := s.crosswords.Get(r.Context(), id)
	if err != nil || g.Owner() != player {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Str("gameId", id).Msg("load crossword")
		}
		writeError(w, http.StatusNotFound, "game not found")
		return nil, false
	}
	return g, true
}

// complete records a finished game and returns the player's reward. Storage
// failures are logged; the puzzle result itself still stands.
func (s *Server) complete(r *http.Request, player string, gt catalog.GameType) *reward {
	first, err := s.progress.Complete(r.Context(), player, gt)
	if err != nil {
		log.Error().Err(err).Str("player", player).Str("game", string(gt)).Msg("record completion")
		return nil
	}
	th, err := s.progress.Treehouse(r.Context(), player)
	if err != nil {
		log.Error().Err(err).Str("player", player).Msg("load treehouse")
		return nil
	}
	return &reward{First: first, Treehouse: th}
}
