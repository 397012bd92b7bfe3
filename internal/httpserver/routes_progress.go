// internal/httpserver/routes_progress.go
//
// Progress endpoints:
//   - POST /progress/complete → report a client-side game as completed
//   - GET  /treehouse         → the player's reward screen

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/treehouse/internal/catalog"
	"github.com/robalobadob/treehouse/internal/progress"
)

type completeReq struct {
	Game catalog.GameType `json:"game"`
}

// mountProgress registers POST /progress/complete and GET /treehouse.
// Games that are played entirely on the client report completion here;
// server-scored games are rejected.
func (s *Server) mountProgress(r chi.Router) {
	r.Post("/progress/complete", s.handleComplete)
	r.Get("/treehouse", s.handleTreehouse)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var body completeReq
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if catalog.ServerScored(body.Game) {
		writeError(w, http.StatusForbidden, "finish the game's session to complete it")
		return
	}
	player := s.playerID(w, r)
	first, err := s.progress.Complete(r.Context(), player, body.Game)
	if errors.Is(err, progress.ErrUnknownGame) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Error().Err(err).Str("player", player).Msg("complete game")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	th, err := s.progress.Treehouse(r.Context(), player)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, reward{First: first, Treehouse: th})
}

func (s *Server) handleTreehouse(w http.ResponseWriter, r *http.Request) {
	player := s.playerID(w, r)
	th, err := s.progress.Treehouse(r.Context(), player)
	if err != nil {
		log.Error().Err(err).Str("player", player).Msg("load treehouse")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, th)
}
