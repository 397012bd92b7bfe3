// internal/httpserver/routes_quiz.go
//
// HTTP routes for the multiple-choice games.
//   - POST /quiz/{game}/new     → start a quiz (optional {"questions": n})
//   - POST /quiz/{game}/answer  → answer the current question {"gameId","choice"}
//   - GET  /quiz/{game}/{id}    → current snapshot
//
// {game} is detective, fill_blank or hidden_treasure. Answers stay on the
// server; finishing a quiz records the game for the treehouse.

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/treehouse/internal/catalog"
	"github.com/robalobadob/treehouse/internal/game"
	"github.com/robalobadob/treehouse/internal/quiz"
	"github.com/robalobadob/treehouse/internal/store"
)

type newQuizReq struct {
	Questions int `json:"questions"`
}

type answerReq struct {
	GameID string `json:"gameId"`
	Choice string `json:"choice"`
}

type answerRes struct {
	game.AnswerResult
	Reward *reward        `json:"reward,omitempty"`
	View   *game.QuizView `json:"view,omitempty"` // next question after a correct answer
}

func (s *Server) mountQuiz(r chi.Router) {
	r.Route("/quiz/{game}", func(r chi.Router) {
		r.Post("/new", s.handleQuizNew)
		r.Post("/answer", s.handleQuizAnswer)
		r.Get("/{id}", s.handleQuizGet)
	})
}

// quizGame resolves the {game} URL param, writing 404 for games without a quiz.
func quizGame(w http.ResponseWriter, r *http.Request) (catalog.GameType, bool) {
	gt := catalog.GameType(chi.URLParam(r, "game"))
	if !quiz.Supported(gt) {
		writeError(w, http.StatusNotFound, "no quiz for game")
		return "", false
	}
	return gt, true
}

func (s *Server) handleQuizNew(w http.ResponseWriter, r *http.Request) {
	gt, ok := quizGame(w, r)
	if !ok {
		return
	}
	var body newQuizReq
	if err := decodeOptional(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if body.Questions < 0 {
		writeError(w, http.StatusBadRequest, "questions must not be negative")
		return
	}
	player := s.playerID(w, r)
	g, err := game.NewQuiz(player, gt, s.items, game.Options{MaxRounds: body.Questions})
	if err != nil {
		log.Error().Err(err).Str("game", string(gt)).Msg("new quiz")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.quizzes.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "store_error")
		return
	}
	writeJSON(w, http.StatusOK, g.View())
}

func (s *Server) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	gt, ok := quizGame(w, r)
	if !ok {
		return
	}
	var body answerReq
	if err := decode(r, &body); err != nil || body.GameID == "" {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	player := s.playerID(w, r)
	g, ok := s.ownedQuiz(w, r, gt, body.GameID, player)
	if !ok {
		return
	}
	res, err := g.Answer(body.Choice)
	switch {
	case errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, game.ErrInvalidChoice):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := answerRes{AnswerResult: res}
	switch res.State {
	case game.StateFinished:
		out.Reward = s.complete(r, player, gt)
	case game.StateRoundComplete:
		v := g.View()
		out.View = &v
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleQuizGet(w http.ResponseWriter, r *http.Request) {
	gt, ok := quizGame(w, r)
	if !ok {
		return
	}
	g, ok := s.ownedQuiz(w, r, gt, chi.URLParam(r, "id"), s.playerID(w, r))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g.View())
}

func (s *Server) ownedQuiz(w http.ResponseWriter, r *http.Request, gt catalog.GameType, id, player string) (*game.Quiz, bool) {
	g, err := s.quizzes.Get(r.Context(), id)
	if err != nil || g.Game != gt || g.Owner() != player {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Str("gameId", id).Msg("load quiz")
		}
		writeError(w, http.StatusNotFound, "game not found")
		return nil, false
	}
	return g, true
}
