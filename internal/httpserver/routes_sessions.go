// internal/httpserver/routes_sessions.go
//
// HTTP routes for assisted solving. The caller plays the real puzzle and
// relays the colors; the server keeps the solver state between requests.
//   - POST   /sessions               → start; returns first guess
//   - GET    /sessions/{id}          → snapshot
//   - POST   /sessions/{id}/feedback → {pattern:"BYGBB"} or {results:[...]}
//   - DELETE /sessions/{id}          → discard

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-solver/internal/assist"
	"github.com/robalobadob/wordle-solver/internal/game"
	"github.com/robalobadob/wordle-solver/internal/solver"
	"github.com/robalobadob/wordle-solver/internal/store"
)

// mountSessions registers all /sessions routes.
func (s *Server) mountSessions(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleNewSession)
		r.Get("/{id}", s.handleGetSession)
		r.Post("/{id}/feedback", s.handleFeedback)
		r.Delete("/{id}", s.handleDeleteSession)
	})
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	sv, err := s.newSolver()
	if err != nil {
		log.Error().Err(err).Msg("new solver")
		writeError(w, http.StatusInternalServerError, "solver_init")
		return
	}
	sess, err := assist.New(sv, s.cfg.MaxAttempts)
	if err != nil {
		log.Error().Err(err).Msg("new session")
		writeError(w, http.StatusInternalServerError, "solver_init")
		return
	}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, "store_error")
		return
	}
	log.Debug().Str("session", sess.ID).Str("guess", sess.Guess()).Msg("session started")
	writeJSON(w, http.StatusCreated, sess.View())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	_ = s.sessions.Delete(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

type feedbackReq struct {
	Pattern string            `json:"pattern"`
	Results []game.CharResult `json:"results"`
}

// handleFeedback applies one round of colors and returns the updated view.
// A contradiction (no candidate left) is reported as 422 with the view, so
// the caller can see which rounds led there.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	results := req.Results
	if req.Pattern != "" {
		var err error
		if results, err = game.ParsePattern(req.Pattern); err != nil {
			writeError(w, http.StatusBadRequest, "bad_pattern")
			return
		}
	}

	_, err := sess.Feedback(results)
	// Refresh the idle timer even when the round failed.
	_ = s.sessions.Save(r.Context(), sess)

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, sess.View())
	case errors.Is(err, solver.ErrFeedbackLength), errors.Is(err, solver.ErrInvalidResult):
		writeError(w, http.StatusBadRequest, "bad_feedback")
	case errors.Is(err, assist.ErrSolved), errors.Is(err, assist.ErrRoundsExhausted), errors.Is(err, assist.ErrDeadEnd):
		writeJSON(w, http.StatusConflict, sessionErr{Error: "session_over", View: sess.View()})
	case errors.Is(err, solver.ErrUnsolvable):
		writeJSON(w, http.StatusUnprocessableEntity, sessionErr{Error: "unsolvable", View: sess.View()})
	default:
		log.Error().Err(err).Str("session", sess.ID).Msg("feedback")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

type sessionErr struct {
	Error string      `json:"error"`
	View  assist.View `json:"session"`
}

// lookupSession resolves {id} or writes a 404.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*assist.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no_session")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error")
		return nil, false
	}
	return sess, true
}
