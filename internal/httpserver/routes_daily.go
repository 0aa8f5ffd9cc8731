// internal/httpserver/routes_daily.go
//
// HTTP route for the "Daily" puzzle.
//   - GET /daily?date=YYYY-MM-DD → the solver's full transcript for that day
//
// The day's secret is chosen deterministically from date + salt, so every
// instance with the same salt and answer list agrees on it. The date
// defaults to today (UTC).

package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-solver/internal/batch"
	"github.com/robalobadob/wordle-solver/internal/daily"
)

// dailyRes is returned by /daily.
type dailyRes struct {
	Date       string           `json:"date"`
	WordIndex  int              `json:"wordIndex"`
	Transcript batch.Transcript `json:"transcript"`
	Error      string           `json:"error,omitempty"`
}

// mountDaily registers the /daily route.
func (s *Server) mountDaily(r chi.Router) {
	r.Get("/daily", s.handleDaily)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC()
	if q := r.URL.Query().Get("date"); q != "" {
		d, err := daily.ParseDate(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_date")
			return
		}
		date = d
	}
	secret, idx := daily.Secret(date, s.cfg.DailySalt, s.lists.Answers)

	sv, err := s.newSolver()
	if err != nil {
		log.Error().Err(err).Msg("new solver")
		writeError(w, http.StatusInternalServerError, "solver_init")
		return
	}
	res := dailyRes{Date: daily.DateKey(date), WordIndex: idx}
	res.Transcript, err = batch.Play(sv, secret, s.cfg.MaxAttempts)
	switch {
	case err == nil:
	case errors.Is(err, batch.ErrAttemptsExceeded):
		res.Error = "attempts_exceeded"
	default:
		log.Error().Err(err).Str("date", res.Date).Msg("daily play")
		writeError(w, http.StatusInternalServerError, "play_failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
