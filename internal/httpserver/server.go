// internal/httpserver/server.go
//
// HTTP server wiring for the solver service.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Oracle endpoint: POST /score.
//   - Assisted sessions: /sessions/*.
//   - Daily puzzle transcript: GET /daily.
//   - Batch runs: GET /runs (public), POST /runs (admin JWT required).
//   - Admin token issuance: POST /auth/token.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled.
//   - Every response body is JSON, errors included: {"error": "..."}.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-solver/internal/batch"
	"github.com/robalobadob/wordle-solver/internal/config"
	"github.com/robalobadob/wordle-solver/internal/game"
	"github.com/robalobadob/wordle-solver/internal/solver"
	"github.com/robalobadob/wordle-solver/internal/store"
	"github.com/robalobadob/wordle-solver/internal/words"
)

const (
	requestTimeout = 10 * time.Second
	runTimeout     = 5 * time.Minute
)

// RunStore persists batch reports. *store.Runs implements it.
type RunStore interface {
	Save(ctx context.Context, rep *batch.Report) error
	Recent(ctx context.Context, limit int) ([]*batch.Report, error)
}

// Server bundles router, word lists, session store and run history.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	lists    *words.Lists
	sessions store.Sessions
	runs     RunStore // nil disables persistence
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, lists *words.Lists, sessions store.Sessions, runs RunStore) *Server {
	s := &Server{r: chi.NewRouter(), cfg: cfg, lists: lists, sessions: sessions, runs: runs}

	// --- middleware ---
	s.r.Use(chimw.RequestID)        // add X-Request-ID
	s.r.Use(chimw.RealIP)           // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)        // recover from panics
	s.r.Use(jsonContentType)        // default JSON responses
	s.r.Use(cors(cfg.ClientOrigin)) // credentials-friendly CORS

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service": "wordle-solver",
				"endpoints": []string{
					"/health", "POST /score", "POST /sessions", "/daily", "/runs", "POST /auth/token",
				},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			a, g := s.lists.Stats()
			writeJSON(w, http.StatusOK, map[string]int{"answers": a, "guesses": g, "length": s.lists.Length})
		})

		r.Post("/score", s.handleScore)
		s.mountSessions(r)
		s.mountDaily(r)
		r.Get("/runs", s.handleListRuns)
		r.Post("/auth/token", s.handleToken)
	})

	// Batch runs walk the whole vocabulary; give them a longer budget.
	s.r.With(chimw.Timeout(runTimeout), s.requireAdmin()).Post("/runs", s.handleRun)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// newSolver builds a fresh Solver over the shared vocabularies.
func (s *Server) newSolver() (*solver.Solver, error) {
	var opts []solver.Option
	if s.cfg.GuessSearch {
		opts = append(opts, solver.WithGuessSearch())
	}
	return solver.New(s.lists.Length, s.lists.Answers, s.lists.Guesses, opts...)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ ORACLE -------------------------------------

type scoreReq struct {
	Guess  string `json:"guess"`
	Secret string `json:"secret"`
}
type scoreRes struct {
	Pattern string            `json:"pattern"`
	Marks   []game.CharResult `json:"marks"`
}

// handleScore runs the feedback oracle on two words of equal length.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if !game.IsWord(req.Guess) || !game.IsWord(req.Secret) || len(req.Guess) != len(req.Secret) {
		writeError(w, http.StatusBadRequest, "invalid_words")
		return
	}
	marks := game.Score(req.Guess, req.Secret)
	writeJSON(w, http.StatusOK, scoreRes{Pattern: game.FormatPattern(marks), Marks: marks})
}

// ------------------------------- RUNS --------------------------------------

type runReq struct {
	Workers     int   `json:"workers"`
	MaxAttempts int   `json:"maxAttempts"`
	GuessSearch *bool `json:"guessSearch"`
}

// handleRun plays every answer, persists the report, and returns it.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	cfg := batch.Config{
		Length:      s.lists.Length,
		MaxAttempts: s.cfg.MaxAttempts,
		Workers:     s.cfg.BenchWorkers,
		GuessSearch: s.cfg.GuessSearch,
		Logger:      &log.Logger,
	}
	if req.Workers > 0 {
		cfg.Workers = req.Workers
	}
	if req.MaxAttempts > 0 {
		cfg.MaxAttempts = req.MaxAttempts
	}
	if req.GuessSearch != nil {
		cfg.GuessSearch = *req.GuessSearch
	}

	rep, err := batch.Run(r.Context(), cfg, s.lists.Answers, s.lists.Guesses)
	if err != nil {
		log.Error().Err(err).Msg("batch run")
		writeError(w, http.StatusInternalServerError, "run_failed")
		return
	}
	if s.runs != nil {
		if err := s.runs.Save(r.Context(), rep); err != nil {
			log.Warn().Err(err).Str("run", rep.ID).Msg("save run")
		}
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleListRuns returns recent persisted reports (?limit=n, default 20).
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeJSON(w, http.StatusOK, []*batch.Report{})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	reps, err := s.runs.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list runs")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, reps)
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
