// internal/batch/batch.go
//
// Simulated solving sessions.
// Responsibilities:
//   - Play one refereed session of a Solver against a known secret.
//   - Run the solver against every answer in parallel and tally how many
//     attempts each secret took.
//
// Each worker owns one Solver and resets it between secrets; workers share
// only the read-only vocabularies.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle-solver/internal/game"
	"github.com/robalobadob/wordle-solver/internal/solver"
)

var (
	ErrAttemptsExceeded = errors.New("batch: attempt limit reached")
	ErrRepeatedGuess    = errors.New("batch: guess repeated")
)

// Transcript records one simulated session.
type Transcript struct {
	Secret   string   `json:"secret"`
	Guesses  []string `json:"guesses"`
	Patterns []string `json:"patterns"`
	Attempts int      `json:"attempts"`
	Solved   bool     `json:"solved"`
}

// Play resets s and solves secret, refereed by a game.Game capped at
// maxAttempts guesses (0 means no cap).
func Play(s *solver.Solver, secret string, maxAttempts int) (Transcript, error) {
	s.Reset()
	g := game.New(secret, maxAttempts)
	tr := Transcript{Secret: g.Secret}
	seen := make(map[string]struct{})

	for {
		guess, err := s.ProposeGuess()
		if err != nil {
			return tr, fmt.Errorf("%s after %d attempts: %w", g.Secret, tr.Attempts, err)
		}
		if _, dup := seen[guess]; dup {
			return tr, fmt.Errorf("%w: %s", ErrRepeatedGuess, guess)
		}
		seen[guess] = struct{}{}

		res, state, err := g.ApplyGuess(guess)
		if err != nil {
			return tr, fmt.Errorf("referee %q: %w", guess, err)
		}
		tr.Guesses = append(tr.Guesses, guess)
		tr.Patterns = append(tr.Patterns, game.FormatPattern(res))
		tr.Attempts = len(g.Guesses)

		switch state {
		case game.StateWon:
			tr.Solved = true
			return tr, nil
		case game.StateLost:
			return tr, ErrAttemptsExceeded
		}
		if err := s.ApplyFeedback(guess, res); err != nil {
			return tr, err
		}
	}
}

// Config controls a batch run.
type Config struct {
	Length      int
	MaxAttempts int
	Workers     int  // defaults to GOMAXPROCS
	GuessSearch bool // see solver.WithGuessSearch
	FailFast    bool // stop at the first failed secret
	OnProgress  func()
	Logger      *zerolog.Logger // nil disables logging
}

// Failure is a secret the solver did not find.
type Failure struct {
	Secret   string `json:"secret"`
	Attempts int    `json:"attempts"`
	Reason   string `json:"reason"`
}

// Report summarizes a batch run.
type Report struct {
	ID          string        `json:"id"`
	StartedAt   time.Time     `json:"startedAt"`
	Duration    time.Duration `json:"durationNs"`
	Length      int           `json:"wordLength"`
	MaxAttempts int           `json:"maxAttempts"`
	GuessSearch bool          `json:"guessSearch"`
	Total       int           `json:"total"`
	Solved      int           `json:"solved"`
	Histogram   map[int]int   `json:"histogram"` // attempts → solved secrets
	Mean        float64       `json:"mean"`
	Worst       int           `json:"worst"`
	Failures    []Failure     `json:"failures"`
}

type outcome struct {
	tr  Transcript
	err error
}

// Run plays every answer as the secret.
func Run(ctx context.Context, cfg Config, answers, guesses []string) (*Report, error) {
	lg := zerolog.Nop()
	if cfg.Logger != nil {
		lg = *cfg.Logger
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var opts []solver.Option
	if cfg.GuessSearch {
		opts = append(opts, solver.WithGuessSearch())
	}
	// Surface vocabulary errors before starting workers.
	if _, err := solver.New(cfg.Length, answers, guesses, opts...); err != nil {
		return nil, err
	}

	rep := &Report{
		ID:          game.NewID(),
		StartedAt:   time.Now().UTC(),
		Length:      cfg.Length,
		MaxAttempts: cfg.MaxAttempts,
		GuessSearch: cfg.GuessSearch,
		Total:       len(answers),
		Histogram:   make(map[int]int),
		Failures:    []Failure{},
	}
	lg.Info().
		Str("run", rep.ID).
		Int("answers", len(answers)).
		Int("workers", workers).
		Msg("batch run started")

	results := make([]outcome, len(answers))
	g, ctx := errgroup.WithContext(ctx)

	next := make(chan int)
	g.Go(func() error {
		defer close(next)
		for i := range answers {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case next <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			s, err := solver.New(cfg.Length, answers, guesses, opts...)
			if err != nil {
				return err
			}
			for i := range next {
				tr, err := Play(s, answers[i], cfg.MaxAttempts)
				results[i] = outcome{tr: tr, err: err}
				if cfg.OnProgress != nil {
					cfg.OnProgress()
				}
				if err != nil && cfg.FailFast {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, o := range results {
		if o.err != nil {
			rep.Failures = append(rep.Failures, Failure{
				Secret:   o.tr.Secret,
				Attempts: o.tr.Attempts,
				Reason:   o.err.Error(),
			})
			lg.Warn().Err(o.err).Str("secret", o.tr.Secret).Msg("secret not solved")
			continue
		}
		rep.Solved++
		rep.Histogram[o.tr.Attempts]++
		total += o.tr.Attempts
		rep.Worst = max(rep.Worst, o.tr.Attempts)
	}
	if rep.Solved > 0 {
		rep.Mean = float64(total) / float64(rep.Solved)
	}
	rep.Duration = time.Since(rep.StartedAt)

	lg.Info().
		Str("run", rep.ID).
		Int("solved", rep.Solved).
		Int("failed", len(rep.Failures)).
		Float64("mean", rep.Mean).
		Int("worst", rep.Worst).
		Dur("took", rep.Duration).
		Msg("batch run finished")
	return rep, nil
}
