// internal/assist/session.go
//
// Assisted solving: the secret is unknown to the program. A person plays the
// real puzzle, types each proposed guess, and relays the colors back.
//
// A Session owns its Solver and serializes access to it, so sessions can be
// shared by concurrent HTTP handlers.
package assist

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robalobadob/wordle-solver/internal/game"
	"github.com/robalobadob/wordle-solver/internal/solver"
)

var (
	ErrSolved          = errors.New("assist: session already solved")
	ErrRoundsExhausted = errors.New("assist: no rounds left")
	ErrDeadEnd         = errors.New("assist: feedback ruled out every answer")
)

// showCandidates is the largest candidate set included in a View.
const showCandidates = 20

// Round is one guess and the feedback it received.
type Round struct {
	Guess   string            `json:"guess"`
	Pattern string            `json:"pattern"`
	Results []game.CharResult `json:"results"`
}

// Session is one assisted solve.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	solver    *solver.Solver
	maxRounds int
	pending   string
	rounds    []Round
	solved    bool
	stuck     bool // no answer fits the feedback; see ErrDeadEnd
}

// View is a snapshot of a Session.
type View struct {
	ID         string   `json:"id"`
	Guess      string   `json:"guess,omitempty"` // next word to try; empty when done
	Rounds     []Round  `json:"rounds"`
	Remaining  int      `json:"remaining"`
	Candidates []string `json:"candidates,omitempty"`
	Solved     bool     `json:"solved"`
	Unsolvable bool     `json:"unsolvable,omitempty"`
	RoundsLeft int      `json:"roundsLeft"`
}

// New starts a session on a fresh (reset) solver and proposes the first
// guess. maxRounds <= 0 means unlimited.
func New(s *solver.Solver, maxRounds int) (*Session, error) {
	s.Reset()
	first, err := s.ProposeGuess()
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        game.NewID(),
		CreatedAt: time.Now().UTC(),
		solver:    s,
		maxRounds: maxRounds,
		pending:   first,
		rounds:    []Round{},
	}, nil
}

// Guess returns the word the player should try next.
func (s *Session) Guess() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Feedback records the colors received for the pending guess and proposes
// the next one. It returns "" once the puzzle is solved.
func (s *Session) Feedback(results []game.CharResult) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.solved {
		return "", ErrSolved
	}
	if s.stuck {
		return "", ErrDeadEnd
	}
	if s.maxRounds > 0 && len(s.rounds) >= s.maxRounds {
		return "", ErrRoundsExhausted
	}
	if err := s.solver.ApplyFeedback(s.pending, results); err != nil {
		return "", err
	}
	s.rounds = append(s.rounds, Round{
		Guess:   s.pending,
		Pattern: game.FormatPattern(results),
		Results: append([]game.CharResult(nil), results...),
	})

	if game.Solved(results) {
		s.solved = true
		s.pending = ""
		return "", nil
	}
	if s.maxRounds > 0 && len(s.rounds) >= s.maxRounds {
		s.pending = ""
		return "", ErrRoundsExhausted
	}

	next, err := s.solver.ProposeGuess()
	if err != nil {
		s.pending = ""
		s.stuck = true
		return "", fmt.Errorf("after %d rounds: %w", len(s.rounds), err)
	}
	s.pending = next
	return next, nil
}

// View snapshots the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:         s.ID,
		Guess:      s.pending,
		Rounds:     append([]Round(nil), s.rounds...),
		Solved:     s.solved,
		Unsolvable: s.stuck,
	}
	cands := s.solver.Candidates()
	v.Remaining = len(cands)
	if len(cands) < showCandidates {
		v.Candidates = cands
	}
	if s.maxRounds > 0 {
		v.RoundsLeft = s.maxRounds - len(s.rounds)
	} else {
		v.RoundsLeft = -1
	}
	return v
}
