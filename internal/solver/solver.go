// internal/solver/solver.go
//
// Constraint-tracking solver for fixed-length word puzzles.
// Responsibilities:
//   - Track per-position admissible letters and the letters known to be
//     present somewhere in the secret.
//   - Filter the answer vocabulary against those constraints.
//   - Rank guesses with the inv_dist letter-position + coverage heuristic.
//
// A Solver is not safe for concurrent use. Independent sessions either own
// their own Solver or call Reset before reuse; the vocabularies are shared
// read-only and may back any number of Solvers.
package solver

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-solver/internal/game"
)

var (
	// ErrUnsolvable means no answer is consistent with the feedback seen so
	// far: either the feedback was wrong or the secret is not an answer.
	ErrUnsolvable      = errors.New("solver: no candidates remain")
	ErrEmptyVocabulary = errors.New("solver: empty answer vocabulary")
	ErrWordLength      = errors.New("solver: word length mismatch")
	ErrInvalidWord     = errors.New("solver: word must be lowercase a-z")
	ErrFeedbackLength  = errors.New("solver: feedback length mismatch")
	ErrInvalidResult   = errors.New("solver: unknown char result")
)

// Solver proposes guesses and narrows its state from feedback.
type Solver struct {
	length  int
	answers []string
	guesses []string

	// admissible[i] is the set of letters still possible at position i.
	admissible []letterSet
	// required holds letters confirmed somewhere in the secret.
	required letterSet

	searchGuesses bool
	log           zerolog.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger traces candidate counts and chosen guesses at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Solver) { s.log = l }
}

// WithGuessSearch scores the guess vocabulary instead of the answer
// vocabulary when picking the next guess. Statistics are still computed
// from the remaining candidates only.
func WithGuessSearch() Option {
	return func(s *Solver) { s.searchGuesses = true }
}

// New builds a Solver for words of the given length. Every word of both
// vocabularies must have that length and consist of a–z only.
func New(length int, answers, guesses []string, opts ...Option) (*Solver, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: length %d", ErrWordLength, length)
	}
	if len(answers) == 0 {
		return nil, ErrEmptyVocabulary
	}
	for _, list := range [][]string{answers, guesses} {
		for _, w := range list {
			if err := checkWord(w, length); err != nil {
				return nil, err
			}
		}
	}

	s := &Solver{
		length:     length,
		answers:    answers,
		guesses:    guesses,
		admissible: make([]letterSet, length),
		log:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.Reset()
	return s, nil
}

// Len returns the word length the Solver was built for.
func (s *Solver) Len() int { return s.length }

// Reset forgets all feedback: every position admits the full alphabet again
// and the must-contain set is emptied. Vocabularies are untouched.
func (s *Solver) Reset() {
	for i := range s.admissible {
		s.admissible[i] = alphabet
	}
	s.required = 0
}

// Admissible returns the letters still possible at position i.
func (s *Solver) Admissible(i int) []byte { return s.admissible[i].bytes() }

// Required returns the letters known to occur in the secret.
func (s *Solver) Required() []byte { return s.required.bytes() }

// ApplyFeedback narrows the state with the result of guessing word.
//
// Positions are processed left to right:
//   - Absent: if the letter is Present or Exact elsewhere in this guess it is
//     only removed from this position; otherwise from every position.
//   - Present: removed from this position, added to the must-contain set.
//   - Exact: this position is pinned to the letter, which is also added to
//     the must-contain set.
//
// Malformed input is rejected without touching the state. Feedback that
// contradicts earlier rounds is not detected.
func (s *Solver) ApplyFeedback(word string, results []game.CharResult) error {
	if len(results) != s.length {
		return fmt.Errorf("%w: got %d results, want %d", ErrFeedbackLength, len(results), s.length)
	}
	if err := checkWord(word, s.length); err != nil {
		return err
	}
	for _, r := range results {
		if !r.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidResult, r)
		}
	}

	// Letters the guess itself confirms, used by the Absent rule.
	var confirmed letterSet
	for i, r := range results {
		if r != game.Absent {
			confirmed = confirmed.with(word[i] - 'a')
		}
	}

	for i, r := range results {
		c := word[i] - 'a'
		switch r {
		case game.Absent:
			if confirmed.has(c) {
				s.admissible[i] = s.admissible[i].without(c)
				continue
			}
			for j := range s.admissible {
				s.admissible[j] = s.admissible[j].without(c)
			}
		case game.Present:
			s.admissible[i] = s.admissible[i].without(c)
			s.required = s.required.with(c)
		case game.Exact:
			s.admissible[i] = only(c)
			s.required = s.required.with(c)
		}
	}
	return nil
}

// Candidates returns the answers consistent with all feedback so far, in
// vocabulary order. It is recomputed from the full vocabulary on every call.
func (s *Solver) Candidates() []string {
	var out []string
	for _, w := range s.answers {
		if s.admits(w) {
			out = append(out, w)
		}
	}
	return out
}

// Remaining counts the current candidates.
func (s *Solver) Remaining() int {
	n := 0
	for _, w := range s.answers {
		if s.admits(w) {
			n++
		}
	}
	return n
}

func (s *Solver) admits(w string) bool {
	for i := 0; i < len(w); i++ {
		if !s.admissible[i].has(w[i] - 'a') {
			return false
		}
	}
	return lettersOf(w).contains(s.required)
}

func checkWord(w string, length int) error {
	if len(w) != length {
		return fmt.Errorf("%w: %q is not %d letters", ErrWordLength, w, length)
	}
	if !game.IsWord(w) {
		return fmt.Errorf("%w: %q", ErrInvalidWord, w)
	}
	return nil
}
