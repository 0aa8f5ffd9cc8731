package solver

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-solver/internal/game"
	"github.com/robalobadob/wordle-solver/internal/words"
)

var fixture = []string{
	"crane", "slate", "trace", "brace", "grace",
	"place", "shade", "awake", "cramp", "crone",
}

func mustSolver(t *testing.T, answers []string, opts ...Option) *Solver {
	t.Helper()
	s, err := New(5, answers, answers, opts...)
	require.NoError(t, err)
	return s
}

func mustApply(t *testing.T, s *Solver, guess, pattern string) {
	t.Helper()
	res, err := game.ParsePattern(pattern)
	require.NoError(t, err)
	require.NoError(t, s.ApplyFeedback(guess, res))
}

func TestInvDist(t *testing.T) {
	tests := []struct{ n, goal, want int }{
		{0, 10, 0},
		{10, 10, 0},
		{5, 10, 5},
		{3, 10, 3},
		{7, 10, 3},
		{1, 2, 1},
		{1, 3, 1},
		{2, 3, 1},
		{2, 5, 2},
		{3, 5, 2},
		{1, 4, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, invDist(tt.n, tt.goal), "invDist(%d, %d)", tt.n, tt.goal)
	}
}

func TestNewValidation(t *testing.T) {
	_, err := New(0, fixture, nil)
	assert.ErrorIs(t, err, ErrWordLength)

	_, err = New(5, nil, fixture)
	assert.ErrorIs(t, err, ErrEmptyVocabulary)

	_, err = New(5, []string{"crane", "cranes"}, nil)
	assert.ErrorIs(t, err, ErrWordLength)

	_, err = New(5, fixture, []string{"CRANE"})
	assert.ErrorIs(t, err, ErrInvalidWord)
}

func TestSlateAgainstCrane(t *testing.T) {
	s := mustSolver(t, fixture)

	res := game.Score("slate", "crane")
	require.Equal(t, []game.CharResult{game.Absent, game.Absent, game.Exact, game.Absent, game.Exact}, res)
	require.NoError(t, s.ApplyFeedback("slate", res))

	assert.Equal(t, []string{"crane", "brace", "grace", "awake"}, s.Candidates())
	assert.Equal(t, 4, s.Remaining())
	assert.Equal(t, []byte("a"), s.Admissible(2))
	assert.Equal(t, []byte("e"), s.Admissible(4))
	assert.Equal(t, []byte("ae"), s.Required())
	for i := 0; i < 5; i++ {
		for _, c := range []byte("slt") {
			assert.NotContains(t, s.Admissible(i), c, "position %d", i)
		}
	}
}

func TestProposeGuessSingleCandidate(t *testing.T) {
	s := mustSolver(t, fixture)
	mustApply(t, s, "crane", "GGGGG")
	g, err := s.ProposeGuess()
	require.NoError(t, err)
	assert.Equal(t, "crane", g)
}

func TestProposeGuessUnsolvable(t *testing.T) {
	s := mustSolver(t, []string{"apple"})
	g, err := s.ProposeGuess()
	require.NoError(t, err)
	require.Equal(t, "apple", g)

	require.NoError(t, s.ApplyFeedback(g, game.Score(g, "zzzzz")))
	_, err = s.ProposeGuess()
	assert.ErrorIs(t, err, ErrUnsolvable)
}

func TestProposeGuessTieKeepsFirst(t *testing.T) {
	s := mustSolver(t, []string{"abcde", "fghij"})
	g, err := s.ProposeGuess()
	require.NoError(t, err)
	assert.Equal(t, "abcde", g)
}

func TestProposeGuessLogsRunnerUp(t *testing.T) {
	var buf bytes.Buffer
	s := mustSolver(t, []string{"abcde", "fghij"}, WithLogger(zerolog.New(&buf)))
	_, err := s.ProposeGuess()
	require.NoError(t, err)

	var ev struct {
		Guess    string `json:"guess"`
		Score    int    `json:"score"`
		RunnerUp int    `json:"runner_up"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev), buf.String())
	assert.Equal(t, "abcde", ev.Guess)
	assert.Positive(t, ev.Score)
	assert.Equal(t, ev.Score, ev.RunnerUp, "a tie shows as an equal runner-up")
}

func TestProposeGuessIsReadOnly(t *testing.T) {
	s := mustSolver(t, fixture)
	mustApply(t, s, "slate", "BBGBG")
	before := s.Candidates()
	_, err := s.ProposeGuess()
	require.NoError(t, err)
	_, err = s.ProposeGuess()
	require.NoError(t, err)
	assert.Equal(t, before, s.Candidates())
}

func TestGuessSearch(t *testing.T) {
	answers := []string{"abcde", "abcdf", "abcdg"}
	guesses := append([]string{}, answers...)
	guesses = append(guesses, "efgxx")

	s, err := New(5, answers, guesses)
	require.NoError(t, err)
	g, err := s.ProposeGuess()
	require.NoError(t, err)
	assert.Equal(t, "abcde", g, "answer vocabulary is searched by default")

	s, err = New(5, answers, guesses, WithGuessSearch())
	require.NoError(t, err)
	g, err = s.ProposeGuess()
	require.NoError(t, err)
	assert.Equal(t, "efgxx", g)
}

func TestApplyFeedbackValidation(t *testing.T) {
	s := mustSolver(t, fixture)

	err := s.ApplyFeedback("crane", []game.CharResult{game.Exact})
	assert.ErrorIs(t, err, ErrFeedbackLength)

	err = s.ApplyFeedback("cran", make([]game.CharResult, 5))
	assert.ErrorIs(t, err, ErrWordLength)

	err = s.ApplyFeedback("cr4ne", make([]game.CharResult, 5))
	assert.ErrorIs(t, err, ErrInvalidWord)

	bad := make([]game.CharResult, 5)
	bad[3] = game.CharResult(9)
	err = s.ApplyFeedback("crane", bad)
	assert.ErrorIs(t, err, ErrInvalidResult)

	assert.Equal(t, fixture, s.Candidates(), "rejected feedback leaves state untouched")
}

func TestExactMatchPinIsPermanent(t *testing.T) {
	s := mustSolver(t, fixture)
	mustApply(t, s, "crane", "GBBBB")
	require.Equal(t, []byte("c"), s.Admissible(0))

	mustApply(t, s, "shade", "YBBBB")
	mustApply(t, s, "plumb", "BBBBB")
	assert.Equal(t, []byte("c"), s.Admissible(0))

	s.Reset()
	assert.Len(t, s.Admissible(0), 26)
	assert.Empty(t, s.Required())
}

// The Absent rule does not track letter counts: when a letter is confirmed
// once elsewhere in the guess, a second Absent copy only clears its own
// position even though the secret cannot hold another copy anywhere.
func TestDuplicateAbsentIsApproximate(t *testing.T) {
	s := mustSolver(t, fixture)
	res := game.Score("eerie", "crane")
	require.Equal(t, "BBYBG", game.FormatPattern(res))
	require.NoError(t, s.ApplyFeedback("eerie", res))

	assert.NotContains(t, s.Admissible(0), byte('e'))
	assert.NotContains(t, s.Admissible(1), byte('e'))
	assert.Contains(t, s.Admissible(2), byte('e'), "known precision limit")
	assert.Contains(t, s.Admissible(3), byte('e'), "known precision limit")
	assert.NotContains(t, s.Admissible(0), byte('i'))
	assert.Equal(t, []byte("er"), s.Required())
}

func TestMonotonicNarrowing(t *testing.T) {
	for _, secret := range fixture {
		t.Run(secret, func(t *testing.T) {
			s := mustSolver(t, fixture)
			prev := s.Candidates()
			for round := 0; round < 10; round++ {
				g, err := s.ProposeGuess()
				require.NoError(t, err)
				require.NoError(t, s.ApplyFeedback(g, game.Score(g, secret)))

				cur := s.Candidates()
				assert.Subset(t, prev, cur)
				assert.Contains(t, cur, secret)
				prev = cur
				if g == secret {
					return
				}
			}
			t.Fatalf("%s not solved in 10 rounds", secret)
		})
	}
}

func play(t *testing.T, s *Solver, secret string) []string {
	t.Helper()
	var seen []string
	for round := 0; round < 10; round++ {
		g, err := s.ProposeGuess()
		require.NoError(t, err)
		seen = append(seen, g)
		if g == secret {
			return seen
		}
		require.NoError(t, s.ApplyFeedback(g, game.Score(g, secret)))
	}
	t.Fatalf("%s not solved in 10 rounds: %v", secret, seen)
	return nil
}

func TestResetMatchesFreshSolver(t *testing.T) {
	reused := mustSolver(t, fixture)
	play(t, reused, "awake")

	for _, secret := range fixture {
		reused.Reset()
		fresh := mustSolver(t, fixture)
		assert.Equal(t, play(t, fresh, secret), play(t, reused, secret), secret)
	}
}

func TestConvergenceOnEmbeddedLists(t *testing.T) {
	lists, err := words.Embedded(5)
	require.NoError(t, err)

	s, err := New(5, lists.Answers, lists.Guesses)
	require.NoError(t, err)
	for _, secret := range lists.Answers {
		s.Reset()
		play(t, s, secret)
	}
}
