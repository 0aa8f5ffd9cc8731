// internal/game/engine.go
//
// Feedback oracle and referee for a single puzzle.
// Responsibilities:
//   - Score guesses using the classic two-pass duplicate-letter algorithm.
//   - Encode/decode feedback as compact B/Y/G patterns.
//   - Referee a game against a known secret: validate guesses, track
//     playing → won/lost.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	ErrFinished     = errors.New("game finished")
	ErrInvalidGuess = errors.New("invalid guess")
	ErrNotAllowed   = errors.New("not in word list")
	ErrBadPattern   = errors.New("invalid feedback pattern")
)

// New constructs a refereed game for secret with an attempt cap of rows.
func New(secret string, rows int) *Game {
	secret = strings.ToLower(secret)
	return &Game{
		Secret:  secret,
		Rows:    rows,
		Cols:    len(secret),
		Guesses: []string{},
	}
}

// ApplyGuess validates and scores a guess, mutating the game state.
//
// Validation rules:
//   - Game must not be finished.
//   - Guess must be exactly g.Cols letters a–z.
//   - Guess must pass g.Allowed when set.
//
// State transitions:
//   - All tiles Exact → Finished, Won.
//   - Else if the number of guesses reaches g.Rows → Finished (loss).
func (g *Game) ApplyGuess(guess string) ([]CharResult, State, error) {
	if g.Finished {
		return nil, g.State(), ErrFinished
	}
	guess = strings.ToLower(strings.TrimSpace(guess))
	if len(guess) != g.Cols || !IsWord(guess) {
		return nil, g.State(), ErrInvalidGuess
	}
	if g.Allowed != nil && !g.Allowed(guess) {
		return nil, g.State(), ErrNotAllowed
	}

	res := Score(guess, g.Secret)
	g.Guesses = append(g.Guesses, guess)
	g.Results = append(g.Results, res)

	if Solved(res) {
		g.Finished, g.Won = true, true
	} else if g.Rows > 0 && len(g.Guesses) >= g.Rows {
		g.Finished = true
	}
	return res, g.State(), nil
}

// State reports the current game state.
func (g *Game) State() State {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// Score compares guess against secret with the two-pass rule.
//
// Pass 1:
//   - Mark exact matches and count the remaining secret letters.
//
// Pass 2:
//   - For each unmarked guess letter: if budget remains for it, mark Present
//     and consume one; otherwise Absent.
//
// A letter guessed twice but present once in the secret yields exactly one
// non-Absent result, attributed to the exact position if there is one.
// Lengths are expected to match; only the common prefix is compared.
func Score(guess, secret string) []CharResult {
	res := make([]CharResult, len(guess))
	n := min(len(guess), len(secret))

	var counts [26]int
	exact := make([]bool, len(guess))

	for i := 0; i < n; i++ {
		if guess[i] == secret[i] {
			res[i] = Exact
			exact[i] = true
		} else if j := idx(secret[i]); j >= 0 {
			counts[j]++
		}
	}

	for i := 0; i < n; i++ {
		if exact[i] {
			continue
		}
		if j := idx(guess[i]); j >= 0 && counts[j] > 0 {
			res[i] = Present
			counts[j]--
		}
	}
	return res
}

// Solved reports whether every result is Exact.
func Solved(res []CharResult) bool {
	if len(res) == 0 {
		return false
	}
	for _, r := range res {
		if r != Exact {
			return false
		}
	}
	return true
}

// FormatPattern renders results as B (absent), Y (present), G (exact).
func FormatPattern(res []CharResult) string {
	var b strings.Builder
	b.Grow(len(res))
	for _, r := range res {
		switch r {
		case Exact:
			b.WriteByte('G')
		case Present:
			b.WriteByte('Y')
		default:
			b.WriteByte('B')
		}
	}
	return b.String()
}

// ParsePattern reads a B/Y/G pattern. Input is case-insensitive and also
// accepts '.', '-' and 'x' for Absent.
func ParsePattern(s string) ([]CharResult, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrBadPattern
	}
	res := make([]CharResult, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'g', 'G':
			res[i] = Exact
		case 'y', 'Y':
			res[i] = Present
		case 'b', 'B', '.', '-', 'x', 'X':
			res[i] = Absent
		default:
			return nil, ErrBadPattern
		}
	}
	return res, nil
}

// IsWord checks that a string is non-empty and consists only of a–z.
func IsWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// idx maps a lowercase ASCII letter to 0..25, or -1.
func idx(c byte) int {
	if c < 'a' || c > 'z' {
		return -1
	}
	return int(c - 'a')
}

// NewID returns a compact 16-hex-char identifier for sessions and runs.
func NewID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
