// internal/game/types.go
//
// Core type definitions for feedback and refereed games.
// Defines:
//   - CharResult: per-letter result of a guess (exact/present/absent).
//   - State: coarse state of a refereed game (playing/won/lost).
//   - Game: state for a single refereed game against a known secret.

package game

import (
	"errors"
	"fmt"
)

// CharResult is the evaluation result for a single letter in a guess.
type CharResult uint8

const (
	// Absent: the letter is not in the secret (or its budget is used up).
	Absent CharResult = iota
	// Present: the letter is in the secret, but not at this position.
	Present
	// Exact: the letter is at this position in the secret.
	Exact
)

var errUnknownResult = errors.New("game: unknown char result")

// String returns the text form used in JSON payloads.
func (r CharResult) String() string {
	switch r {
	case Absent:
		return "absent"
	case Present:
		return "present"
	case Exact:
		return "exact"
	}
	return fmt.Sprintf("CharResult(%d)", uint8(r))
}

// Valid reports whether r is one of the three known results.
func (r CharResult) Valid() bool { return r <= Exact }

// MarshalText implements encoding.TextMarshaler.
func (r CharResult) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, errUnknownResult
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *CharResult) UnmarshalText(b []byte) error {
	switch string(b) {
	case "absent":
		*r = Absent
	case "present":
		*r = Present
	case "exact":
		*r = Exact
	default:
		return fmt.Errorf("%w: %q", errUnknownResult, b)
	}
	return nil
}

// State is a coarse representation of a refereed game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Game holds the state of a single refereed game.
type Game struct {
	Secret   string            // The solution word (always lowercase).
	Rows     int               // Maximum number of guesses allowed.
	Cols     int               // Number of letters per word.
	Guesses  []string          // Guesses made so far (lowercased).
	Results  [][]CharResult    // Feedback per guess, parallel to Guesses.
	Finished bool              // True once the game is over (won or lost).
	Won      bool              // True if the game was finished with a win.
	Allowed  func(string) bool // Optional guess-list check; nil allows any word.
}
