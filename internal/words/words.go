// internal/words/words.go
//
// Word list loading for the solver.
//
// Responsibilities:
//   - Load answer and allowed-guess lists from files or fall back to the
//     embedded defaults in package assets.
//   - Keep only lowercase a–z words of the configured length.
//   - Provide lookups (IsAnswer, IsAllowed) and a random answer picker.
//
// Word Lists:
//   - "answers": candidate secrets, in file order.
//   - "guesses": answers followed by the extra allowed words, deduplicated.
//
// Load behavior:
//  1. AnswersPath and AllowedPath both set: answers from the first, extra
//     guesses from the second.
//  2. Only one path set: that file serves as both lists.
//  3. Neither set: embedded defaults.
package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/robalobadob/wordle-solver/assets"
)

var ErrNoAnswers = errors.New("words: answers list is empty")

// Source describes where to read word lists from.
type Source struct {
	AnswersPath string
	AllowedPath string
	Length      int
}

// Lists holds immutable answer and guess vocabularies of one word length.
type Lists struct {
	Length  int
	Answers []string
	Guesses []string

	answerSet  map[string]struct{}
	allowedSet map[string]struct{}
}

// Load reads the lists described by src.
func Load(src Source) (*Lists, error) {
	if src.Length <= 0 {
		return nil, fmt.Errorf("words: invalid length %d", src.Length)
	}

	var ansList, allowList []string
	switch {
	case src.AnswersPath != "" && src.AllowedPath != "":
		var err error
		if ansList, err = readWordFile(src.AnswersPath, src.Length); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(src.AllowedPath, src.Length); err != nil {
			return nil, err
		}

	case src.AnswersPath == "" && src.AllowedPath != "":
		var err error
		if allowList, err = readWordFile(src.AllowedPath, src.Length); err != nil {
			return nil, err
		}
		ansList = allowList

	case src.AnswersPath != "":
		var err error
		if ansList, err = readWordFile(src.AnswersPath, src.Length); err != nil {
			return nil, err
		}

	default:
		return Embedded(src.Length)
	}
	return build(src.Length, ansList, allowList)
}

// Embedded returns the built-in lists filtered to length.
func Embedded(length int) (*Lists, error) {
	ans, err := assets.AnswersList()
	if err != nil {
		return nil, fmt.Errorf("words: embedded answers: %w", err)
	}
	all, err := assets.AllowedList()
	if err != nil {
		return nil, fmt.Errorf("words: embedded allowed: %w", err)
	}
	return build(length, filter(ans, length), filter(all, length))
}

// New builds Lists from in-memory words; words of other lengths or with
// characters outside a–z are dropped.
func New(length int, answers, allowed []string) (*Lists, error) {
	return build(length, filter(answers, length), filter(allowed, length))
}

func build(length int, ansList, allowList []string) (*Lists, error) {
	l := &Lists{
		Length:     length,
		answerSet:  make(map[string]struct{}, len(ansList)),
		allowedSet: make(map[string]struct{}, len(ansList)+len(allowList)),
	}
	for _, w := range ansList {
		if _, dup := l.answerSet[w]; dup {
			continue
		}
		l.answerSet[w] = struct{}{}
		l.allowedSet[w] = struct{}{}
		l.Answers = append(l.Answers, w)
		l.Guesses = append(l.Guesses, w)
	}
	// Answers are always guessable; extras follow them in file order.
	for _, w := range allowList {
		if _, dup := l.allowedSet[w]; dup {
			continue
		}
		l.allowedSet[w] = struct{}{}
		l.Guesses = append(l.Guesses, w)
	}

	if len(l.Answers) == 0 {
		return nil, ErrNoAnswers
	}
	return l, nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string, length int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out, err := readWords(f, length)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}

// readWords lowercases and trims each line, keeping only words of the given
// length made of a–z. Blank lines and '#' comments are skipped.
func readWords(r io.Reader, length int) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.TrimSpace(strings.ToLower(sc.Text()))
		if strings.HasPrefix(w, "#") {
			continue
		}
		if len(w) == length && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

func filter(list []string, length int) []string {
	out := make([]string, 0, len(list))
	for _, w := range list {
		if len(w) == length && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// RandomAnswer returns a cryptographically random answer.
func (l *Lists) RandomAnswer() string {
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(l.Answers))))
	return l.Answers[nBig.Int64()]
}

// IsAllowed reports whether w is a valid guess (answers ∪ allowed).
func (l *Lists) IsAllowed(w string) bool {
	_, ok := l.allowedSet[strings.ToLower(w)]
	return ok
}

// IsAnswer reports whether w is an answer word.
func (l *Lists) IsAnswer(w string) bool {
	_, ok := l.answerSet[strings.ToLower(w)]
	return ok
}

// Stats returns counts of loaded words: (answers, guesses).
func (l *Lists) Stats() (answersCount int, guessesCount int) {
	return len(l.Answers), len(l.Guesses)
}
