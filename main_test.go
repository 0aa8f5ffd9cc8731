package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-solver/internal/batch"
	"github.com/robalobadob/wordle-solver/internal/config"
)

func testConfig() config.Config {
	return config.Config{WordLength: 5, MaxAttempts: 10, BenchWorkers: 2}
}

func TestAssistCommandSolves(t *testing.T) {
	cfg := testConfig()
	lists, err := loadLists(cfg)
	require.NoError(t, err)
	secret := lists.Answers[3]

	// The solver is deterministic, so a refereed play yields the exact
	// patterns the interactive session will ask for.
	s, err := newSolver(cfg, lists)
	require.NoError(t, err)
	tr, err := batch.Play(s, secret, 0)
	require.NoError(t, err)

	in := "\nnot a pattern\n" + strings.Join(tr.Patterns, "\n") + "\n"
	var out bytes.Buffer
	require.NoError(t, assistCmd(cfg, nil, strings.NewReader(in), &out))

	assert.Contains(t, out.String(), "try "+tr.Guesses[0])
	assert.Contains(t, out.String(), "enter 5 letters of G/Y/B")
	assert.Contains(t, out.String(), "solved in ")
}

func TestAssistCommandInputClosed(t *testing.T) {
	var out bytes.Buffer
	err := assistCmd(testConfig(), nil, strings.NewReader(""), &out)
	assert.ErrorContains(t, err, "input closed")
}

func TestPrintReport(t *testing.T) {
	var out bytes.Buffer
	printReport(&out, &batch.Report{
		Total:     3,
		Solved:    2,
		Duration:  1234567 * time.Microsecond,
		Histogram: map[int]int{4: 1, 2: 1},
		Mean:      3,
		Worst:     4,
		Failures:  []batch.Failure{{Secret: "jazzy", Attempts: 10, Reason: "batch: attempt limit reached"}},
	})
	want := "solved 2/3 in 1.235s\n" +
		"  2: 1\n" +
		"  4: 1\n" +
		"mean 3.000, worst 4\n" +
		"  unsolved jazzy after 10: batch: attempt limit reached\n"
	assert.Equal(t, want, out.String())
}
