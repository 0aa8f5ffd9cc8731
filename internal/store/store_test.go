package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-solver/assets"
	"github.com/robalobadob/wordle-solver/internal/assist"
	"github.com/robalobadob/wordle-solver/internal/batch"
	"github.com/robalobadob/wordle-solver/internal/solver"
)

func newSession(t *testing.T) *assist.Session {
	t.Helper()
	s, err := solver.New(5, []string{"crane", "slate"}, nil)
	require.NoError(t, err)
	sess, err := assist.New(s, 6)
	require.NoError(t, err)
	return sess
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(0)
	sess := newSession(t)

	_, err := m.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Save(ctx, sess))
	got, err := m.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(ctx, sess.ID))
	require.NoError(t, m.Delete(ctx, sess.ID))
	assert.Equal(t, 0, m.Len())
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(time.Hour)
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	old, fresh := newSession(t), newSession(t)
	require.NoError(t, m.Save(ctx, old))
	now = now.Add(50 * time.Minute)
	require.NoError(t, m.Save(ctx, fresh))
	now = now.Add(20 * time.Minute)

	assert.Equal(t, 1, m.Sweep())
	_, err := m.Get(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(ctx, fresh.ID)
	assert.NoError(t, err)

	assert.Equal(t, 0, NewMemoryStore(0).Sweep())
}

func TestRunsRoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "data", "solver.db")

	runs, err := OpenRuns(dsn, assets.Migrations(), zerolog.Nop())
	require.NoError(t, err)

	older := &batch.Report{
		ID:          "run-old",
		StartedAt:   time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC),
		Duration:    1500 * time.Millisecond,
		Length:      5,
		MaxAttempts: 10,
		Total:       3,
		Solved:      3,
		Histogram:   map[int]int{2: 1, 3: 2},
		Mean:        8.0 / 3,
		Worst:       3,
		Failures:    []batch.Failure{},
	}
	newer := &batch.Report{
		ID:          "run-new",
		StartedAt:   time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC),
		Length:      5,
		MaxAttempts: 1,
		GuessSearch: true,
		Total:       2,
		Solved:      1,
		Histogram:   map[int]int{1: 1},
		Mean:        1,
		Worst:       1,
		Failures: []batch.Failure{
			{Secret: "slate", Attempts: 1, Reason: "batch: attempt limit reached"},
		},
	}
	require.NoError(t, runs.Save(ctx, older))
	require.NoError(t, runs.Save(ctx, newer))
	assert.Error(t, runs.Save(ctx, newer), "duplicate id")
	require.NoError(t, runs.Close())

	// Reopening must not re-apply migrations.
	runs, err = OpenRuns(dsn, assets.Migrations(), zerolog.Nop())
	require.NoError(t, err)
	defer runs.Close()

	got, err := runs.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "run-new", got[0].ID)
	assert.True(t, got[0].GuessSearch)
	assert.Equal(t, newer.Failures, got[0].Failures)
	assert.Equal(t, map[int]int{1: 1}, got[0].Histogram)
	assert.True(t, newer.StartedAt.Equal(got[0].StartedAt))

	assert.Equal(t, "run-old", got[1].ID)
	assert.Empty(t, got[1].Failures)
	assert.Equal(t, older.Histogram, got[1].Histogram)
	assert.Equal(t, older.Duration, got[1].Duration)
	assert.InDelta(t, older.Mean, got[1].Mean, 1e-9)

	got, err = runs.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRunsEmpty(t *testing.T) {
	runs, err := OpenRuns(filepath.Join(t.TempDir(), "solver.db"), assets.Migrations(), zerolog.Nop())
	require.NoError(t, err)
	defer runs.Close()

	got, err := runs.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRunsCorruptTimestamp(t *testing.T) {
	ctx := context.Background()
	runs, err := OpenRuns(filepath.Join(t.TempDir(), "solver.db"), assets.Migrations(), zerolog.Nop())
	require.NoError(t, err)
	defer runs.Close()

	_, err = runs.db.ExecContext(ctx, `
        INSERT INTO runs
            (id, started_at, duration_ms, word_length, max_attempts, guess_search,
             total, solved, worst, mean, histogram)
        VALUES ('run-bad', 'yesterday', 0, 5, 10, 0, 0, 0, 0, 0, '{}')`)
	require.NoError(t, err)

	got, err := runs.Recent(ctx, 5)
	assert.ErrorContains(t, err, "run run-bad")
	assert.Nil(t, got)
}
