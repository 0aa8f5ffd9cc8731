// internal/store/sqlite.go
//
// SQLite persistence for batch-run reports.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Saving and listing batch.Report rows with their failures.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-solver/internal/batch"
)

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Runs stores batch reports in SQLite.
type Runs struct {
	db  *sql.DB
	log zerolog.Logger
}

// OpenRuns opens (creating if missing) the database at dsn and migrates it
// with the *.sql files of migrations.
func OpenRuns(dsn string, migrations fs.FS, log zerolog.Logger) (*Runs, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, migrations, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Runs{db: db, log: log}, nil
}

// Close closes the database.
func (r *Runs) Close() error { return r.db.Close() }

// openDB opens a SQLite database file.
//
//   - Ensures the parent directory exists for relative DSNs (e.g. ./data/solver.db).
//   - Configures busy timeout and WAL journaling mode.
//   - Enforces foreign keys.
func openDB(dsn string) (*sql.DB, error) {
	if dsn != ":memory:" {
		dir := filepath.Dir(dsn)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		// each connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies *.sql files from migrations in lexical order, each inside
// its own transaction, skipping files recorded in _migrations.
func migrate(db *sql.DB, migrations fs.FS, log zerolog.Logger) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(migrations, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// Save inserts a report and its failures in one transaction.
func (r *Runs) Save(ctx context.Context, rep *batch.Report) error {
	hist, err := json.Marshal(rep.Histogram)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO runs
            (id, started_at, duration_ms, word_length, max_attempts, guess_search,
             total, solved, worst, mean, histogram)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.StartedAt.UTC().Format(timeLayout), rep.Duration.Milliseconds(),
		rep.Length, rep.MaxAttempts, rep.GuessSearch,
		rep.Total, rep.Solved, rep.Worst, rep.Mean, string(hist),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for _, f := range rep.Failures {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_failures (run_id, secret, attempts, reason) VALUES (?, ?, ?, ?)`,
			rep.ID, f.Secret, f.Attempts, f.Reason,
		); err != nil {
			return fmt.Errorf("insert failure %s: %w", f.Secret, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.log.Info().Str("run", rep.ID).Int("failures", len(rep.Failures)).Msg("run saved")
	return nil
}

// Recent returns up to limit reports, newest first. Default limit is 20.
func (r *Runs) Recent(ctx context.Context, limit int) ([]*batch.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, started_at, duration_ms, word_length, max_attempts, guess_search,
               total, solved, worst, mean, histogram
        FROM runs
        ORDER BY started_at DESC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*batch.Report, 0, limit)
	byID := make(map[string]*batch.Report)
	for rows.Next() {
		var (
			rep     batch.Report
			started string
			ms      int64
			hist    string
		)
		if err := rows.Scan(&rep.ID, &started, &ms, &rep.Length, &rep.MaxAttempts, &rep.GuessSearch,
			&rep.Total, &rep.Solved, &rep.Worst, &rep.Mean, &hist); err != nil {
			return nil, err
		}
		if rep.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("run %s: %w", rep.ID, err)
		}
		rep.Duration = time.Duration(ms) * time.Millisecond
		if err := json.Unmarshal([]byte(hist), &rep.Histogram); err != nil {
			return nil, fmt.Errorf("run %s: %w", rep.ID, err)
		}
		rep.Failures = []batch.Failure{}
		out = append(out, &rep)
		byID[rep.ID] = &rep
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	return out, r.attachFailures(ctx, byID)
}

func (r *Runs) attachFailures(ctx context.Context, byID map[string]*batch.Report) error {
	ids := make([]any, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	q := `SELECT run_id, secret, attempts, reason FROM run_failures
          WHERE run_id IN (?` + strings.Repeat(",?", len(ids)-1) + `)
          ORDER BY run_id, secret`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var f batch.Failure
		if err := rows.Scan(&id, &f.Secret, &f.Attempts, &f.Reason); err != nil {
			return err
		}
		rep := byID[id]
		rep.Failures = append(rep.Failures, f)
	}
	return rows.Err()
}
