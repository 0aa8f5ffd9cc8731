// commands.go
//
// Offline subcommands: bench, play, assist, hashkey.

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/robalobadob/wordle-solver/assets"
	"github.com/robalobadob/wordle-solver/internal/assist"
	"github.com/robalobadob/wordle-solver/internal/batch"
	"github.com/robalobadob/wordle-solver/internal/config"
	"github.com/robalobadob/wordle-solver/internal/game"
	"github.com/robalobadob/wordle-solver/internal/httpserver"
	"github.com/robalobadob/wordle-solver/internal/solver"
	"github.com/robalobadob/wordle-solver/internal/store"
	"github.com/robalobadob/wordle-solver/internal/words"
)

// bench plays every answer and prints the attempts histogram.
func bench(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	workers := fs.Int("workers", cfg.BenchWorkers, "parallel solvers")
	maxAttempts := fs.Int("max-attempts", cfg.MaxAttempts, "give up after this many guesses (0 = never)")
	guessSearch := fs.Bool("search-guesses", cfg.GuessSearch, "consider non-answer guesses")
	failFast := fs.Bool("fail-fast", false, "stop at the first unsolved secret")
	persist := fs.Bool("persist", false, "save the report to DB_PATH")
	_ = fs.Parse(args)

	lists, err := loadLists(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bar := progressbar.Default(int64(len(lists.Answers)), "solving")
	rep, err := batch.Run(ctx, batch.Config{
		Length:      lists.Length,
		MaxAttempts: *maxAttempts,
		Workers:     *workers,
		GuessSearch: *guessSearch,
		FailFast:    *failFast,
		OnProgress:  func() { _ = bar.Add(1) },
		Logger:      &log.Logger,
	}, lists.Answers, lists.Guesses)
	_ = bar.Finish()
	if err != nil {
		return err
	}
	printReport(os.Stdout, rep)

	if *persist {
		runs, err := store.OpenRuns(cfg.DBPath, assets.Migrations(), log.Logger)
		if err != nil {
			return err
		}
		defer runs.Close()
		if err := runs.Save(ctx, rep); err != nil {
			return err
		}
		log.Info().Str("run", rep.ID).Str("db", cfg.DBPath).Msg("report saved")
	}
	if len(rep.Failures) > 0 {
		return fmt.Errorf("%d of %d secrets unsolved", len(rep.Failures), rep.Total)
	}
	return nil
}

func printReport(w io.Writer, rep *batch.Report) {
	fmt.Fprintf(w, "solved %d/%d in %s\n", rep.Solved, rep.Total, rep.Duration.Round(time.Millisecond))
	keys := make([]int, 0, len(rep.Histogram))
	for k := range rep.Histogram {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%3d: %d\n", k, rep.Histogram[k])
	}
	fmt.Fprintf(w, "mean %.3f, worst %d\n", rep.Mean, rep.Worst)
	for _, f := range rep.Failures {
		fmt.Fprintf(w, "  unsolved %s after %d: %s\n", f.Secret, f.Attempts, f.Reason)
	}
}

// play shows the solver's guesses against one secret.
func play(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	target := fs.String("target", "", "secret word (default: random answer)")
	_ = fs.Parse(args)

	lists, err := loadLists(cfg)
	if err != nil {
		return err
	}
	secret := strings.ToLower(strings.TrimSpace(*target))
	if secret == "" {
		secret = lists.RandomAnswer()
	}
	s, err := newSolver(cfg, lists)
	if err != nil {
		return err
	}

	tr, err := batch.Play(s, secret, cfg.MaxAttempts)
	for i, g := range tr.Guesses {
		fmt.Printf("%d. %s %s\n", i+1, g, tr.Patterns[i])
	}
	if err != nil {
		return err
	}
	fmt.Printf("solved %s in %d\n", tr.Secret, tr.Attempts)
	return nil
}

// assistCmd proposes guesses and reads the colors of the real puzzle from
// in, one pattern per line (G exact, Y present, B absent).
func assistCmd(cfg config.Config, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("assist", flag.ExitOnError)
	rounds := fs.Int("rounds", cfg.MaxAttempts, "maximum rounds (0 = unlimited)")
	_ = fs.Parse(args)

	lists, err := loadLists(cfg)
	if err != nil {
		return err
	}
	s, err := newSolver(cfg, lists)
	if err != nil {
		return err
	}
	sess, err := assist.New(s, *rounds)
	if err != nil {
		return err
	}

	sc := bufio.NewScanner(in)
	for {
		v := sess.View()
		if len(v.Candidates) > 0 && len(v.Rounds) > 0 {
			fmt.Fprintf(out, "%d left: %s\n", v.Remaining, strings.Join(v.Candidates, " "))
		}
		fmt.Fprintf(out, "try %s\n> ", v.Guess)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return err
			}
			return errors.New("input closed before the puzzle was solved")
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		results, err := game.ParsePattern(line)
		if err != nil || len(results) != lists.Length {
			fmt.Fprintf(out, "enter %d letters of G/Y/B\n", lists.Length)
			continue
		}
		next, err := sess.Feedback(results)
		if err != nil {
			return err
		}
		if next == "" {
			v := sess.View()
			fmt.Fprintf(out, "solved in %d\n", len(v.Rounds))
			return nil
		}
	}
}

// hashKey prints the bcrypt hash of the admin key (argument or stdin).
func hashKey(args []string) error {
	var key string
	if len(args) > 0 {
		key = args[0]
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		key = strings.TrimSpace(line)
	}
	if key == "" {
		return errors.New("empty key")
	}
	h, err := httpserver.HashKey(key)
	if err != nil {
		return err
	}
	fmt.Println(h)
	return nil
}

func newSolver(cfg config.Config, lists *words.Lists) (*solver.Solver, error) {
	var opts []solver.Option
	if cfg.GuessSearch {
		opts = append(opts, solver.WithGuessSearch())
	}
	opts = append(opts, solver.WithLogger(log.Logger))
	return solver.New(lists.Length, lists.Answers, lists.Guesses, opts...)
}
