// main.go
//
// Entry point for the solver binary.
//
//	wordle-solver [serve]                 HTTP API (default)
//	wordle-solver bench [-workers n] ...  solve every answer, print histogram
//	wordle-solver play -target word       watch the solver play one secret
//	wordle-solver assist                  solve a real puzzle interactively
//	wordle-solver hashkey <key>           bcrypt hash for ADMIN_KEY_HASH
//
// Settings come from the environment (and .env), see internal/config.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-solver/assets"
	"github.com/robalobadob/wordle-solver/internal/config"
	"github.com/robalobadob/wordle-solver/internal/httpserver"
	"github.com/robalobadob/wordle-solver/internal/store"
	"github.com/robalobadob/wordle-solver/internal/words"
)

func main() {
	cfg := config.Load()
	log.Logger = cfg.Logger()

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = serve(cfg)
	case "bench":
		err = bench(cfg, args)
	case "play":
		err = play(cfg, args)
	case "assist":
		err = assistCmd(cfg, args, os.Stdin, os.Stdout)
	case "hashkey":
		err = hashKey(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (serve, bench, play, assist, hashkey)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("exited")
	}
}

// loadLists reads the vocabularies named by cfg, or the embedded ones.
func loadLists(cfg config.Config) (*words.Lists, error) {
	lists, err := words.Load(words.Source{
		AnswersPath: cfg.AnswersFile,
		AllowedPath: cfg.AllowedFile,
		Length:      cfg.WordLength,
	})
	if err != nil {
		return nil, fmt.Errorf("load word lists: %w", err)
	}
	a, g := lists.Stats()
	log.Debug().Int("answers", a).Int("guesses", g).Int("length", lists.Length).Msg("word lists loaded")
	return lists, nil
}

func serve(cfg config.Config) error {
	lists, err := loadLists(cfg)
	if err != nil {
		return err
	}

	// Run history is optional: without a database the API still serves.
	var runs httpserver.RunStore
	if db, err := store.OpenRuns(cfg.DBPath, assets.Migrations(), log.Logger); err != nil {
		log.Warn().Err(err).Str("db", cfg.DBPath).Msg("run history disabled")
	} else {
		defer db.Close()
		runs = db
	}

	mem := store.NewMemoryStore(cfg.SessionTTL)
	if cfg.SessionTTL > 0 {
		go func() {
			t := time.NewTicker(time.Minute)
			defer t.Stop()
			for range t.C {
				if n := mem.Sweep(); n > 0 {
					log.Debug().Int("dropped", n).Msg("idle sessions swept")
				}
			}
		}()
	}

	srv := httpserver.New(cfg, lists, mem, runs)
	log.Info().Str("port", cfg.Port).Msg("starting wordle-solver")
	return srv.Start(":" + cfg.Port)
}
