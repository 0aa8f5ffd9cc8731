// internal/config/config.go
//
// Process configuration from the environment.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win over it.

package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds every setting the binary reads.
type Config struct {
	LogLevel  string
	LogFormat string // "json" or "console"
	Port      string

	WordLength   int
	AnswersFile  string
	AllowedFile  string
	MaxAttempts  int
	BenchWorkers int
	GuessSearch  bool

	DBPath string

	JWTSecret    string
	JWTExpires   time.Duration
	AdminKeyHash string

	DailySalt    string
	ClientOrigin string
	SessionTTL   time.Duration
}

// Load reads .env (if any) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Config {
	return Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		Port:      getEnv("PORT", "5175"),

		WordLength:   envInt("WORD_LENGTH", 5),
		AnswersFile:  os.Getenv("WORDS_ANSWERS_FILE"),
		AllowedFile:  os.Getenv("WORDS_ALLOWED_FILE"),
		MaxAttempts:  envInt("MAX_ATTEMPTS", 10),
		BenchWorkers: envInt("BENCH_WORKERS", runtime.GOMAXPROCS(0)),
		GuessSearch:  envBool("SEARCH_GUESSES", false),

		DBPath: getEnv("DB_PATH", "./data/solver.db"),

		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpires:   time.Duration(envInt("JWT_EXPIRES_HOURS", 24)) * time.Hour,
		AdminKeyHash: os.Getenv("ADMIN_KEY_HASH"),

		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		SessionTTL:   time.Duration(envInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
	}
}

// Logger builds the root logger and sets the global level.
func (c Config) Logger() zerolog.Logger {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if strings.EqualFold(c.LogFormat, "console") {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses k as an integer, falling back to def.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// envBool parses k with strconv.ParseBool, falling back to def.
func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
