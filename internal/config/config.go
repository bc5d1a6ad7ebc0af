// Package config loads application configuration from environment
// variables. Nothing in here is hard-coded into the rest of the app;
// handlers receive the loaded Config explicitly.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Only the JWT signing secret is mandatory;
// everything else falls back to a sensible default so a bare process can
// still start in development.
type Config struct {
	Env            string   // application environment (e.g. "dev", "prod")
	Host           string   // host interface to bind
	Port           string   // HTTP port to listen on
	DatabasePath   string   // path to the SQLite database file
	JWTSecret      string   // secret used to sign admin tokens (required)
	TokenTTLHours  int      // admin token validity window in hours
	BcryptCost     int      // bcrypt cost for password hashing
	AllowedOrigins []string // cross-origin hosts allowed by CORS
	BodyLimit      string   // maximum request body size (echo format, e.g. "10K")
	RabbitURL      string   // AMQP broker URL; empty disables the queue notifier
}

// Load reads configuration from the environment. A missing JWT_SECRET is
// fatal: the process refuses to start rather than sign tokens with a
// guessable default.
func Load() Config {
	return Config{
		Env:            envStr("APP_ENV", "development"),
		Host:           envStr("APP_HOST", "127.0.0.1"),
		Port:           envStr("APP_PORT", "5000"),
		DatabasePath:   envStr("DATABASE_PATH", "data/bookings.db"),
		JWTSecret:      must("JWT_SECRET"),
		TokenTTLHours:  envInt("TOKEN_TTL_HOURS", 24),
		BcryptCost:     envInt("BCRYPT_COST", 12),
		AllowedOrigins: splitOrigins(envStr("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		BodyLimit:      envStr("BODY_LIMIT", "10K"),
		RabbitURL:      os.Getenv("RABBITMQ_URL"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
