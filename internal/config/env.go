package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	UpstreamBaseURL string
	UpstreamTimeout time.Duration

	MySQLDSN  string
	RedisAddr string
	RedisDB   int

	SessionSecret string

	PaymentAttempts int
	PaymentDelay    time.Duration
}

// LoadEnv reads .env when present, then the process environment, applying
// defaults suited to local development. Only SessionSecret has no safe
// default; an empty value is rejected at startup, not here.
func LoadEnv() Env {
	_ = godotenv.Load()

	return Env{
		AppAddr:         getString("APP_ADDR", ":8080"),
		GinMode:         getString("GIN_MODE", ""),
		UpstreamBaseURL: getString("UPSTREAM_BASE_URL", "http://localhost:8000"),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		MySQLDSN:        getString("MYSQL_DSN", ""),
		RedisAddr:       getString("REDIS_ADDR", ""),
		RedisDB:         getInt("REDIS_DB", 0),
		SessionSecret:   getString("SESSION_SECRET", ""),
		PaymentAttempts: getInt("PAYMENT_POLL_ATTEMPTS", 3),
		PaymentDelay:    getDuration("PAYMENT_POLL_DELAY", 2*time.Second),
	}
}

func getString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
