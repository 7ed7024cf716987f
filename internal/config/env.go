package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	// Base URL of the carrier booking API that search, trip details
	// and payments are proxied to.
	UpstreamBaseURL string
	UpstreamTimeout time.Duration

	// Optional shared backends. Empty means in-process only.
	RedisAddr string
	MySQLDSN  string

	// HMAC secret for the booking form token.
	FormTokenSecret string

	// Interval of the rate-limit entry sweep.
	SweepInterval time.Duration
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	upstream := strings.TrimSpace(os.Getenv("UPSTREAM_BASE_URL"))
	if upstream == "" {
		upstream = "https://api.rapidoochoa.example"
	}

	secret := strings.TrimSpace(os.Getenv("FORM_TOKEN_SECRET"))
	if secret == "" {
		secret = "form-token-secret-change-me"
	}

	return Env{
		AppAddr:         appAddr,
		GinMode:         strings.TrimSpace(os.Getenv("GIN_MODE")),
		UpstreamBaseURL: strings.TrimRight(upstream, "/"),
		UpstreamTimeout: durationEnv("UPSTREAM_TIMEOUT_SECONDS", 15*time.Second),
		RedisAddr:       strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		MySQLDSN:        strings.TrimSpace(os.Getenv("MYSQL_DSN")),
		FormTokenSecret: secret,
		SweepInterval:   durationEnv("SWEEP_INTERVAL_SECONDS", time.Minute),
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
