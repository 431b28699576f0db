package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultPort            = "8080"
	DefaultUpstreamURL     = "https://november7-730026606190.europe-west1.run.app/messages"
	DefaultUpstreamTimeout = 10 * time.Second
	DefaultLogDir          = "logs"
	DefaultRateLimitBurst  = 20
)

// Settings holds everything the service reads from the environment.
type Settings struct {
	Port             string
	UpstreamURL      string
	UpstreamTimeout  time.Duration
	CorsAllowOrigins string
	RefreshSchedule  string
	RateLimitRPS     float64
	RateLimitBurst   int
	LogDir           string
	LogLevel         zapcore.Level
}

// LoadEnv loads .env into the process environment. A missing file is not an error.
func LoadEnv(path string) (bool, error) {
	err := godotenv.Load(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("load %s: %w", path, err)
}

// GetEnv returns the trimmed value of key, or "" when unset.
func GetEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getEnvDefault(key, fallback string) string {
	if v := GetEnv(key); v != "" {
		return v
	}
	return fallback
}

// LoadSettings reads and validates Settings from the environment.
func LoadSettings() (Settings, error) {
	s := Settings{
		Port:             getEnvDefault("PORT", DefaultPort),
		UpstreamURL:      getEnvDefault("UPSTREAM_URL", DefaultUpstreamURL),
		UpstreamTimeout:  DefaultUpstreamTimeout,
		CorsAllowOrigins: getEnvDefault("CORS_ALLOW_ORIGINS", "*"),
		RefreshSchedule:  GetEnv("REFRESH_SCHEDULE"),
		RateLimitBurst:   DefaultRateLimitBurst,
		LogDir:           getEnvDefault("LOG_DIR", DefaultLogDir),
	}

	if _, err := strconv.Atoi(s.Port); err != nil {
		return Settings{}, fmt.Errorf("invalid PORT %q: %w", s.Port, err)
	}

	u, err := url.Parse(s.UpstreamURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Settings{}, fmt.Errorf("invalid UPSTREAM_URL %q: must be an absolute http(s) URL", s.UpstreamURL)
	}

	if raw := GetEnv("UPSTREAM_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Settings{}, fmt.Errorf("invalid UPSTREAM_TIMEOUT %q: must be a positive duration", raw)
		}
		s.UpstreamTimeout = d
	}

	if s.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(s.RefreshSchedule); err != nil {
			return Settings{}, fmt.Errorf("invalid REFRESH_SCHEDULE %q: %w", s.RefreshSchedule, err)
		}
	}

	if raw := GetEnv("RATE_LIMIT_RPS"); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps < 0 {
			return Settings{}, fmt.Errorf("invalid RATE_LIMIT_RPS %q: must be a non-negative number", raw)
		}
		s.RateLimitRPS = rps
	}

	if raw := GetEnv("RATE_LIMIT_BURST"); raw != "" {
		burst, err := strconv.Atoi(raw)
		if err != nil || burst < 1 {
			return Settings{}, fmt.Errorf("invalid RATE_LIMIT_BURST %q: must be a positive integer", raw)
		}
		s.RateLimitBurst = burst
	}

	level, err := ParseLogLevel(GetEnv("LOG_LEVEL"))
	if err != nil {
		return Settings{}, err
	}
	s.LogLevel = level

	return s, nil
}
