// Package config reads process configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string
	RedisAddr   string
	Port        string
	SyncSecret  string

	YouTubeAPIKey     string
	YouTubeEndpoint   string
	YouTubeTimeout    time.Duration
	YouTubeRPS        float64
	YouTubeMaxRetries int

	SyncMaxPages       int
	SyncFetchDurations bool
	SyncIncremental    bool
	SyncSchedule       string

	PicksMax  int
	WatchHost string

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads .env (if present) and the environment. Malformed values are
// errors; absent ones take their defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("Error loading .env file")
	}

	p := &parser{}
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		Port:        getEnv("PORT", "8080"),
		SyncSecret:  os.Getenv("SYNC_SECRET"),

		YouTubeAPIKey:     os.Getenv("YOUTUBE_API_KEY"),
		YouTubeEndpoint:   os.Getenv("YOUTUBE_API_ENDPOINT"),
		YouTubeTimeout:    p.duration("YOUTUBE_HTTP_TIMEOUT", 15*time.Second),
		YouTubeRPS:        p.float("YOUTUBE_RPS", 5),
		YouTubeMaxRetries: p.int("YOUTUBE_MAX_RETRIES", 3),

		SyncMaxPages:       p.int("SYNC_MAX_PAGES", 50),
		SyncFetchDurations: p.bool("SYNC_FETCH_DURATIONS", true),
		SyncIncremental:    p.bool("SYNC_INCREMENTAL", false),
		SyncSchedule:       getEnv("SYNC_SCHEDULE", "@every 1h"),

		PicksMax:  p.int("PICKS_MAX", 50),
		WatchHost: getEnv("WATCH_HOST", "www.youtube.com"),

		RateLimitRPS:   p.float("RATE_LIMIT_RPS", 2),
		RateLimitBurst: p.int("RATE_LIMIT_BURST", 5),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogFile:   os.Getenv("LOG_FILE"),
	}
	if p.err != nil {
		return nil, p.err
	}
	return cfg, nil
}

// Validate checks what every syncing process needs.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.YouTubeAPIKey == "" {
		return errors.New("YOUTUBE_API_KEY is required")
	}
	if c.YouTubeMaxRetries < 0 {
		return errors.New("YOUTUBE_MAX_RETRIES must not be negative")
	}
	if c.SyncMaxPages <= 0 {
		return errors.New("SYNC_MAX_PAGES must be greater than 0")
	}
	if c.PicksMax <= 0 {
		return errors.New("PICKS_MAX must be greater than 0")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// parser keeps the first conversion error.
type parser struct {
	err error
}

func (p *parser) lookup(key string) (string, bool) {
	value, exists := os.LookupEnv(key)
	return value, exists && value != "" && p.err == nil
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	value, ok := p.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.err = errors.Wrapf(err, "invalid duration for %s", key)
		return def
	}
	return d
}

func (p *parser) int(key string, def int) int {
	value, ok := p.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.err = errors.Wrapf(err, "invalid integer for %s", key)
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	value, ok := p.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.err = errors.Wrapf(err, "invalid number for %s", key)
		return def
	}
	return f
}

func (p *parser) bool(key string, def bool) bool {
	value, ok := p.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		p.err = errors.Wrapf(err, "invalid boolean for %s", key)
		return def
	}
	return b
}
