// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// defaultFeedURL scans the Atlanta sectional chart bounding box.
const defaultFeedURL = "https://www.aviationweather.gov/cgi-bin/json/MetarJSON.php" +
	"?density=all&bbox=-85.6898,30.1588,-80.8209,35.1475"

// defaultStations is the Atlanta sectional chart allow-list.
const defaultStations = "KCNI,KGVL,KVPC,KJCA,KRYY,KLZU,KWDR,KPUJ,KMGE,KPDK," +
	"KFTY,KCTJ,KCVC,KATL,KCCO,KFFC,KHMP,KLGC,KOPN"

// Config holds all service settings, populated from environment variables.
type Config struct {
	FeedURL       string
	FeedTimeout   time.Duration
	FeedRate      float64 // feed requests per second admitted by the limiter
	FetchInterval time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// DatabaseURL selects the postgres product store; empty keeps the
	// in-memory store.
	DatabaseURL string

	// Station allow-list and group aliases feeding the registry.
	Stations []string
	Groups   map[string][]string
}

// GetLogLevel implements observability.LoggerConfig.
func (c *Config) GetLogLevel() string { return c.LogLevel }

// GetLogFormat implements observability.LoggerConfig.
func (c *Config) GetLogFormat() string { return c.LogFormat }

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	feedTimeout, err := durationEnv("FEED_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	fetchInterval, err := durationEnv("FETCH_INTERVAL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	feedRate, err := floatEnv("FEED_RATE_LIMIT", 1)
	if err != nil {
		return nil, err
	}

	stationList := splitList(envOrDefault("ALLOWED_STATIONS", defaultStations))
	groups, err := parseGroups(os.Getenv("STATION_GROUPS"), stationList)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		FeedURL:         envOrDefault("FEED_URL", defaultFeedURL),
		FeedTimeout:     feedTimeout,
		FeedRate:        feedRate,
		FetchInterval:   fetchInterval,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Stations:        stationList,
		Groups:          groups,
	}

	if cfg.FeedURL == "" {
		return nil, errors.New("FEED_URL is required")
	}
	if len(cfg.Stations) == 0 {
		return nil, errors.New("ALLOWED_STATIONS must list at least one station")
	}
	if cfg.FeedTimeout <= 0 {
		return nil, errors.New("invalid FEED_TIMEOUT")
	}
	if cfg.FetchInterval <= 0 {
		return nil, errors.New("invalid FETCH_INTERVAL")
	}
	if cfg.FeedRate <= 0 {
		return nil, errors.New("invalid FEED_RATE_LIMIT")
	}

	return cfg, nil
}

// parseGroups parses STATION_GROUPS entries of the form
// "alias=CODE|CODE;alias2=CODE". When unset, a single "atlanta" group over
// the whole allow-list is configured, matching the upstream chart grouping.
func parseGroups(raw string, allStations []string) (map[string][]string, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string][]string{"atlanta": allStations}, nil
	}

	groups := make(map[string][]string)
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		alias, members, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid STATION_GROUPS entry %q", entry)
		}
		alias = strings.TrimSpace(alias)
		codes := splitOn(members, "|")
		if alias == "" || len(codes) == 0 {
			return nil, fmt.Errorf("invalid STATION_GROUPS entry %q", entry)
		}
		groups[alias] = codes
	}
	return groups, nil
}

func splitList(raw string) []string {
	return splitOn(raw, ",")
}

func splitOn(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
