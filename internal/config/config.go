// Package config loads runtime settings for roster-scraper.
//
// Settings come from built-in defaults, then environment variables (optionally
// seeded from a .env file in the working directory). Command-line flags are
// applied on top by the cli package.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/nuhockeyratings/roster-scraper/internal/logger"
	"github.com/nuhockeyratings/roster-scraper/internal/scraper"
)

const (
	envBaseURL    = "ROSTER_BASE_URL"
	envUserAgent  = "ROSTER_USER_AGENT"
	envTimeout    = "ROSTER_TIMEOUT"
	envRetries    = "ROSTER_RETRIES"
	envDelay      = "ROSTER_DELAY"
	envOutputDir  = "ROSTER_OUTPUT_DIR"
	envLogLevel   = "LOG_LEVEL"
	envLogFile    = "LOG_FILE"
	defaultOutput = "."
)

// Config holds runtime configuration for a scrape run
type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	Delay      time.Duration
	OutputDir  string
	LogLevel   string
	LogFile    string
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		BaseURL:   scraper.DefaultBaseURL,
		UserAgent: scraper.UserAgent,
		Timeout:   scraper.Timeout,
		OutputDir: defaultOutput,
		LogLevel:  string(logger.LevelInfo),
	}
}

// Load reads an optional .env file and then the environment
func Load() (Config, error) {
	_ = godotenv.Load() // a missing .env is fine
	return FromEnv()
}

// FromEnv overlays environment variables on the defaults
func FromEnv() (Config, error) {
	cfg := Default()

	cfg.BaseURL = envOrDefault(envBaseURL, cfg.BaseURL)
	cfg.UserAgent = envOrDefault(envUserAgent, cfg.UserAgent)
	cfg.OutputDir = envOrDefault(envOutputDir, cfg.OutputDir)
	cfg.LogLevel = envOrDefault(envLogLevel, cfg.LogLevel)
	cfg.LogFile = envOrDefault(envLogFile, cfg.LogFile)

	var err error
	if cfg.Timeout, err = durationEnv(envTimeout, cfg.Timeout); err != nil {
		return cfg, err
	}
	if cfg.Delay, err = durationEnv(envDelay, cfg.Delay); err != nil {
		return cfg, err
	}
	if cfg.MaxRetries, err = intEnv(envRetries, cfg.MaxRetries); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL: %q (must be an absolute http or https URL)", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s (must be positive)", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("invalid retries: %d (must not be negative)", c.MaxRetries)
	}
	if c.Delay < 0 {
		return fmt.Errorf("invalid delay: %s (must not be negative)", c.Delay)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ScraperOptions converts the configuration for scraper.NewWithOptions
func (c Config) ScraperOptions() scraper.Options {
	return scraper.Options{
		BaseURL:    c.BaseURL,
		UserAgent:  c.UserAgent,
		Timeout:    c.Timeout,
		MaxRetries: c.MaxRetries,
	}
}

func envOrDefault(key, defaultValue string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultValue
}

func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func intEnv(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s: %w", key, err)
	}
	return val, nil
}
