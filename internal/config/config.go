// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ngmaloney/weather-terminal/internal/models"
	"github.com/ngmaloney/weather-terminal/internal/owm"
	"golang.org/x/time/rate"
)

const (
	DefaultRateLimit = 1.0
	DefaultRateBurst = 5
	DefaultDBPath    = "data/weather-terminal.db"
	DefaultLogFile   = "data/weather-terminal.log"
)

// Config holds everything the CLI and TUI need to build their dependencies
type Config struct {
	APIKey  string
	BaseURL string
	GeoURL  string

	MaxRetries int
	RetryDelay time.Duration

	// RateLimit is requests per second; zero disables client-side limiting
	RateLimit float64
	RateBurst int

	DBPath  string
	LogFile string
	Units   models.TemperatureUnit

	// Warnings lists values that were present but invalid and replaced by defaults
	Warnings []string
}

// Load reads .env (if present) and then the process environment. Variables
// already set in the environment win over .env entries.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment only
func FromEnv() *Config {
	cfg := &Config{
		APIKey:     strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY")),
		BaseURL:    stringEnv("OPENWEATHER_BASE_URL", owm.DefaultBaseURL),
		GeoURL:     stringEnv("OPENWEATHER_GEO_URL", owm.DefaultGeoURL),
		MaxRetries: owm.DefaultMaxRetries,
		RetryDelay: owm.DefaultRetryDelay,
		RateLimit:  DefaultRateLimit,
		RateBurst:  DefaultRateBurst,
		DBPath:     stringEnv("WEATHER_DB_PATH", DefaultDBPath),
		LogFile:    stringEnv("WEATHER_LOG_FILE", DefaultLogFile),
		Units:      models.Celsius,
	}

	if v, ok := lookup("WEATHER_MAX_RETRIES"); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		} else {
			cfg.warn("WEATHER_MAX_RETRIES", v, cfg.MaxRetries)
		}
	}

	if v, ok := lookup("WEATHER_RETRY_DELAY"); ok {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.RetryDelay = d
		} else {
			cfg.warn("WEATHER_RETRY_DELAY", v, cfg.RetryDelay)
		}
	}

	if v, ok := lookup("WEATHER_RATE_LIMIT"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.RateLimit = f
		} else {
			cfg.warn("WEATHER_RATE_LIMIT", v, cfg.RateLimit)
		}
	}

	if v, ok := lookup("WEATHER_RATE_BURST"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateBurst = n
		} else {
			cfg.warn("WEATHER_RATE_BURST", v, cfg.RateBurst)
		}
	}

	if v, ok := lookup("WEATHER_UNITS"); ok {
		if u, err := models.ParseTemperatureUnit(v); err == nil {
			cfg.Units = u
		} else {
			cfg.warn("WEATHER_UNITS", v, cfg.Units)
		}
	}

	return cfg
}

// HasAPIKey reports whether a credential was configured
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}

// Retrier returns a retrier with the configured budget and delay
func (c *Config) Retrier() *owm.Retrier {
	return &owm.Retrier{MaxRetries: c.MaxRetries, Delay: c.RetryDelay}
}

// Limiter returns the client-side rate limiter, or nil when limiting is disabled
func (c *Config) Limiter() *rate.Limiter {
	if c.RateLimit <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(c.RateLimit), c.RateBurst)
}

// ClientOptions translates the config into weather client options
func (c *Config) ClientOptions() []owm.ClientOption {
	return []owm.ClientOption{
		owm.APIKeyOption(c.APIKey),
		owm.BaseURLOption(c.BaseURL),
		owm.GeoURLOption(c.GeoURL),
		owm.RetrierOption(c.Retrier()),
		owm.LimiterOption(c.Limiter()),
	}
}

func (c *Config) warn(key, value string, fallback any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf("invalid %s=%q, using %v", key, value, fallback))
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func stringEnv(key, fallback string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return fallback
}
