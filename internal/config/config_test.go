package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ngmaloney/weather-terminal/internal/models"
	"github.com/ngmaloney/weather-terminal/internal/owm"
)

var configKeys = []string{
	"OPENWEATHER_API_KEY",
	"OPENWEATHER_BASE_URL",
	"OPENWEATHER_GEO_URL",
	"WEATHER_MAX_RETRIES",
	"WEATHER_RETRY_DELAY",
	"WEATHER_RATE_LIMIT",
	"WEATHER_RATE_BURST",
	"WEATHER_DB_PATH",
	"WEATHER_LOG_FILE",
	"WEATHER_UNITS",
}

// clearEnv blanks every config variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()

	if cfg.HasAPIKey() {
		t.Error("HasAPIKey() should be false")
	}
	if cfg.BaseURL != owm.DefaultBaseURL {
		t.Errorf("BaseURL = %s, want %s", cfg.BaseURL, owm.DefaultBaseURL)
	}
	if cfg.GeoURL != owm.DefaultGeoURL {
		t.Errorf("GeoURL = %s, want %s", cfg.GeoURL, owm.DefaultGeoURL)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelay != time.Second {
		t.Errorf("RetryDelay = %v, want 1s", cfg.RetryDelay)
	}
	if cfg.DBPath != DefaultDBPath {
		t.Errorf("DBPath = %s, want %s", cfg.DBPath, DefaultDBPath)
	}
	if cfg.Units != models.Celsius {
		t.Errorf("Units = %s, want C", cfg.Units)
	}
	if len(cfg.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", cfg.Warnings)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", " secret ")
	t.Setenv("OPENWEATHER_BASE_URL", "http://localhost:8080")
	t.Setenv("WEATHER_MAX_RETRIES", "5")
	t.Setenv("WEATHER_RETRY_DELAY", "250ms")
	t.Setenv("WEATHER_RATE_LIMIT", "0")
	t.Setenv("WEATHER_UNITS", "imperial")

	cfg := FromEnv()

	if cfg.APIKey != "secret" {
		t.Errorf("APIKey = %q, want trimmed 'secret'", cfg.APIKey)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %s", cfg.BaseURL)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 250*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 250ms", cfg.RetryDelay)
	}
	if cfg.Limiter() != nil {
		t.Error("Limiter() should be nil when rate limit is 0")
	}
	if cfg.Units != models.Fahrenheit {
		t.Errorf("Units = %s, want F", cfg.Units)
	}

	r := cfg.Retrier()
	if r.MaxRetries != 5 || r.Delay != 250*time.Millisecond {
		t.Errorf("Retrier() = %+v", r)
	}
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(*Config) bool
	}{
		{"WEATHER_MAX_RETRIES", "many", func(c *Config) bool { return c.MaxRetries == 3 }},
		{"WEATHER_MAX_RETRIES", "-1", func(c *Config) bool { return c.MaxRetries == 3 }},
		{"WEATHER_RETRY_DELAY", "soon", func(c *Config) bool { return c.RetryDelay == time.Second }},
		{"WEATHER_RATE_LIMIT", "fast", func(c *Config) bool { return c.RateLimit == DefaultRateLimit }},
		{"WEATHER_RATE_BURST", "0", func(c *Config) bool { return c.RateBurst == DefaultRateBurst }},
		{"WEATHER_UNITS", "kelvin", func(c *Config) bool { return c.Units == models.Celsius }},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg := FromEnv()
			if !tt.check(cfg) {
				t.Errorf("%s=%s did not fall back to default: %+v", tt.key, tt.value, cfg)
			}
			if len(cfg.Warnings) != 1 {
				t.Errorf("Warnings = %v, want exactly one", cfg.Warnings)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, even if empty
	os.Unsetenv("OPENWEATHER_API_KEY")
	os.Unsetenv("WEATHER_MAX_RETRIES")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "OPENWEATHER_API_KEY=from-dotenv\nWEATHER_MAX_RETRIES=1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("OPENWEATHER_API_KEY")
		os.Unsetenv("WEATHER_MAX_RETRIES")
	})

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.APIKey != "from-dotenv" {
		t.Errorf("APIKey = %q, want from-dotenv", cfg.APIKey)
	}
	if cfg.MaxRetries != 1 {
		t.Errorf("MaxRetries = %d, want 1", cfg.MaxRetries)
	}
}

func TestLoadFile_MissingFileIsNotAnError(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadFile() returned nil config")
	}
}

func TestClientOptions(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", "abc")

	client := owm.New(FromEnv().ClientOptions()...)
	if !client.HasCredential() {
		t.Error("client built from config should carry the API key")
	}
}
