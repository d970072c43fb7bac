// Package config loads runtime settings from an optional dotenv file and the environment
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults used when a setting is absent
const (
	DefaultRateAPIURL            = "https://api.exchangerate-api.com/v4/latest/"
	DefaultLocale                = "en-US"
	DefaultMinimumFractionDigits = 2
	DefaultMaximumFractionDigits = 2
	DefaultHTTPTimeout           = 10 * time.Second
	DefaultLogLevel              = "info"
	DefaultListenAddr            = ":8080"
)

// Config holds the settings shared by the server and the CLI
type Config struct {
	RateAPIURL            string
	Locale                string
	MinimumFractionDigits int
	MaximumFractionDigits int
	HTTPTimeout           time.Duration
	RateCacheTTL          time.Duration
	LogLevel              string
	ListenAddr            string
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		RateAPIURL:            DefaultRateAPIURL,
		Locale:                DefaultLocale,
		MinimumFractionDigits: DefaultMinimumFractionDigits,
		MaximumFractionDigits: DefaultMaximumFractionDigits,
		HTTPTimeout:           DefaultHTTPTimeout,
		LogLevel:              DefaultLogLevel,
		ListenAddr:            DefaultListenAddr,
	}
}

// Load reads path as a dotenv file, if it exists, and then the environment.
// Variables already present in the environment win over the file.
func Load(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	cfg := Default()
	cfg.RateAPIURL = getEnv("RATE_API_URL", cfg.RateAPIURL)
	cfg.Locale = DetectLocale()
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)

	var err error
	if cfg.MinimumFractionDigits, err = getInt("MIN_FRACTION_DIGITS", cfg.MinimumFractionDigits); err != nil {
		return Config{}, err
	}
	if cfg.MaximumFractionDigits, err = getInt("MAX_FRACTION_DIGITS", cfg.MaximumFractionDigits); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return Config{}, err
	}
	if cfg.RateCacheTTL, err = getDuration("RATE_CACHE_TTL", cfg.RateCacheTTL); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// DetectLocale returns DEFAULT_LOCALE, or the host locale from LC_ALL or
// LANG as a BCP 47 tag, or DefaultLocale.
func DetectLocale() string {
	if locale := getEnv("DEFAULT_LOCALE", ""); locale != "" {
		return locale
	}
	for _, key := range []string{"LC_ALL", "LANG"} {
		if locale := posixToBCP47(os.Getenv(key)); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// posixToBCP47 turns "pl_PL.UTF-8" into "pl-PL". "C" and "POSIX" have no
// language and yield "".
func posixToBCP47(value string) string {
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	if value == "" || value == "C" || value == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(value, "_", "-")
}

func getEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}

// getDuration accepts Go durations ("30s") and bare seconds ("30")
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}
