package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// AppConfig holds all application configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// WebPort is the port the estimator API listens on.
	WebPort int
	// PublicURL is the base URL share links are built against.
	PublicURL string

	// EstimateCacheSize bounds the number of memoized estimates.
	EstimateCacheSize int

	// NativeDenom is the on-chain base denom of the native asset (e.g., "uluna").
	NativeDenom string
	// NativeDisplayDenom is the symbol shown to users (e.g., "LUNA").
	NativeDisplayDenom string
	// NativePrecision is the number of decimals between NativeDenom and its display unit.
	NativePrecision int
	// ChainRefreshInterval is how often native inputs are refreshed from the node. Zero disables it.
	ChainRefreshInterval time.Duration
)

// LoadConfig loads configuration from environment variables and sets the global config vars.
// Every variable has a default; only malformed values are an error.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	var err error

	WebPort, err = getEnvAsInt("WEB_PORT", 8080)
	if err != nil {
		return err
	}
	if WebPort <= 0 || WebPort > 65535 {
		return fmt.Errorf("environment variable WEB_PORT must be a valid port, got: %d", WebPort)
	}

	PublicURL = getEnvOrDefault("PUBLIC_URL", fmt.Sprintf("http://localhost:%d/", WebPort))

	EstimateCacheSize, err = getEnvAsInt("ESTIMATE_CACHE_SIZE", 256)
	if err != nil {
		return err
	}
	if EstimateCacheSize <= 0 {
		return errors.New("environment variable ESTIMATE_CACHE_SIZE must be positive")
	}

	NativeDenom = getEnvOrDefault("NATIVE_DENOM", "uluna")
	NativeDisplayDenom = getEnvOrDefault("NATIVE_DISPLAY_DENOM", SymbolForDenom(NativeDenom))

	NativePrecision, err = getEnvAsInt("NATIVE_PRECISION", 6)
	if err != nil {
		return err
	}

	ChainRefreshInterval, err = getEnvAsDuration("CHAIN_REFRESH_INTERVAL", 10*time.Minute)
	if err != nil {
		return err
	}

	// Load endpoint configuration
	if err := loadEndpointConfig(); err != nil {
		return err
	}

	log.Debug().
		Int("WebPort", WebPort).
		Str("NativeDenom", NativeDenom).
		Str("NativeDisplayDenom", NativeDisplayDenom).
		Int("NativePrecision", NativePrecision).
		Dur("ChainRefreshInterval", ChainRefreshInterval).
		Msg("Configuration loaded successfully.")

	return nil
}

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errors.New("environment variable " + key + " is required but not set")
}

// getEnvOrDefault retrieves a string environment variable, falling back when unset or blank.
func getEnvOrDefault(key, fallback string) string {
	value, err := getEnv(key)
	if err != nil || strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// getEnvAsInt retrieves an environment variable as an int. Returns error if set but invalid.
func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnvOrDefault(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid int, got: " + valueStr)
	}
	return value, nil
}

// getEnvAsDuration accepts Go durations ("10m") or plain seconds ("600").
func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	valueStr := getEnvOrDefault(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value < 0 {
		return 0, errors.New("environment variable " + key + " must be a valid duration, got: " + valueStr)
	}
	return value, nil
}
