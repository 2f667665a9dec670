// Package config provides shared configuration utilities.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables understood by the commands.
const (
	EnvConfigPath = "DROPTAP_CONFIG"
	EnvLogLevel   = "DROPTAP_LOG_LEVEL"
	EnvLogFile    = "DROPTAP_LOG_FILE"
	EnvReportURL  = "DROPTAP_REPORT_URL"
	EnvMute       = "DROPTAP_MUTE"
	EnvVolume     = "DROPTAP_VOLUME"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvBool parses a boolean environment variable, returning fallback when
// the variable is unset or not a valid boolean.
func GetEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

// GetEnvFloat parses a float environment variable, returning fallback when
// the variable is unset or not a valid number.
func GetEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return f
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given) without overriding variables already set in the environment.
// Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
