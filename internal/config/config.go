// Package config loads application configuration from environment variables.
package config

import (
	"os"
)

// Config holds all configuration values for the driverlog CLI.
// Values are populated by Load from environment variables.
type Config struct {
	// DataPath is the path of the store file. Defaults to "driverlog.db"
	// in the working directory. Set DATA_PATH to override.
	DataPath string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from environment variables and returns a Config.
// Every value has a default, so Load cannot fail on an empty environment;
// the error return is kept for parity with callers that treat configuration
// as fallible.
func Load() (Config, error) {
	cfg := Config{
		DataPath: getEnv("DATA_PATH", "driverlog.db"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
