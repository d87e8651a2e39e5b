package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "EDSHOT"

// Environment variables most often set by hand.
const (
	EnvJournalDir   = "EDSHOT_JOURNAL_DIR"
	EnvOutputDir    = "EDSHOT_OUTPUT_DIR"
	EnvLogLevel     = "EDSHOT_LOG_LEVEL"
	EnvLogJSON      = "EDSHOT_LOG_JSON"
	EnvIndexBackend = "EDSHOT_INDEX_BACKEND"
	EnvIndexPath    = "EDSHOT_INDEX_PATH"
)

// LoadEnvFile adds the variables in envFile to the process environment.
// Variables already set in the process win. A missing file is not an error.
func LoadEnvFile(envFile string) error {
	if envFile == "" {
		return nil
	}
	if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("reading env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides config values from EDSHOT_* environment variables.
// Fields whose variable is unset keep their current value.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("processing environment: %w", err)
	}
	return c.Validate()
}
