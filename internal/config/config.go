package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/edshot/config.yaml"

// Index backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds all edshot configuration. Every leaf field can also be set
// from the environment as EDSHOT_<SECTION>_<FIELD>, e.g. EDSHOT_JOURNAL_DIR,
// EDSHOT_SCREENSHOTS_TIMESTAMP_SOURCE or EDSHOT_LOG_LEVEL.
type Config struct {
	Journal     JournalConfig    `yaml:"journal"`
	Screenshots ScreenshotConfig `yaml:"screenshots"`
	Output      OutputConfig     `yaml:"output"`
	Index       IndexConfig      `yaml:"index"`
	Logging     LoggingConfig    `yaml:"logging" envconfig:"LOG"`
}

type JournalConfig struct {
	Dir            string `yaml:"dir"`
	Pattern        string `yaml:"pattern"`
	TimestampField string `yaml:"timestamp_field" split_words:"true"`
	EventField     string `yaml:"event_field" split_words:"true"`
	LocationField  string `yaml:"location_field" split_words:"true"`
	CaptureEvent   string `yaml:"capture_event" split_words:"true"`
}

type ScreenshotConfig struct {
	Extensions      []string `yaml:"extensions"`
	TimestampSource string   `yaml:"timestamp_source" split_words:"true"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type IndexConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that cannot be corrected later and normalizes the
// index backend name.
func (c *Config) Validate() error {
	c.Index.Backend = strings.ToLower(c.Index.Backend)
	switch c.Index.Backend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("invalid index backend %q (use %s or %s)", c.Index.Backend, BackendMemory, BackendSQLite)
	}
	if _, err := filepath.Match(c.Journal.Pattern, ""); err != nil {
		return fmt.Errorf("invalid journal pattern %q: %w", c.Journal.Pattern, err)
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
