package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/runnerr0/edshot/internal/config"
	"github.com/runnerr0/edshot/internal/journal"
	"github.com/runnerr0/edshot/internal/logging"
	"github.com/runnerr0/edshot/internal/mapper"
	"github.com/runnerr0/edshot/internal/storage"
)

// loadConfig resolves configuration from the config file, the environment
// and finally the global flags, then expands ~ in paths.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if globals.Config != "" {
		cfg, err = config.Load(globals.Config)
	} else {
		cfg, err = config.LoadOrCreate()
	}
	if err != nil {
		return nil, err
	}

	if err := config.LoadEnvFile(globals.EnvFile); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if globals.JournalDir != "" {
		cfg.Journal.Dir = globals.JournalDir
	}
	if globals.Output != "" {
		cfg.Output.Dir = globals.Output
	}
	if globals.Index != "" {
		cfg.Index.Backend = globals.Index
	}
	if globals.Verbose {
		cfg.Logging.Level = "debug"
	}
	if globals.JSON {
		cfg.Logging.JSON = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Journal.Dir, err = config.ExpandPath(cfg.Journal.Dir); err != nil {
		return nil, err
	}
	if cfg.Output.Dir, err = config.ExpandPath(cfg.Output.Dir); err != nil {
		return nil, err
	}
	if cfg.Index.Path != storage.MemoryDSN {
		if cfg.Index.Path, err = config.ExpandPath(cfg.Index.Path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// newMapper loads configuration and builds a logger and Mapper from it.
func newMapper(globals *GlobalFlags) (*mapper.Mapper, *zap.Logger, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, nil, err
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.JSON)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	opts, err := mapper.OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	opts.DryRun = globals.DryRun

	return mapper.New(opts, log), log, nil
}

// parseQueryTime accepts Unix seconds or any timestamp the journal parser
// understands.
func parseQueryTime(s string) (int64, error) {
	if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return n, nil
	}
	t, err := journal.ParseTimestamp(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: use Unix seconds or RFC 3339", s)
	}
	return t.Unix(), nil
}

// formatTime renders a Unix timestamp for human output.
func formatTime(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04:05 UTC")
}

// formatNumber formats an int with comma separators.
func formatNumber(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if i > 0 {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
