package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, filepath.Join("~", "Saved Games", "Frontier Developments", "Elite Dangerous"), cfg.Journal.Dir)
	assert.Equal(t, "Journal*.log", cfg.Journal.Pattern)
	assert.Equal(t, "timestamp", cfg.Journal.TimestampField)
	assert.Equal(t, "event", cfg.Journal.EventField)
	assert.Equal(t, "StarSystem", cfg.Journal.LocationField)
	assert.Equal(t, "Screenshot", cfg.Journal.CaptureEvent)
	assert.Equal(t, []string{".jpg", ".bmp"}, cfg.Screenshots.Extensions)
	assert.Equal(t, "auto", cfg.Screenshots.TimestampSource)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, BackendMemory, cfg.Index.Backend)
	assert.Equal(t, ":memory:", cfg.Index.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.JSON)
	assert.NoError(t, cfg.Validate())
}

func TestLoadValidYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
journal:
  dir: "/data/journals"
  location_field: "SystemName"
screenshots:
  extensions: [".png"]
output:
  dir: "/data/sorted"
index:
  backend: "SQLite"
logging:
  level: "debug"
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "/data/journals", cfg.Journal.Dir)
	assert.Equal(t, "SystemName", cfg.Journal.LocationField)
	assert.Equal(t, []string{".png"}, cfg.Screenshots.Extensions)
	assert.Equal(t, "/data/sorted", cfg.Output.Dir)
	assert.Equal(t, BackendSQLite, cfg.Index.Backend)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Non-overridden values remain defaults
	assert.Equal(t, "Journal*.log", cfg.Journal.Pattern)
	assert.Equal(t, "Screenshot", cfg.Journal.CaptureEvent)
	assert.Equal(t, "auto", cfg.Screenshots.TimestampSource)
	assert.Equal(t, ":memory:", cfg.Index.Path)
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	err := os.WriteFile(cfgPath, []byte(":::not valid yaml{{{"), 0644)
	require.NoError(t, err)

	_, err = Load(cfgPath)
	assert.Error(t, err)
}

func TestLoadInvalidBackendReturnsError(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("index:\n  backend: redis\n"), 0644))

	_, err := Load(cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid index backend")
}

func TestLoadInvalidPatternReturnsError(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("journal:\n  pattern: \"[\"\n"), 0644))

	_, err := Load(cfgPath)
	assert.Error(t, err)
}

func TestLoadNonExistentFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing", "config.yaml"))
	assert.Error(t, err)
}

func TestLoadOrCreateCreatesDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "deep", "config.yaml")

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, BackendMemory, cfg.Index.Backend)

	// File should now exist on disk
	_, statErr := os.Stat(cfgPath)
	assert.NoError(t, statErr)

	// File should be valid YAML loadable again
	cfg2, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Journal, cfg2.Journal)
	assert.Equal(t, cfg.Screenshots, cfg2.Screenshots)
}

func TestLoadOrCreateLoadsExistingFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  dir: sorted\n"), 0644))

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "sorted", cfg.Output.Dir)
	assert.Equal(t, "Journal*.log", cfg.Journal.Pattern)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/journals")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "journals"), got)

	got, err = ExpandPath("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvJournalDir, "/env/journals")
	t.Setenv(EnvOutputDir, "/env/out")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogJSON, "true")
	t.Setenv(EnvIndexBackend, "SQLite")
	t.Setenv(EnvIndexPath, "/env/index.db")
	t.Setenv("EDSHOT_SCREENSHOTS_EXTENSIONS", ".png,.jpg")
	t.Setenv("EDSHOT_SCREENSHOTS_TIMESTAMP_SOURCE", "mtime")
	t.Setenv("EDSHOT_JOURNAL_LOCATION_FIELD", "System")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "/env/journals", cfg.Journal.Dir)
	assert.Equal(t, "/env/out", cfg.Output.Dir)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, BackendSQLite, cfg.Index.Backend)
	assert.Equal(t, "/env/index.db", cfg.Index.Path)
	assert.Equal(t, []string{".png", ".jpg"}, cfg.Screenshots.Extensions)
	assert.Equal(t, "mtime", cfg.Screenshots.TimestampSource)
	assert.Equal(t, "System", cfg.Journal.LocationField)
}

func TestApplyEnv_UnsetKeepsFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  dir: /file/out\nlogging:\n  level: debug\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	t.Setenv(EnvLogLevel, "error")
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "/file/out", cfg.Output.Dir)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "Journal*.log", cfg.Journal.Pattern)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	t.Setenv(EnvLogJSON, "maybe")
	assert.Error(t, DefaultConfig().ApplyEnv())

	t.Setenv(EnvLogJSON, "false")
	t.Setenv(EnvIndexBackend, "redis")
	assert.Error(t, DefaultConfig().ApplyEnv())
}

func TestLoadEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(EnvOutputDir+"=/dotenv/out\n"+EnvLogLevel+"=warn\n"), 0644))

	// Registers cleanup for both variables; the process value must win.
	t.Setenv(EnvOutputDir, "")
	t.Setenv(EnvLogLevel, "error")
	require.NoError(t, os.Unsetenv(EnvOutputDir))

	require.NoError(t, LoadEnvFile(envFile))

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "/dotenv/out", cfg.Output.Dir)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadEnvFile_MissingFileIsFine(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), ".env")))
	assert.NoError(t, LoadEnvFile(""))
}
