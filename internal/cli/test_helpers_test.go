package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// workspace is a temporary journal directory, screenshot directory, output
// directory and config file.
type workspace struct {
	config   string
	journals string
	shots    string
	out      string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	root := t.TempDir()
	ws := workspace{
		config:   filepath.Join(root, "config.yaml"),
		journals: filepath.Join(root, "journals"),
		shots:    filepath.Join(root, "shots"),
		out:      filepath.Join(root, "out"),
	}
	require.NoError(t, os.MkdirAll(ws.journals, 0755))
	require.NoError(t, os.MkdirAll(ws.shots, 0755))

	cfg := "journal:\n  dir: " + ws.journals + "\n" +
		"output:\n  dir: " + ws.out + "\n" +
		"screenshots:\n  timestamp_source: mtime\n" +
		"logging:\n  level: error\n"
	require.NoError(t, os.WriteFile(ws.config, []byte(cfg), 0644))

	journal := `{"timestamp":"2023-11-14T22:00:00Z","event":"Location","StarSystem":"Sol"}
{"timestamp":"2023-11-14T22:05:00Z","event":"Music"}
{"timestamp":"2023-11-14T22:10:00Z","event":"FSDJump","StarSystem":"Col 285 Sector YZ-A d1"}
`
	require.NoError(t, os.WriteFile(filepath.Join(ws.journals, "Journal.2023-11-14T215900.01.log"), []byte(journal), 0644))
	return ws
}

func (ws workspace) shot(t *testing.T, name string, ts int64) string {
	t.Helper()
	path := filepath.Join(ws.shots, name)
	require.NoError(t, os.WriteFile(path, []byte("img"), 0644))
	mtime := time.Unix(ts, 0)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

// args prefixes the workspace config and a nonexistent env file.
func (ws workspace) args(extra ...string) []string {
	base := []string{"--config", ws.config, "--env-file", filepath.Join(filepath.Dir(ws.config), ".env")}
	return append(base, extra...)
}
