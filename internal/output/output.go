// Package output names resolved screenshots and copies them into the output
// directory without ever overwriting an existing file.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// TimeLayout formats the UTC capture time at the start of each file name.
const TimeLayout = "2006-01-02 15-04-05"

// ErrExists is returned when the destination name is already taken.
var ErrExists = errors.New("destination already exists")

var locationReplacer = strings.NewReplacer(":", "_", "/", "_", `\`, "_")

// SanitizeLocation makes a location name safe to embed in a file name.
func SanitizeLocation(location string) string {
	return locationReplacer.Replace(norm.NFC.String(location))
}

// FileName builds "<UTC time>-<location>.<ext>" for a screenshot taken at ts
// whose original path is src.
func FileName(ts time.Time, location, src string) string {
	name := ts.UTC().Format(TimeLayout) + "-" + SanitizeLocation(location)
	if ext := strings.TrimPrefix(filepath.Ext(src), "."); ext != "" {
		name += "." + ext
	}
	return name
}

// Copier copies files into a destination directory.
type Copier struct {
	dir    string
	dryRun bool

	// names reserved during a dry run
	planned map[string]bool
}

// NewCopier creates a Copier writing into dir. With dryRun set nothing is
// written, but collisions are still detected against existing files and
// earlier planned names.
func NewCopier(dir string, dryRun bool) *Copier {
	return &Copier{dir: dir, dryRun: dryRun, planned: make(map[string]bool)}
}

// Dir returns the destination directory.
func (c *Copier) Dir() string { return c.dir }

// Prepare creates the destination directory if it does not exist.
func (c *Copier) Prepare() error {
	if c.dryRun {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// Copy copies src to name inside the destination directory and returns the
// destination path. Mode and modification time are preserved. An existing
// destination is left untouched and ErrExists is returned.
func (c *Copier) Copy(src, name string) (string, error) {
	dst := filepath.Join(c.dir, name)

	if c.dryRun {
		if c.planned[dst] {
			return dst, ErrExists
		}
		if _, err := os.Lstat(dst); err == nil {
			return dst, ErrExists
		}
		c.planned[dst] = true
		return dst, nil
	}

	return dst, copyFile(src, dst)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrExists
		}
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy contents: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("close destination: %w", err)
	}

	mtime := info.ModTime()
	if err := os.Chtimes(dst, mtime, mtime); err != nil {
		return fmt.Errorf("preserve times: %w", err)
	}
	return nil
}
