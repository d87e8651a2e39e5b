// Package screenshot finds candidate screenshot files and works out when they
// were taken.
package screenshot

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultExtensions are the formats Elite Dangerous writes screenshots in.
var DefaultExtensions = []string{".jpg", ".bmp"}

// Candidate is a screenshot file and its capture time.
type Candidate struct {
	Path      string
	Timestamp time.Time
}

// Unix returns the capture time in Unix seconds.
func (c Candidate) Unix() int64 {
	return c.Timestamp.Unix()
}

// Missing records an input path that could not be used.
type Missing struct {
	Path string
	Err  error
}

// Finder discovers screenshot files.
type Finder struct {
	extensions  map[string]bool
	timestamper Timestamper
	log         *zap.Logger
}

// NewFinder creates a Finder matching extensions (case-insensitive, with or
// without the leading dot). A nil timestamper uses DetectTimestamper.
func NewFinder(extensions []string, timestamper Timestamper, log *zap.Logger) *Finder {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if timestamper == nil {
		timestamper = DetectTimestamper()
	}
	if log == nil {
		log = zap.NewNop()
	}

	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}
	return &Finder{extensions: exts, timestamper: timestamper, log: log}
}

// Matches reports whether name has a recognised extension.
func (f *Finder) Matches(name string) bool {
	return f.extensions[strings.ToLower(filepath.Ext(name))]
}

// Discover expands paths into candidates. A file path is used as given; a
// directory contributes its direct entries with a recognised extension.
// Paths that are missing or unreadable are logged and returned in missing.
func (f *Finder) Discover(paths []string) (candidates []Candidate, missing []Missing) {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			f.log.Warn("input path not found", zap.String("path", p), zap.Error(err))
			missing = append(missing, Missing{Path: p, Err: err})
			continue
		}

		if !info.IsDir() {
			if c, ok := f.candidate(p, &missing); ok {
				candidates = append(candidates, c)
			}
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			f.log.Warn("cannot read input directory", zap.String("path", p), zap.Error(err))
			missing = append(missing, Missing{Path: p, Err: err})
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !f.Matches(e.Name()) {
				continue
			}
			if c, ok := f.candidate(filepath.Join(p, e.Name()), &missing); ok {
				candidates = append(candidates, c)
			}
		}
	}
	return candidates, missing
}

func (f *Finder) candidate(path string, missing *[]Missing) (Candidate, bool) {
	ts, err := f.timestamper.Timestamp(path)
	if err != nil {
		f.log.Warn("cannot read file timestamp", zap.String("path", path), zap.Error(err))
		*missing = append(*missing, Missing{Path: path, Err: err})
		return Candidate{}, false
	}
	return Candidate{Path: path, Timestamp: ts}, true
}
