package screenshot

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Timestamper derives the capture time of a file from filesystem metadata.
type Timestamper interface {
	Timestamp(path string) (time.Time, error)
	Name() string
}

// ModTimestamper uses the modification time.
type ModTimestamper struct{}

// Name implements Timestamper.
func (ModTimestamper) Name() string { return "mtime" }

// Timestamp implements Timestamper.
func (ModTimestamper) Timestamp(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return wholeSecondUTC(info.ModTime()), nil
}

// BirthTimestamper uses the earlier of creation and modification time. When
// the filesystem does not report a creation time it behaves like
// ModTimestamper.
type BirthTimestamper struct{}

// Name implements Timestamper.
func (BirthTimestamper) Name() string { return "birth" }

// Timestamp implements Timestamper.
func (BirthTimestamper) Timestamp(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	mod := info.ModTime()

	birth, ok, err := birthTime(path, info)
	if err != nil {
		return time.Time{}, err
	}
	if ok && birth.Before(mod) {
		return wholeSecondUTC(birth), nil
	}
	return wholeSecondUTC(mod), nil
}

// DetectTimestamper returns BirthTimestamper on platforms that can report
// creation times and ModTimestamper elsewhere.
func DetectTimestamper() Timestamper {
	if birthTimeSupported {
		return BirthTimestamper{}
	}
	return ModTimestamper{}
}

// TimestamperFor maps a configured source name ("auto", "birth", "mtime") to
// a Timestamper.
func TimestamperFor(source string) (Timestamper, error) {
	switch strings.ToLower(source) {
	case "", "auto":
		return DetectTimestamper(), nil
	case "birth", "ctime", "creation":
		return BirthTimestamper{}, nil
	case "mtime", "modified":
		return ModTimestamper{}, nil
	default:
		return nil, fmt.Errorf("unknown timestamp source %q (use auto, birth or mtime)", source)
	}
}

func wholeSecondUTC(t time.Time) time.Time {
	return time.Unix(t.Unix(), 0).UTC()
}
