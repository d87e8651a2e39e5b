package config

import "path/filepath"

// DefaultJournalDir is where Elite Dangerous writes its journals on Windows.
var DefaultJournalDir = filepath.Join("~", "Saved Games", "Frontier Developments", "Elite Dangerous")

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Journal: JournalConfig{
			Dir:            DefaultJournalDir,
			Pattern:        "Journal*.log",
			TimestampField: "timestamp",
			EventField:     "event",
			LocationField:  "StarSystem",
			CaptureEvent:   "Screenshot",
		},
		Screenshots: ScreenshotConfig{
			Extensions:      []string{".jpg", ".bmp"},
			TimestampSource: "auto",
		},
		Output: OutputConfig{
			Dir: "out",
		},
		Index: IndexConfig{
			Backend: BackendMemory,
			Path:    ":memory:",
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
