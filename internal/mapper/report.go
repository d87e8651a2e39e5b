package mapper

import "time"

// Status is the outcome for one input item.
type Status string

const (
	StatusCopied     Status = "copied"
	StatusPlanned    Status = "planned"
	StatusNoLocation Status = "no_location"
	StatusExists     Status = "exists"
	StatusMissing    Status = "missing"
	StatusFailed     Status = "failed"
)

// Item records what happened to one screenshot.
type Item struct {
	Path        string `json:"path"`
	Timestamp   int64  `json:"timestamp,omitempty"`
	Status      Status `json:"status"`
	Location    string `json:"location,omitempty"`
	Destination string `json:"destination,omitempty"`
	// Capture is set when the journal holds a capture event at exactly
	// Timestamp.
	Capture bool   `json:"capture_event"`
	Error   string `json:"error,omitempty"`
}

// Time returns the item timestamp as a UTC time.
func (i Item) Time() time.Time {
	return time.Unix(i.Timestamp, 0).UTC()
}

// JournalStats summarises journal ingestion for a run.
type JournalStats struct {
	Dir     string `json:"dir"`
	Files   int    `json:"files"`
	Failed  int    `json:"failed"`
	Records int    `json:"records"`
	Skipped int    `json:"skipped_lines"`
	Keys    int    `json:"keys"`
}

// Report is the result of a Run.
type Report struct {
	Journal   JournalStats `json:"journal"`
	OutputDir string       `json:"output_dir"`
	DryRun    bool         `json:"dry_run"`
	Items     []Item       `json:"items"`
}

// Count returns how many items ended with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, it := range r.Items {
		if it.Status == s {
			n++
		}
	}
	return n
}
