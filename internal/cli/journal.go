package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/edshot/internal/journal"
	"github.com/runnerr0/edshot/internal/mapper"
)

// journalJSON is the JSON output structure for the journal command.
type journalJSON struct {
	Version         string   `json:"version"`
	Files           int      `json:"files"`
	FailedFiles     []string `json:"failed_files"`
	Records         int      `json:"records"`
	SkippedLines    int      `json:"skipped_lines"`
	Keys            int      `json:"keys"`
	LocationRecords int      `json:"location_records"`
	Locations       []string `json:"locations,omitempty"`
	DistinctCount   int      `json:"distinct_locations"`
	First           string   `json:"first,omitempty"`
	Last            string   `json:"last,omitempty"`
}

// Execute implements the go-flags Commander interface for JournalCommand.
func (c *JournalCommand) Execute(args []string) error {
	m, log, err := newMapper(c.globals)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	return c.executeWithMapper(m)
}

// executeWithMapper summarises the journal read by a provided mapper (for testing).
func (c *JournalCommand) executeWithMapper(m *mapper.Mapper) error {
	loaded := m.LoadJournal()
	summary := loaded.Table.Summary()

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(loaded, summary)
	}
	return c.printHuman(loaded, summary)
}

func (c *JournalCommand) printHuman(loaded journal.LoadResult, s journal.Summary) error {
	fmt.Println("Journal Summary")
	fmt.Println("===============")
	fmt.Printf("Files:         %s", formatNumber(loaded.Files))
	if len(loaded.Failed) > 0 {
		fmt.Printf(" (%d unreadable)", len(loaded.Failed))
	}
	fmt.Println()
	fmt.Printf("Records:       %s\n", formatNumber(s.Records))
	fmt.Printf("Skipped lines: %s\n", formatNumber(loaded.Stats.Skipped))
	fmt.Printf("Timestamps:    %s\n", formatNumber(s.Keys))

	if s.Records > 0 {
		pct := float64(s.LocationRecords) / float64(s.Records) * 100
		fmt.Printf("With location: %s (%.1f%%)\n", formatNumber(s.LocationRecords), pct)
		fmt.Printf("First:         %s\n", s.First.Format("2006-01-02 15:04:05"))
		fmt.Printf("Last:          %s\n", s.Last.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Locations:     %s distinct\n", formatNumber(len(s.Locations)))

	if c.Locations && len(s.Locations) > 0 {
		fmt.Println()
		for _, l := range s.Locations {
			fmt.Printf("  %s\n", l)
		}
	}
	return nil
}

func (c *JournalCommand) printJSON(loaded journal.LoadResult, s journal.Summary) error {
	out := journalJSON{
		Version:         c.version,
		Files:           loaded.Files,
		FailedFiles:     loaded.Failed,
		Records:         s.Records,
		SkippedLines:    loaded.Stats.Skipped,
		Keys:            s.Keys,
		LocationRecords: s.LocationRecords,
		DistinctCount:   len(s.Locations),
	}
	if out.FailedFiles == nil {
		out.FailedFiles = []string{}
	}
	if c.Locations {
		out.Locations = s.Locations
	}
	if s.Keys > 0 {
		out.First = s.First.Format(time.RFC3339)
		out.Last = s.Last.Format(time.RFC3339)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
