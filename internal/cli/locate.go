package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/edshot/internal/mapper"
	"github.com/runnerr0/edshot/internal/resolver"
)

// locateJSON is the JSON output structure for one resolved timestamp.
type locateJSON struct {
	Timestamp         int64  `json:"timestamp"`
	Time              string `json:"time"`
	Found             bool   `json:"found"`
	Location          string `json:"location,omitempty"`
	LocationTimestamp int64  `json:"location_timestamp,omitempty"`
	CaptureEvent      bool   `json:"capture_event"`
}

// Execute implements the go-flags Commander interface for LocateCommand.
func (c *LocateCommand) Execute(args []string) error {
	inputs := append(append([]string{}, c.Args.Timestamps...), args...)

	timestamps := make([]int64, 0, len(inputs))
	for _, s := range inputs {
		ts, err := parseQueryTime(s)
		if err != nil {
			return err
		}
		timestamps = append(timestamps, ts)
	}

	m, log, err := newMapper(c.globals)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	return c.executeWithMapper(m, timestamps)
}

// executeWithMapper resolves timestamps using a provided mapper (for testing).
func (c *LocateCommand) executeWithMapper(m *mapper.Mapper, timestamps []int64) error {
	ctx := context.Background()

	loaded := m.LoadJournal()
	res, closeIndex, err := m.NewResolver(ctx, loaded.Table)
	if err != nil {
		return err
	}
	defer closeIndex()

	results := make([]resolver.Resolution, 0, len(timestamps))
	for _, ts := range timestamps {
		r, err := res.Resolve(ctx, ts)
		if err != nil {
			return err
		}
		results = append(results, r)
	}

	if c.globals != nil && c.globals.JSON {
		out := make([]locateJSON, len(results))
		for i, r := range results {
			out[i] = locateJSON{
				Timestamp:         r.Timestamp,
				Time:              r.Time().Format("2006-01-02T15:04:05Z"),
				Found:             r.Found,
				Location:          r.Location,
				LocationTimestamp: r.LocationTimestamp,
				CaptureEvent:      r.Capture != nil,
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, r := range results {
		if !r.Found {
			fmt.Printf("%s  none found\n", formatTime(r.Timestamp))
			continue
		}
		fmt.Printf("%s  %s (since %s)\n", formatTime(r.Timestamp), r.Location, formatTime(r.LocationTimestamp))
	}
	return nil
}
