package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/edshot/internal/mapper"
)

// Execute implements the go-flags Commander interface for MapCommand.
func (c *MapCommand) Execute(args []string) error {
	paths := append(append([]string{}, c.Args.Paths...), args...)
	if len(paths) == 0 {
		return fmt.Errorf("at least one screenshot path is required")
	}

	m, log, err := newMapper(c.globals)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	return c.executeWithMapper(m, paths)
}

// executeWithMapper runs the batch against a provided mapper (for testing).
func (c *MapCommand) executeWithMapper(m *mapper.Mapper, paths []string) error {
	report, err := m.Run(context.Background(), paths)
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(report)
	return nil
}

func printReport(r *mapper.Report) {
	for _, it := range r.Items {
		switch it.Status {
		case mapper.StatusCopied:
			fmt.Printf("Copied %s -> %s\n", it.Path, it.Destination)
		case mapper.StatusPlanned:
			fmt.Printf("Would copy %s -> %s\n", it.Path, it.Destination)
		case mapper.StatusExists:
			fmt.Printf("Skipped %s: %s already exists\n", it.Path, it.Destination)
		case mapper.StatusNoLocation:
			fmt.Printf("Skipped %s: no location in journal before %s\n", it.Path, formatTime(it.Timestamp))
		case mapper.StatusMissing:
			fmt.Printf("Skipped %s: not found\n", it.Path)
		case mapper.StatusFailed:
			fmt.Printf("Failed %s: %s\n", it.Path, it.Error)
		}
	}

	fmt.Println()
	verb := "Copied"
	done := r.Count(mapper.StatusCopied)
	if r.DryRun {
		verb = "Would copy"
		done = r.Count(mapper.StatusPlanned)
	}
	fmt.Printf("%s %s of %s screenshots to %s\n", verb, formatNumber(done), formatNumber(len(r.Items)), r.OutputDir)
	fmt.Printf("Journal: %s files, %s records (%s lines skipped)\n",
		formatNumber(r.Journal.Files), formatNumber(r.Journal.Records), formatNumber(r.Journal.Skipped))
}
