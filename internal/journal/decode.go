package journal

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// DefaultPattern matches Elite Dangerous journal file names.
const DefaultPattern = "Journal*.log"

// maxLineSize bounds a single journal entry. Longer lines make the source
// undecodable.
const maxLineSize = 4 << 20

// ErrUndecodable is returned when a whole source cannot be read as a record
// stream.
var ErrUndecodable = errors.New("journal source is undecodable")

// DecodeStats counts what happened to each line of a source.
type DecodeStats struct {
	Lines   int
	Records int
	Skipped int
	Errors  []*ParseError
}

// Decoder reads journal sources into per-source Tables.
type Decoder struct {
	parser *Parser
	log    *zap.Logger
}

// NewDecoder creates a Decoder. A nil parser uses the default field names.
func NewDecoder(parser *Parser, log *zap.Logger) *Decoder {
	if parser == nil {
		parser = NewParser()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Decoder{parser: parser, log: log}
}

// Decode reads newline-delimited entries from r. Malformed lines are logged
// and skipped. The source as a whole fails when it cannot be read or when
// none of its non-blank lines parse.
func (d *Decoder) Decode(r io.Reader, source string) (*Table, DecodeStats, error) {
	var stats DecodeStats
	var records []Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		stats.Lines++

		rec, err := d.parser.ParseLine(line)
		if err != nil {
			stats.Skipped++
			perr := &ParseError{Source: source, Line: lineNo, Err: err}
			stats.Errors = append(stats.Errors, perr)
			d.log.Warn("skipping malformed journal line", zap.Error(perr))
			continue
		}
		records = append(records, rec)
		stats.Records++
	}

	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("%w: %s: %v", ErrUndecodable, source, err)
	}
	if stats.Lines > 0 && stats.Records == 0 {
		return nil, stats, fmt.Errorf("%w: %s: none of %d lines parsed", ErrUndecodable, source, stats.Lines)
	}

	return newTable(records), stats, nil
}

// DecodeFile opens and decodes a single journal file.
func (d *Decoder) DecodeFile(path string) (*Table, DecodeStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, DecodeStats{}, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	return d.Decode(f, filepath.Base(path))
}

// ListFiles returns the journal files in dir matching pattern, in lexical
// order.
func ListFiles(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid journal pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read journal directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(pattern, e.Name()); ok {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// LoadResult reports the outcome of loading a journal directory.
type LoadResult struct {
	Table  *Table
	Files  int
	Failed []string
	Stats  DecodeStats
}

// LoadDir decodes every journal in dir and merges them into one Table.
// Sources that fail are logged and left out; an unreadable directory yields
// an empty table and an error.
func (d *Decoder) LoadDir(dir, pattern string) (LoadResult, error) {
	files, err := ListFiles(dir, pattern)
	if err != nil {
		return LoadResult{Table: NewTable()}, err
	}

	// Phase one: independent per-source tables.
	res := LoadResult{Files: len(files)}
	tables := make([]*Table, 0, len(files))
	for _, path := range files {
		t, stats, err := d.DecodeFile(path)
		res.Stats.Lines += stats.Lines
		res.Stats.Records += stats.Records
		res.Stats.Skipped += stats.Skipped
		res.Stats.Errors = append(res.Stats.Errors, stats.Errors...)
		if err != nil {
			d.log.Error("skipping journal", zap.String("path", path), zap.Error(err))
			res.Failed = append(res.Failed, path)
			continue
		}
		d.log.Debug("journal decoded",
			zap.String("path", path),
			zap.Int("records", stats.Records),
			zap.Int("skipped", stats.Skipped),
		)
		tables = append(tables, t)
	}

	// Phase two: fold into the read-only table.
	res.Table = Merge(tables...)
	return res, nil
}
