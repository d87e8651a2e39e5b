package journal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Default journal field names as written by Elite Dangerous.
const (
	DefaultTimestampField = "timestamp"
	DefaultEventField     = "event"
	DefaultLocationField  = "StarSystem"
	DefaultCaptureEvent   = "Screenshot"
)

// Record is a single journal entry. Records are immutable once parsed.
type Record struct {
	Timestamp int64  // Unix seconds, UTC
	Event     string // event kind, e.g. "FSDJump", "Screenshot"
	Location  string // empty when the entry carries no location
	Raw       json.RawMessage
}

// Time returns the record timestamp as a UTC time.
func (r Record) Time() time.Time {
	return time.Unix(r.Timestamp, 0).UTC()
}

// HasLocation reports whether the record names a location.
func (r Record) HasLocation() bool {
	return r.Location != ""
}

// Field returns a top-level string field from the raw entry.
func (r Record) Field(name string) (string, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(r.Raw, &fields); err != nil {
		return "", false
	}
	raw, ok := fields[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// ParseError describes a journal line that could not be turned into a Record.
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser turns journal lines into Records using configurable field names.
type Parser struct {
	TimestampField string
	EventField     string
	LocationField  string
}

// NewParser returns a Parser for the standard journal field names.
func NewParser() *Parser {
	return &Parser{
		TimestampField: DefaultTimestampField,
		EventField:     DefaultEventField,
		LocationField:  DefaultLocationField,
	}
}

// ParseLine parses one self-contained JSON object.
func (p *Parser) ParseLine(line []byte) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return Record{}, fmt.Errorf("decode entry: %w", err)
	}
	if fields == nil {
		return Record{}, fmt.Errorf("decode entry: not an object")
	}

	tsRaw, ok := fields[p.TimestampField]
	if !ok {
		return Record{}, fmt.Errorf("missing %q field", p.TimestampField)
	}
	var tsStr string
	if err := json.Unmarshal(tsRaw, &tsStr); err != nil {
		return Record{}, fmt.Errorf("field %q is not a string", p.TimestampField)
	}
	ts, err := ParseTimestamp(tsStr)
	if err != nil {
		return Record{}, err
	}

	raw := make(json.RawMessage, len(line))
	copy(raw, line)

	return Record{
		Timestamp: ts.Unix(),
		Event:     stringField(fields, p.EventField),
		Location:  stringField(fields, p.LocationField),
		Raw:       raw,
	}, nil
}

// stringField returns fields[key] when it holds a JSON string.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// ParseTimestamp parses a journal date/time string into a whole-second UTC
// time. Values without a zone offset are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t.UTC().Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %q", s)
}
