package journal

import (
	"sort"
	"time"
)

// Table groups records by their Unix-second timestamp. Records sharing a key
// keep their arrival order. A Table is read-only once built; callers must not
// modify the slices it returns.
type Table struct {
	entries map[int64][]Record
	keys    []int64 // ascending
}

// newTable builds a Table from records in arrival order.
func newTable(records []Record) *Table {
	t := &Table{entries: make(map[int64][]Record)}
	for _, r := range records {
		if _, ok := t.entries[r.Timestamp]; !ok {
			t.keys = append(t.keys, r.Timestamp)
		}
		t.entries[r.Timestamp] = append(t.entries[r.Timestamp], r)
	}
	sort.Slice(t.keys, func(i, j int) bool { return t.keys[i] < t.keys[j] })
	return t
}

// NewTable builds a Table from records, preserving their order within each
// timestamp.
func NewTable(records ...Record) *Table {
	return newTable(records)
}

// Merge folds per-source tables into one. Records with the same key are
// concatenated in argument order; nothing is deduplicated.
func Merge(tables ...*Table) *Table {
	var all []Record
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, k := range t.keys {
			all = append(all, t.entries[k]...)
		}
	}
	return newTable(all)
}

// Keys returns the timestamps in ascending order.
func (t *Table) Keys() []int64 {
	if t == nil {
		return nil
	}
	return t.keys
}

// At returns the records stored at exactly ts.
func (t *Table) At(ts int64) []Record {
	if t == nil {
		return nil
	}
	return t.entries[ts]
}

// Len returns the number of distinct timestamps.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Records returns every record in key order, then arrival order.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	var out []Record
	for _, k := range t.keys {
		out = append(out, t.entries[k]...)
	}
	return out
}

// Summary describes the contents of a Table.
type Summary struct {
	Records         int
	Keys            int
	LocationRecords int
	Locations       []string // distinct, in first-seen order
	First           time.Time
	Last            time.Time
}

// Summary computes aggregate statistics over the table.
func (t *Table) Summary() Summary {
	s := Summary{Keys: t.Len()}
	if s.Keys == 0 {
		return s
	}
	seen := make(map[string]bool)
	for _, r := range t.Records() {
		s.Records++
		if !r.HasLocation() {
			continue
		}
		s.LocationRecords++
		if !seen[r.Location] {
			seen[r.Location] = true
			s.Locations = append(s.Locations, r.Location)
		}
	}
	s.First = time.Unix(t.keys[0], 0).UTC()
	s.Last = time.Unix(t.keys[len(t.keys)-1], 0).UTC()
	return s
}
