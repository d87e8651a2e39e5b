package resolver

import (
	"context"
	"sort"

	"github.com/runnerr0/edshot/internal/journal"
)

// MemoryIndex answers lookups directly from a journal.Table.
type MemoryIndex struct {
	table        *journal.Table
	captureEvent string
}

// NewMemoryIndex wraps table. An empty captureEvent means
// journal.DefaultCaptureEvent.
func NewMemoryIndex(table *journal.Table, captureEvent string) *MemoryIndex {
	if captureEvent == "" {
		captureEvent = journal.DefaultCaptureEvent
	}
	return &MemoryIndex{table: table, captureEvent: captureEvent}
}

// CaptureAt implements Locator.
func (m *MemoryIndex) CaptureAt(_ context.Context, ts int64) (*journal.Record, error) {
	for _, rec := range m.table.At(ts) {
		if rec.Event == m.captureEvent {
			rec := rec
			return &rec, nil
		}
	}
	return nil, nil
}

// LocationAt implements Locator. It binary-searches for the floor key and
// walks backward from there.
func (m *MemoryIndex) LocationAt(_ context.Context, ts int64) (*journal.Record, error) {
	keys := m.table.Keys()
	floor := sort.Search(len(keys), func(i int) bool { return keys[i] > ts }) - 1

	for i := floor; i >= 0; i-- {
		for _, rec := range m.table.At(keys[i]) {
			if rec.HasLocation() {
				rec := rec
				return &rec, nil
			}
		}
	}
	return nil, nil
}
