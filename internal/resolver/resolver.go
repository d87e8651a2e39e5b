// Package resolver maps a point in time to the most recently reported
// location in the journal.
package resolver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/runnerr0/edshot/internal/journal"
)

// Locator answers the two questions the resolver asks of an event index.
type Locator interface {
	// CaptureAt returns the first capture event stored at exactly ts.
	CaptureAt(ctx context.Context, ts int64) (*journal.Record, error)
	// LocationAt returns the first location-bearing record of the latest key
	// not after ts that has one.
	LocationAt(ctx context.Context, ts int64) (*journal.Record, error)
}

// Resolution is the outcome of resolving one timestamp.
type Resolution struct {
	Timestamp         int64
	Found             bool
	Location          string
	LocationTimestamp int64
	// Capture is the capture event recorded at exactly Timestamp, if any.
	// It is informational and never changes Location.
	Capture *journal.Record
}

// Time returns the query timestamp as a UTC time.
func (r Resolution) Time() time.Time {
	return time.Unix(r.Timestamp, 0).UTC()
}

// Resolver resolves timestamps against a Locator.
type Resolver struct {
	locator Locator
	log     *zap.Logger
}

// New creates a Resolver.
func New(locator Locator, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{locator: locator, log: log}
}

// Resolve finds the location in effect at ts. An exact capture event at ts is
// looked up and attached to the result, but the returned location always
// comes from the nearest-preceding scan.
func (r *Resolver) Resolve(ctx context.Context, ts int64) (Resolution, error) {
	res := Resolution{Timestamp: ts}

	capture, err := r.locator.CaptureAt(ctx, ts)
	if err != nil {
		return res, fmt.Errorf("exact lookup at %d: %w", ts, err)
	}
	if capture != nil {
		res.Capture = capture
		r.log.Debug("capture event at timestamp", zap.Int64("ts", ts), zap.String("event", capture.Event))
	} else {
		r.log.Debug("no capture event at timestamp, scanning back", zap.Int64("ts", ts))
	}

	rec, err := r.locator.LocationAt(ctx, ts)
	if err != nil {
		return res, fmt.Errorf("location lookup at %d: %w", ts, err)
	}
	if rec == nil {
		return res, nil
	}

	res.Found = true
	res.Location = rec.Location
	res.LocationTimestamp = rec.Timestamp
	return res, nil
}
