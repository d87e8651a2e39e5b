// Package mapper runs the batch: ingest journals, find screenshots, resolve
// each one to a location and copy it under its new name.
package mapper

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/runnerr0/edshot/internal/config"
	"github.com/runnerr0/edshot/internal/journal"
	"github.com/runnerr0/edshot/internal/output"
	"github.com/runnerr0/edshot/internal/resolver"
	"github.com/runnerr0/edshot/internal/screenshot"
	"github.com/runnerr0/edshot/internal/storage"
)

// Options configures a Mapper.
type Options struct {
	JournalDir     string
	JournalPattern string
	Parser         *journal.Parser
	CaptureEvent   string
	Extensions     []string
	Timestamper    screenshot.Timestamper
	OutputDir      string
	DryRun         bool
	IndexBackend   string
	IndexPath      string
}

// OptionsFromConfig builds Options from a loaded configuration. Paths are
// expected to be expanded already.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	ts, err := screenshot.TimestamperFor(cfg.Screenshots.TimestampSource)
	if err != nil {
		return Options{}, err
	}
	return Options{
		JournalDir:     cfg.Journal.Dir,
		JournalPattern: cfg.Journal.Pattern,
		Parser: &journal.Parser{
			TimestampField: cfg.Journal.TimestampField,
			EventField:     cfg.Journal.EventField,
			LocationField:  cfg.Journal.LocationField,
		},
		CaptureEvent: cfg.Journal.CaptureEvent,
		Extensions:   cfg.Screenshots.Extensions,
		Timestamper:  ts,
		OutputDir:    cfg.Output.Dir,
		IndexBackend: cfg.Index.Backend,
		IndexPath:    cfg.Index.Path,
	}, nil
}

// Mapper correlates screenshots with journal locations.
type Mapper struct {
	opts    Options
	decoder *journal.Decoder
	finder  *screenshot.Finder
	log     *zap.Logger
}

// New creates a Mapper.
func New(opts Options, log *zap.Logger) *Mapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mapper{
		opts:    opts,
		decoder: journal.NewDecoder(opts.Parser, log),
		finder:  screenshot.NewFinder(opts.Extensions, opts.Timestamper, log),
		log:     log,
	}
}

// LoadJournal reads and merges every journal. An unreadable journal
// directory is logged and produces an empty table.
func (m *Mapper) LoadJournal() journal.LoadResult {
	m.log.Info("reading journals", zap.String("dir", m.opts.JournalDir))

	res, err := m.decoder.LoadDir(m.opts.JournalDir, m.opts.JournalPattern)
	if err != nil {
		m.log.Error("cannot read journal directory", zap.String("dir", m.opts.JournalDir), zap.Error(err))
		return res
	}

	m.log.Info("journals loaded",
		zap.Int("files", res.Files),
		zap.Int("failed", len(res.Failed)),
		zap.Int("records", res.Stats.Records),
		zap.Int("skipped_lines", res.Stats.Skipped),
		zap.Int("keys", res.Table.Len()),
	)
	return res
}

// NewResolver builds a Resolver over table using the configured index
// backend. The returned function releases the backend.
func (m *Mapper) NewResolver(ctx context.Context, table *journal.Table) (*resolver.Resolver, func(), error) {
	switch m.opts.IndexBackend {
	case "", config.BackendMemory:
		return resolver.New(resolver.NewMemoryIndex(table, m.opts.CaptureEvent), m.log), func() {}, nil

	case config.BackendSQLite:
		db, err := storage.Open(m.opts.IndexPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open index: %w", err)
		}
		idx, err := storage.NewSQLiteIndex(db, m.opts.CaptureEvent)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("init index: %w", err)
		}
		if err := idx.Load(ctx, table); err != nil {
			idx.Close()
			db.Close()
			return nil, nil, fmt.Errorf("load index: %w", err)
		}
		closer := func() {
			idx.Close()
			db.Close()
		}
		return resolver.New(idx, m.log), closer, nil

	default:
		return nil, nil, fmt.Errorf("unknown index backend %q", m.opts.IndexBackend)
	}
}

// Run processes paths as one batch. Problems with individual items are
// recorded in the report and never stop the batch; only failures to set up
// the index or the output directory are returned as errors.
func (m *Mapper) Run(ctx context.Context, paths []string) (*Report, error) {
	report := &Report{OutputDir: m.opts.OutputDir, DryRun: m.opts.DryRun}

	loaded := m.LoadJournal()
	report.Journal = JournalStats{
		Dir:     m.opts.JournalDir,
		Files:   loaded.Files,
		Failed:  len(loaded.Failed),
		Records: loaded.Stats.Records,
		Skipped: loaded.Stats.Skipped,
		Keys:    loaded.Table.Len(),
	}

	res, closeIndex, err := m.NewResolver(ctx, loaded.Table)
	if err != nil {
		return report, err
	}
	defer closeIndex()

	candidates, missing := m.finder.Discover(paths)
	for _, miss := range missing {
		report.Items = append(report.Items, Item{
			Path:   miss.Path,
			Status: StatusMissing,
			Error:  miss.Err.Error(),
		})
	}

	// Resolve every candidate before copying anything.
	pending := make([]int, 0, len(candidates))
	for _, c := range candidates {
		item := m.resolve(ctx, res, c)
		report.Items = append(report.Items, item)
		if item.Status == "" {
			pending = append(pending, len(report.Items)-1)
		}
	}

	copier := output.NewCopier(m.opts.OutputDir, m.opts.DryRun)
	if err := copier.Prepare(); err != nil {
		return report, err
	}

	for _, i := range pending {
		m.copy(copier, &report.Items[i])
	}

	return report, nil
}

// resolve fills in the location for c. The returned item has an empty
// Status when it is ready to copy.
func (m *Mapper) resolve(ctx context.Context, res *resolver.Resolver, c screenshot.Candidate) Item {
	item := Item{Path: c.Path, Timestamp: c.Unix()}
	log := m.log.With(zap.String("path", c.Path), zap.Time("taken", c.Timestamp))

	r, err := res.Resolve(ctx, c.Unix())
	if err != nil {
		log.Error("resolving location failed", zap.Error(err))
		item.Status = StatusFailed
		item.Error = err.Error()
		return item
	}

	item.Capture = r.Capture != nil
	if !item.Capture {
		log.Debug("no journal capture event for screenshot, guessing system")
	}

	if !r.Found {
		log.Warn("no system found in journal before screenshot")
		item.Status = StatusNoLocation
		return item
	}

	log.Info("guessed system from timestamp", zap.String("system", r.Location))
	item.Location = r.Location
	return item
}

func (m *Mapper) copy(copier *output.Copier, item *Item) {
	name := output.FileName(item.Time(), item.Location, item.Path)
	dst, err := copier.Copy(item.Path, name)
	item.Destination = dst

	switch {
	case errors.Is(err, output.ErrExists):
		m.log.Warn("file already exists", zap.String("path", dst))
		item.Status = StatusExists
	case err != nil:
		m.log.Error("copy failed", zap.String("path", item.Path), zap.Error(err))
		item.Status = StatusFailed
		item.Error = err.Error()
	case m.opts.DryRun:
		m.log.Info("would copy", zap.String("from", item.Path), zap.String("to", dst))
		item.Status = StatusPlanned
	default:
		m.log.Info("copied", zap.String("from", item.Path), zap.String("to", dst))
		item.Status = StatusCopied
	}
}
