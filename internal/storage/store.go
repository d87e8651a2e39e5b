package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/edshot/internal/journal"
)

// MemoryDSN keeps the index in memory for the life of the process.
const MemoryDSN = ":memory:"

// Open opens a SQLite database at dsn and applies migrations. An empty dsn
// means MemoryDSN.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if dsn != MemoryDSN {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}

	if err := NewMigrationRunner(db).Run(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

// SQLiteIndex is a journal event index backed by SQLite. It answers the same
// lookups as the in-memory index with the same tie-break rules.
type SQLiteIndex struct {
	db           *sql.DB
	captureEvent string

	// Prepared statements
	captureAt  *sql.Stmt
	locationAt *sql.Stmt
}

// NewSQLiteIndex creates an index over an already-opened and migrated
// database. An empty captureEvent means journal.DefaultCaptureEvent.
func NewSQLiteIndex(db *sql.DB, captureEvent string) (*SQLiteIndex, error) {
	if captureEvent == "" {
		captureEvent = journal.DefaultCaptureEvent
	}
	s := &SQLiteIndex{db: db, captureEvent: captureEvent}

	if err := s.prepareStatements(); err != nil {
		s.Close()
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteIndex) prepareStatements() error {
	var err error

	s.captureAt, err = s.db.Prepare(`
		SELECT ts, event, location, raw FROM journal_records
		WHERE ts = ? AND event = ?
		ORDER BY seq LIMIT 1
	`)
	if err != nil {
		return err
	}

	s.locationAt, err = s.db.Prepare(`
		SELECT ts, event, location, raw FROM journal_records
		WHERE ts <= ? AND location <> ''
		ORDER BY ts DESC, seq ASC LIMIT 1
	`)
	if err != nil {
		return err
	}

	return nil
}

// Load replaces the index contents with every record of table, in merge
// order, inside a single transaction.
func (s *SQLiteIndex) Load(ctx context.Context, table *journal.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM journal_records"); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO journal_records (seq, ts, event, location, raw) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range table.Records() {
		if _, err := stmt.ExecContext(ctx, i+1, rec.Timestamp, rec.Event, rec.Location, string(rec.Raw)); err != nil {
			return fmt.Errorf("insert record %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of indexed records.
func (s *SQLiteIndex) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM journal_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// CaptureAt returns the first capture event stored at exactly ts.
func (s *SQLiteIndex) CaptureAt(ctx context.Context, ts int64) (*journal.Record, error) {
	rec, err := scanRecord(s.captureAt.QueryRowContext(ctx, ts, s.captureEvent))
	if err != nil {
		return nil, fmt.Errorf("capture at: %w", err)
	}
	return rec, nil
}

// LocationAt returns the first location-bearing record of the latest
// timestamp not after ts.
func (s *SQLiteIndex) LocationAt(ctx context.Context, ts int64) (*journal.Record, error) {
	rec, err := scanRecord(s.locationAt.QueryRowContext(ctx, ts))
	if err != nil {
		return nil, fmt.Errorf("location at: %w", err)
	}
	return rec, nil
}

// scanRecord scans one row, returning nil without error when there is none.
func scanRecord(row *sql.Row) (*journal.Record, error) {
	var rec journal.Record
	var raw string
	if err := row.Scan(&rec.Timestamp, &rec.Event, &rec.Location, &raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if raw != "" {
		rec.Raw = []byte(raw)
	}
	return &rec, nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteIndex) Close() error {
	for _, stmt := range []*sql.Stmt{s.captureAt, s.locationAt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
