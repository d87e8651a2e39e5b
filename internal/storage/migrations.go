package storage

import (
	"database/sql"
	"fmt"
)

// schemaStep is one numbered change to the journal index schema.
type schemaStep struct {
	Version int
	Name    string
	Apply   func(tx *sql.Tx) error
}

// journalSchema lists every schema step in version order.
var journalSchema = []schemaStep{
	{Version: 1, Name: "journal_records", Apply: migrateV001},
	{Version: 2, Name: "capture_lookup", Apply: migrateV002},
}

// MigrationRunner brings a journal index database up to the latest schema.
type MigrationRunner struct {
	db    *sql.DB
	steps []schemaStep
}

// NewMigrationRunner creates a MigrationRunner for db.
func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{db: db, steps: journalSchema}
}

// Run creates the journal_records table and its lookup indexes, or upgrades
// an index file written by an older edshot. The applied version is tracked in
// schema_migrations; each step runs in its own transaction.
func (r *MigrationRunner) Run() error {
	if _, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	current, err := r.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, step := range r.steps {
		if step.Version <= current {
			continue
		}
		if err := r.apply(step); err != nil {
			return fmt.Errorf("apply schema step %d (%s): %w", step.Version, step.Name, err)
		}
	}
	return nil
}

// Version returns the highest applied schema version, 0 for a new database.
func (r *MigrationRunner) Version() (int, error) {
	var v sql.NullInt64
	if err := r.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&v); err != nil {
		return 0, err
	}
	return int(v.Int64), nil
}

func (r *MigrationRunner) apply(step schemaStep) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := step.Apply(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		step.Version, step.Name,
	); err != nil {
		return fmt.Errorf("record schema step: %w", err)
	}
	return tx.Commit()
}
