package storage

import "database/sql"

// migrateV001 creates the journal record table. seq preserves merge order so
// that ties at one timestamp resolve the same way as the in-memory table.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS journal_records (
			seq      INTEGER PRIMARY KEY,
			ts       INTEGER NOT NULL,
			event    TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			raw      TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_journal_records_ts       ON journal_records(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_records_location ON journal_records(ts, location)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
