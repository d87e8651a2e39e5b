package storage

import "database/sql"

// migrateV002 indexes exact capture-event lookups.
func migrateV002(tx *sql.Tx) error {
	_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_journal_records_event ON journal_records(ts, event)`)
	return err
}
