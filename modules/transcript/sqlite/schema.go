package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations holds every schema revision in order. migrate applies the ones
// newer than the database's recorded version, so an old transcript file is
// upgraded in place on open.
var migrations = [][]string{
	// v1: the transcript table, one row per message, ordered by a per-session
	// sequence number.
	{
		`CREATE TABLE IF NOT EXISTS transcript (
			session_id TEXT    NOT NULL,
			seq        INTEGER NOT NULL,
			role       TEXT    NOT NULL,
			content    TEXT    NOT NULL DEFAULT '',
			sent_at    TEXT    NOT NULL,
			PRIMARY KEY (session_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transcript_session ON transcript(session_id, seq)`,
	},
}

func migrate(db *sql.DB) error {
	ctx := context.TODO()

	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("sqlite: create schema_version: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("sqlite: read schema version: %w", err)
	}

	for v := current; v < len(migrations); v++ {
		for _, stmt := range migrations[v] {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("sqlite: migrate to v%d: %w", v+1, err)
			}
		}
		if _, err := db.ExecContext(ctx, "INSERT OR REPLACE INTO schema_version (version) VALUES (?)", v+1); err != nil {
			return fmt.Errorf("sqlite: record schema version %d: %w", v+1, err)
		}
	}

	return nil
}
