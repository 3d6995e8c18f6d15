package db

import (
	"database/sql"
)

// SchemaSQL is the complete schema for a fresh history database.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests load it
// through GetSchemaSQL() instead of declaring their own tables, so a
// repository referencing a missing column fails immediately with
// "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Runs (one row per generation)
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	root TEXT NOT NULL,
	kinds TEXT NOT NULL,
	mode TEXT NOT NULL CHECK(mode IN ('ask', 'always', 'never')) DEFAULT 'ask',
	status TEXT NOT NULL CHECK(status IN ('running', 'completed', 'failed')) DEFAULT 'running',
	created_count INTEGER NOT NULL DEFAULT 0,
	overridden_count INTEGER NOT NULL DEFAULT 0,
	skipped_count INTEGER NOT NULL DEFAULT 0,
	failed_kinds TEXT,
	started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

-- Run files (one row per artifact outcome)
CREATE TABLE IF NOT EXISTS run_files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	kind TEXT NOT NULL CHECK(kind IN ('contract', 'policy', 'resource', 'repository')),
	entity TEXT NOT NULL,
	class_name TEXT NOT NULL,
	path TEXT NOT NULL,
	outcome TEXT NOT NULL CHECK(outcome IN ('created', 'overridden', 'skipped')),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_files_run ON run_files(run_id);
`

// InitSchema creates the schema on a fresh database and migrates an
// existing one.
func InitSchema(conn *sql.DB) error {
	var tableCount int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// Fresh install - create the current schema directly and mark every
		// migration as applied.
		if _, err := conn.Exec(SchemaSQL); err != nil {
			return err
		}
		if err := createVersionTable(conn); err != nil {
			return err
		}
		for _, m := range migrations {
			if _, err := conn.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return err
			}
		}
		return nil
	}

	return RunMigrations(conn)
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
