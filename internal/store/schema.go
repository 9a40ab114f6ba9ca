package store

import (
	"database/sql"
	"fmt"
)

const currentSchemaVersion = 1

// initializeSchema creates all tables for a new database
func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		statements := []string{
			`CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS runs (
				id TEXT PRIMARY KEY,
				root TEXT NOT NULL,
				created_at TEXT NOT NULL,
				file_count INTEGER NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS facts (
				run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
				position INTEGER NOT NULL,
				path TEXT NOT NULL,
				classes TEXT NOT NULL,
				functions TEXT NOT NULL,
				imports TEXT NOT NULL,
				call_counts TEXT NOT NULL,
				node_kind_counts TEXT NOT NULL,
				PRIMARY KEY (run_id, path)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_facts_run_position
				ON facts(run_id, position)`,
			`CREATE INDEX IF NOT EXISTS idx_runs_root_created
				ON runs(root, created_at)`,
		}

		for _, stmt := range statements {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}
		}

		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, currentSchemaVersion); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}

		db.logger.Info("Fact store schema initialized", map[string]interface{}{
			"version": currentSchemaVersion,
		})

		return nil
	})
}

// runMigrations brings an existing database up to the current schema
func (db *DB) runMigrations() error {
	var version int
	if err := db.conn.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version == currentSchemaVersion {
		return nil
	}

	// Migrations are added here as the schema evolves
	return fmt.Errorf("unsupported schema version %d", version)
}
