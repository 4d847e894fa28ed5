package database

import (
	"context"
	"fmt"
	"log/slog"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// schemaVersionSQL creates the bookkeeping table and runs before any migration
const schemaVersionSQL = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

// migrations contains all database migrations in order. The SQL is kept to
// the subset shared by SQLite and PostgreSQL.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_metric_records_table",
		SQL: `
			CREATE TABLE IF NOT EXISTS metric_records (
				id TEXT PRIMARY KEY,
				positive_score INTEGER NOT NULL,
				negative_score INTEGER NOT NULL,
				polarity_score DOUBLE PRECISION NOT NULL,
				subjectivity_score DOUBLE PRECISION NOT NULL,
				avg_sentence_length DOUBLE PRECISION NOT NULL,
				pct_complex_words DOUBLE PRECISION NOT NULL,
				fog_index DOUBLE PRECISION NOT NULL,
				complex_word_count INTEGER NOT NULL,
				word_count INTEGER NOT NULL,
				personal_pronoun_count INTEGER NOT NULL,
				avg_word_length DOUBLE PRECISION NOT NULL,
				source_url TEXT NOT NULL DEFAULT '',
				position INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)`,
	},
	{
		Version: 2,
		Name:    "create_metric_records_created_at_index",
		SQL:     `CREATE INDEX IF NOT EXISTS idx_metric_records_created_at ON metric_records(created_at)`,
	},
}

// Migrate runs all pending migrations
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err := db.conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	slog.Debug("current schema version", "version", currentVersion)

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("applying migration", "version", migration.Version, "name", migration.Name)
		if err := db.apply(ctx, migration); err != nil {
			return err
		}
	}

	return nil
}

func (db *DB) apply(ctx context.Context, migration Migration) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
		return fmt.Errorf("failed to run migration %d (%s): %w", migration.Version, migration.Name, err)
	}

	query, args, err := db.builder.Insert("schema_version").Columns("version").Values(migration.Version).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build version insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
	}
	return nil
}
