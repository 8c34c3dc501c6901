package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_assist_questions_table",
		Up: `
			CREATE TABLE IF NOT EXISTS assist_questions (
				id TEXT PRIMARY KEY,
				text TEXT NOT NULL,
				language TEXT NOT NULL,
				category TEXT NOT NULL,
				query_type TEXT NOT NULL,
				used_scraping BOOLEAN NOT NULL DEFAULT FALSE,
				ai_used BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_assist_questions_created_at ON assist_questions(created_at);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_assist_questions_created_at;
			DROP TABLE IF EXISTS assist_questions;
		`,
	},
	{
		Version: 2,
		Name:    "create_assist_feedback_table",
		Up: `
			CREATE TABLE IF NOT EXISTS assist_feedback (
				id BIGSERIAL PRIMARY KEY,
				question_id TEXT NOT NULL,
				is_helpful BOOLEAN NOT NULL,
				comment TEXT,
				message_content TEXT,
				language TEXT,
				created_at TIMESTAMPTZ DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_assist_feedback_question_id ON assist_feedback(question_id);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_assist_feedback_question_id;
			DROP TABLE IF EXISTS assist_feedback;
		`,
	},
	{
		Version: 3,
		Name:    "create_assist_fallback_requests_table",
		Up: `
			CREATE TABLE IF NOT EXISTS assist_fallback_requests (
				id TEXT PRIMARY KEY,
				question_text TEXT NOT NULL,
				user_language TEXT NOT NULL,
				feedback TEXT,
				handled BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_assist_fallback_requests_handled ON assist_fallback_requests(handled);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_assist_fallback_requests_handled;
			DROP TABLE IF EXISTS assist_fallback_requests;
		`,
	},
}

// Migrate runs all pending migrations in version order
func Migrate(ctx context.Context, db *sql.DB) error {
	if err := ensureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := getCurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	for _, m := range sortedMigrations() {
		if m.Version <= currentVersion {
			continue
		}
		if err := runMigration(ctx, db, m); err != nil {
			return fmt.Errorf("failed to run migration %d (%s): %w", m.Version, m.Name, err)
		}
	}
	return nil
}

func sortedMigrations() []Migration {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})
	return sorted
}

// ensureMigrationsTable creates the assist_schema_version table if it doesn't exist
func ensureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS assist_schema_version (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		);
	`)
	return err
}

// getCurrentVersion returns the current migration version
func getCurrentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM assist_schema_version").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// runMigration executes a single migration
func runMigration(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.Up); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO assist_schema_version (version, name) VALUES ($1, $2)",
		m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}

// Rollback rolls back the last migration
func Rollback(ctx context.Context, db *sql.DB) error {
	currentVersion, err := getCurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if currentVersion == 0 {
		return fmt.Errorf("no migrations to rollback")
	}

	var target *Migration
	for i := range migrations {
		if migrations[i].Version == currentVersion {
			target = &migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("migration %d not found", currentVersion)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, target.Down); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM assist_schema_version WHERE version = $1", currentVersion); err != nil {
		return fmt.Errorf("failed to remove migration record: %w", err)
	}

	return tx.Commit()
}

// MigrationStatus represents the status of a migration
type MigrationStatus struct {
	Version int
	Name    string
	Applied bool
}

// GetMigrationStatus returns the current migration status
func GetMigrationStatus(ctx context.Context, db *sql.DB) ([]MigrationStatus, error) {
	currentVersion, err := getCurrentVersion(ctx, db)
	if err != nil {
		return nil, err
	}

	var status []MigrationStatus
	for _, m := range sortedMigrations() {
		status = append(status, MigrationStatus{
			Version: m.Version,
			Name:    m.Name,
			Applied: m.Version <= currentVersion,
		})
	}
	return status, nil
}
