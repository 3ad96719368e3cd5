package migration

import (
	"context"

	"hypotest/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createTestResultsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create test_results table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createTestResultsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS test_results (
			id UUID PRIMARY KEY,
			label TEXT NOT NULL DEFAULT '',
			kind VARCHAR(8) NOT NULL,
			tail VARCHAR(16) NOT NULL,
			alpha DOUBLE PRECISION NOT NULL CHECK (alpha > 0 AND alpha < 1),
			dof1 DOUBLE PRECISION NOT NULL DEFAULT 0,
			dof2 DOUBLE PRECISION NOT NULL DEFAULT 0,
			statistic DOUBLE PRECISION NOT NULL,
			p_value DOUBLE PRECISION NOT NULL CHECK (p_value >= 0 AND p_value <= 1),
			decision VARCHAR(8) NOT NULL,
			inputs JSONB,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_test_results_created_at ON test_results(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_test_results_kind ON test_results(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_test_results_decision ON test_results(decision)`,
	}

	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
