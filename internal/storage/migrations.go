package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/scamguard/internal/common"
)

// ExpectedSchemaVersion is the artifact schema version this build reads and
// writes. Artifacts at any other version are rejected on load.
const ExpectedSchemaVersion = 2

// schemaStep is one numbered set of DDL statements. Steps run in order, each
// in its own transaction, and bump PRAGMA user_version on commit.
type schemaStep struct {
	name    string
	stmts   []string
	version int
}

var schemaSteps = []schemaStep{
	{
		version: 1,
		name:    "model tables",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS metadata (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS vocabulary (
				idx INTEGER PRIMARY KEY,
				term TEXT UNIQUE NOT NULL,
				idf REAL NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS classes (
				id INTEGER PRIMARY KEY,
				label TEXT UNIQUE NOT NULL,
				log_prior REAL NOT NULL,
				doc_count INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS feature_log_probs (
				class_id INTEGER NOT NULL REFERENCES classes(id),
				term_idx INTEGER NOT NULL REFERENCES vocabulary(idx),
				log_prob REAL NOT NULL
			)`,
		},
	},
	{
		version: 2,
		name:    "feature weight index",
		stmts: []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_feature_log_probs_class_term
				ON feature_log_probs(class_id, term_idx)`,
		},
	},
}

// migrate brings db up to ExpectedSchemaVersion. Already applied steps are
// skipped, so calling it on a current artifact is a no-op.
func migrate(ctx context.Context, db *sql.DB) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, step := range schemaSteps {
		if step.version <= current {
			continue
		}
		if err := applyStep(ctx, db, step); err != nil {
			return err
		}
		common.LogDebug("Applied artifact schema step", common.Fields{
			"version": step.version,
			"name":    step.name,
		})
		current = step.version
	}

	if current != ExpectedSchemaVersion {
		return fmt.Errorf("artifact schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, current)
	}
	return nil
}

func applyStep(ctx context.Context, db *sql.DB, step schemaStep) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("schema step %d: begin: %w", step.version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range step.stmts {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema step %d (%s): %w", step.version, step.name, err)
		}
	}
	// PRAGMA does not accept bound parameters.
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", step.version)); err != nil {
		return fmt.Errorf("schema step %d: set version: %w", step.version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("schema step %d: commit: %w", step.version, err)
	}
	return nil
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}
