package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application
// expects. Failure to migrate to it is fatal.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: transactions",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					date DATETIME NOT NULL,
					description TEXT NOT NULL,
					amount REAL NOT NULL,
					currency TEXT NOT NULL DEFAULT 'USD',
					type TEXT NOT NULL,
					account_id TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Scan runs, candidates, and anomaly flags",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS scan_runs (
					id TEXT PRIMARY KEY,
					as_of DATETIME NOT NULL,
					mode TEXT NOT NULL,
					transaction_count INTEGER NOT NULL DEFAULT 0,
					subscription_count INTEGER NOT NULL DEFAULT 0,
					anomaly_count INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS scan_candidates (
					run_id TEXT NOT NULL,
					rank INTEGER NOT NULL,
					merchant_key TEXT NOT NULL,
					brand TEXT,
					category TEXT,
					cadence TEXT,
					count INTEGER NOT NULL,
					mean_amount REAL NOT NULL,
					cv REAL,
					probability REAL,
					is_recurring INTEGER NOT NULL DEFAULT 0,
					is_subscription INTEGER NOT NULL DEFAULT 0,
					missed_cycle INTEGER NOT NULL DEFAULT 0,
					last_date DATETIME,
					next_expected DATETIME,
					PRIMARY KEY (run_id, merchant_key),
					FOREIGN KEY (run_id) REFERENCES scan_runs(id)
				)`,
				`CREATE TABLE IF NOT EXISTS scan_anomalies (
					run_id TEXT NOT NULL,
					merchant_key TEXT NOT NULL,
					date DATETIME NOT NULL,
					description TEXT NOT NULL,
					amount REAL NOT NULL,
					score REAL NOT NULL,
					method TEXT NOT NULL,
					FOREIGN KEY (run_id) REFERENCES scan_runs(id)
				)`,
				`CREATE INDEX idx_scan_candidates_run ON scan_candidates(run_id, rank)`,
				`CREATE INDEX idx_scan_anomalies_run ON scan_anomalies(run_id)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// runMigrations applies pending migrations in order, each in its own
// transaction.
func runMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var current int
	err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, m.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		slog.Info("applied migration", "version", m.Version, "description", m.Description)
	}

	return nil
}
