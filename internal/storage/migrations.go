package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// auditColumns is appended to every table definition so each entity carries
// the same bookkeeping fields and the audit hook can treat them uniformly.
const auditColumns = `
	created_date DATETIME NOT NULL,
	last_updated_date DATETIME NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 1`

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Finance tables",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS countries (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					code TEXT NOT NULL,` + auditColumns + `
				)`,

				`CREATE TABLE IF NOT EXISTS currencies (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					code TEXT NOT NULL,
					name TEXT NOT NULL,
					symbol TEXT,` + auditColumns + `
				)`,

				`CREATE TABLE IF NOT EXISTS banks (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					country_id INTEGER REFERENCES countries(id),` + auditColumns + `
				)`,

				`CREATE TABLE IF NOT EXISTS accounts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					number TEXT,
					bank_id INTEGER REFERENCES banks(id),
					currency_code TEXT,
					description TEXT,` + auditColumns + `
				)`,

				`CREATE TABLE IF NOT EXISTS balances (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					account_id INTEGER NOT NULL REFERENCES accounts(id),
					amount TEXT NOT NULL,
					as_of_date DATETIME NOT NULL,` + auditColumns + `
				)`,
				`CREATE INDEX idx_balances_account ON balances(account_id)`,

				`CREATE TABLE IF NOT EXISTS cards (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					account_id INTEGER NOT NULL REFERENCES accounts(id),
					name TEXT NOT NULL,
					expiry_date DATETIME,` + auditColumns + `
				)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					date DATETIME NOT NULL,
					amount TEXT NOT NULL,
					description TEXT,
					note TEXT,
					account_id INTEGER NOT NULL REFERENCES accounts(id),
					category_name TEXT,
					category_confirmed INTEGER,
					dedup_key TEXT NOT NULL,` + auditColumns + `
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_account ON transactions(account_id)`,
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
		Description: "Ancillary, salary, and house-thing tables",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS currency_conversion_rates (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					from_code TEXT NOT NULL,
					to_code TEXT NOT NULL,
					rate TEXT NOT NULL,
					rate_date DATETIME NOT NULL,` + auditColumns + `
				)`,

				`CREATE TABLE IF NOT EXISTS suppliers (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					website TEXT,` + auditColumns + `
				)`,

				`CREATE TABLE IF NOT EXISTS service_users (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					supplier_id INTEGER NOT NULL REFERENCES suppliers(id),
					reference TEXT,` + auditColumns + `
				)`,

				`CREATE TABLE IF NOT EXISTS rooms (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					floor TEXT,` + auditColumns + `
				)`,

				`CREATE TABLE IF NOT EXISTS house_things (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					room_id INTEGER NOT NULL REFERENCES rooms(id),
					name TEXT NOT NULL,
					brand TEXT,
					purchase_date DATETIME,
					history_id TEXT NOT NULL,` + auditColumns + `
				)`,
				`CREATE INDEX idx_house_things_history ON house_things(history_id)`,

				`CREATE TABLE IF NOT EXISTS salaries (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					month DATETIME NOT NULL,
					employer TEXT,
					currency_code TEXT,
					gross_amount TEXT NOT NULL,
					net_amount TEXT NOT NULL,` + auditColumns + `
				)`,
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
		Version:     3,
		Description: "Enforce transaction dedup key for active rows",
		Up: func(tx *sql.Tx) error {
			// Partial index: only active rows participate, so soft-deleting a
			// transaction frees its key for re-creation.
			_, err := tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS
				idx_transactions_dedup_active ON transactions(dedup_key)
				WHERE is_active = 1`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		// Update version
		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
