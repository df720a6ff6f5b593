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

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					user_id TEXT NOT NULL,
					grp TEXT NOT NULL,
					name TEXT NOT NULL,
					parent_id INTEGER,
					sort_order INTEGER NOT NULL DEFAULT 0,
					archived INTEGER NOT NULL DEFAULT 0,
					is_default INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (parent_id) REFERENCES categories(id)
				)`,
				`CREATE INDEX idx_categories_user ON categories(user_id, grp)`,

				`CREATE TABLE IF NOT EXISTS credit_cards (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					name TEXT NOT NULL,
					apr TEXT,
					balance TEXT NOT NULL DEFAULT '0',
					min_payment TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_credit_cards_user ON credit_cards(user_id)`,

				`CREATE TABLE IF NOT EXISTS debt_accounts (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					name TEXT NOT NULL,
					debt_type TEXT NOT NULL,
					balance TEXT NOT NULL DEFAULT '0',
					apr TEXT,
					min_payment TEXT,
					due_date DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_debt_accounts_user ON debt_accounts(user_id)`,

				`CREATE TABLE IF NOT EXISTS planned_items (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					month DATETIME NOT NULL,
					item_type TEXT NOT NULL,
					category_id INTEGER NOT NULL,
					credit_card_id TEXT,
					debt_account_id TEXT,
					name TEXT NOT NULL,
					amount TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (category_id) REFERENCES categories(id)
				)`,
				`CREATE INDEX idx_planned_items_month ON planned_items(user_id, month)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					date DATETIME NOT NULL,
					name TEXT NOT NULL,
					amount TEXT NOT NULL,
					category_id INTEGER,
					credit_card_id TEXT,
					debt_account_id TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (category_id) REFERENCES categories(id)
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(user_id, date)`,

				`CREATE TABLE IF NOT EXISTS budget_months (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					user_id TEXT NOT NULL,
					month DATETIME NOT NULL,
					available_start TEXT NOT NULL DEFAULT '0',
					available_end TEXT NOT NULL DEFAULT '0',
					start_overridden INTEGER NOT NULL DEFAULT 0,
					UNIQUE(user_id, month)
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
		Version:     2,
		Description: "Tag credit card payment categories explicitly",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE categories ADD COLUMN is_credit_card INTEGER NOT NULL DEFAULT 0`,
				// Backfill from the historical name rule: a debt-group
				// category counts if its own name or its parent's name
				// says "credit card".
				`UPDATE categories SET is_credit_card = 1
					WHERE grp = 'debt' AND (
						LOWER(name) LIKE '%credit card%'
						OR parent_id IN (
							SELECT id FROM categories WHERE LOWER(name) LIKE '%credit card%'
						)
					)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add lookup indexes for linked payments",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_transactions_card ON transactions(credit_card_id)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_debt ON transactions(debt_account_id)`,
				`CREATE INDEX IF NOT EXISTS idx_planned_items_category ON planned_items(category_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

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
