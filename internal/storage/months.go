package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mthorne/budgetflow/internal/model"
)

func scanBudgetMonth(scan func(...any) error) (model.BudgetMonth, error) {
	var bm model.BudgetMonth
	var start, end string
	if err := scan(&bm.ID, &bm.UserID, &bm.Month, &start, &end, &bm.StartOverridden); err != nil {
		return bm, fmt.Errorf("failed to scan budget month: %w", err)
	}

	var err error
	if bm.AvailableStart, err = scanDecimal(start); err != nil {
		return bm, err
	}
	if bm.AvailableEnd, err = scanDecimal(end); err != nil {
		return bm, err
	}
	return bm, nil
}

func getBudgetMonth(ctx context.Context, q executor, userID string, month time.Time) (*model.BudgetMonth, error) {
	query := `
		SELECT id, user_id, month, available_start, available_end, start_overridden
		FROM budget_months
		WHERE user_id = ? AND month = ?`

	bm, err := scanBudgetMonth(q.QueryRowContext(ctx, query, userID, model.MonthOf(month)).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // No row for this month yet
	}
	if err != nil {
		return nil, err
	}
	return &bm, nil
}

// upsertBudgetMonth writes the month row keyed by user+month. Repeated
// calls with the same values are idempotent.
func upsertBudgetMonth(ctx context.Context, q executor, bm *model.BudgetMonth) error {
	if bm == nil {
		return fmt.Errorf("%w: budget month", ErrNilParameter)
	}
	if err := validateString(bm.UserID, "bm.UserID"); err != nil {
		return err
	}
	if bm.Month.IsZero() {
		return fmt.Errorf("budget month date cannot be zero")
	}

	query := `
		INSERT INTO budget_months (user_id, month, available_start, available_end, start_overridden)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, month) DO UPDATE SET
			available_start = excluded.available_start,
			available_end = excluded.available_end,
			start_overridden = excluded.start_overridden`

	if _, err := q.ExecContext(ctx, query,
		bm.UserID, model.MonthOf(bm.Month),
		bm.AvailableStart.String(), bm.AvailableEnd.String(), bm.StartOverridden); err != nil {
		return fmt.Errorf("failed to upsert budget month: %w", err)
	}
	return nil
}

// GetBudgetMonth returns the budget month row, or nil if none exists.
func (s *SQLiteStorage) GetBudgetMonth(ctx context.Context, userID string, month time.Time) (*model.BudgetMonth, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return getBudgetMonth(ctx, s.db, userID, month)
}

// UpsertBudgetMonth writes a budget month row keyed by user and month.
func (s *SQLiteStorage) UpsertBudgetMonth(ctx context.Context, bm *model.BudgetMonth) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return upsertBudgetMonth(ctx, s.db, bm)
}

// Transaction implementations for budget month operations.

func (t *sqliteTx) GetBudgetMonth(ctx context.Context, userID string, month time.Time) (*model.BudgetMonth, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getBudgetMonth(ctx, t.tx, userID, month)
}

func (t *sqliteTx) UpsertBudgetMonth(ctx context.Context, bm *model.BudgetMonth) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return upsertBudgetMonth(ctx, t.tx, bm)
}
