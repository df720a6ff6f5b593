package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mthorne/budgetflow/internal/model"
)

func scanPlannedItem(scan func(...any) error) (model.PlannedItem, error) {
	var item model.PlannedItem
	var cardID, debtID sql.NullString
	var amount string
	if err := scan(&item.ID, &item.UserID, &item.Month, &item.Type, &item.CategoryID,
		&cardID, &debtID, &item.Name, &amount, &item.CreatedAt); err != nil {
		return item, fmt.Errorf("failed to scan planned item: %w", err)
	}

	var err error
	if item.Amount, err = scanDecimal(amount); err != nil {
		return item, err
	}
	item.CreditCardID = scanNullString(cardID)
	item.DebtAccountID = scanNullString(debtID)
	return item, nil
}

// getPlannedItems returns the user's planned items for one calendar
// month using a half-open [start, end) range on the stored month date.
func getPlannedItems(ctx context.Context, q executor, userID string, month time.Time) ([]model.PlannedItem, error) {
	start, end := model.MonthRange(month)
	query := `
		SELECT id, user_id, month, item_type, category_id, credit_card_id, debt_account_id, name, amount, created_at
		FROM planned_items
		WHERE user_id = ? AND month >= ? AND month < ?
		ORDER BY created_at, id`

	rows, err := q.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query planned items: %w", err)
	}
	defer rows.Close()

	var items []model.PlannedItem
	for rows.Next() {
		item, err := scanPlannedItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating planned items: %w", err)
	}
	return items, nil
}

func createPlannedItem(ctx context.Context, q executor, item *model.PlannedItem) error {
	if err := validatePlannedItem(item); err != nil {
		return err
	}

	query := `
		INSERT INTO planned_items (id, user_id, month, item_type, category_id, credit_card_id, debt_account_id, name, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	if _, err := q.ExecContext(ctx, query,
		item.ID, item.UserID, model.MonthOf(item.Month), item.Type, item.CategoryID,
		nullString(item.CreditCardID), nullString(item.DebtAccountID),
		item.Name, item.Amount.String(), now); err != nil {
		return fmt.Errorf("failed to create planned item: %w", err)
	}
	item.CreatedAt = now
	return nil
}

func updatePlannedItemAmount(ctx context.Context, q executor, id string, amount decimal.Decimal) error {
	result, err := q.ExecContext(ctx,
		`UPDATE planned_items SET amount = ? WHERE id = ?`, amount.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update planned item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check planned item update: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func deletePlannedItem(ctx context.Context, q executor, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM planned_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete planned item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check planned item delete: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetPlannedItems returns the user's planned items for a month.
func (s *SQLiteStorage) GetPlannedItems(ctx context.Context, userID string, month time.Time) ([]model.PlannedItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return getPlannedItems(ctx, s.db, userID, month)
}

// CreatePlannedItem inserts a planned item.
func (s *SQLiteStorage) CreatePlannedItem(ctx context.Context, item *model.PlannedItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return createPlannedItem(ctx, s.db, item)
}

// UpdatePlannedItemAmount rewrites one planned item's amount.
func (s *SQLiteStorage) UpdatePlannedItemAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return updatePlannedItemAmount(ctx, s.db, id, amount)
}

// DeletePlannedItem removes a planned item.
func (s *SQLiteStorage) DeletePlannedItem(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return deletePlannedItem(ctx, s.db, id)
}

// Transaction implementations for planned item operations.

func (t *sqliteTx) GetPlannedItems(ctx context.Context, userID string, month time.Time) ([]model.PlannedItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getPlannedItems(ctx, t.tx, userID, month)
}

func (t *sqliteTx) CreatePlannedItem(ctx context.Context, item *model.PlannedItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return createPlannedItem(ctx, t.tx, item)
}

func (t *sqliteTx) UpdatePlannedItemAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return updatePlannedItemAmount(ctx, t.tx, id, amount)
}

func (t *sqliteTx) DeletePlannedItem(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return deletePlannedItem(ctx, t.tx, id)
}
