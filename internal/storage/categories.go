package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mthorne/budgetflow/internal/model"
	"github.com/mthorne/budgetflow/internal/service"
)

const categoryColumns = `id, user_id, grp, name, parent_id, sort_order, archived, is_default, is_credit_card, created_at`

func scanCategory(scan func(...any) error) (model.Category, error) {
	var cat model.Category
	var parentID sql.NullInt64
	if err := scan(&cat.ID, &cat.UserID, &cat.Group, &cat.Name, &parentID,
		&cat.SortOrder, &cat.Archived, &cat.IsDefault, &cat.IsCreditCardBucket, &cat.CreatedAt); err != nil {
		return cat, fmt.Errorf("failed to scan category: %w", err)
	}
	cat.ParentID = scanNullInt64(parentID)
	return cat, nil
}

// getCategories returns every category for the user, archived rows
// included, ordered the way the tree displays them.
func getCategories(ctx context.Context, q executor, userID string) ([]model.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = ?
		ORDER BY grp, parent_id IS NOT NULL, sort_order, id`

	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func getCategoryByID(ctx context.Context, q executor, id int64) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`

	cat, err := scanCategory(q.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Category not found
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func createCategory(ctx context.Context, q executor, cat *model.Category) error {
	if err := validateCategory(cat); err != nil {
		return err
	}

	query := `
		INSERT INTO categories (user_id, grp, name, parent_id, sort_order, archived, is_default, is_credit_card, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	result, err := q.ExecContext(ctx, query,
		cat.UserID, cat.Group, cat.Name, nullInt64(cat.ParentID),
		cat.SortOrder, cat.Archived, cat.IsDefault, cat.IsCreditCardBucket, now)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get category ID: %w", err)
	}
	cat.ID = id
	cat.CreatedAt = now

	slog.Debug("created category", "name", cat.Name, "group", cat.Group, "id", id)
	return nil
}

func updateCategory(ctx context.Context, q executor, cat *model.Category) error {
	if err := validateCategory(cat); err != nil {
		return err
	}

	query := `
		UPDATE categories
		SET grp = ?, name = ?, parent_id = ?, sort_order = ?, archived = ?, is_default = ?, is_credit_card = ?
		WHERE id = ?`

	result, err := q.ExecContext(ctx, query,
		cat.Group, cat.Name, nullInt64(cat.ParentID), cat.SortOrder,
		cat.Archived, cat.IsDefault, cat.IsCreditCardBucket, cat.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func deleteCategory(ctx context.Context, q executor, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	slog.Debug("deleted category", "id", id)
	return nil
}

// updateCategorySortOrders rewrites sort order (and parent, for a
// reparenting drag) for a whole sibling set in one batch.
func updateCategorySortOrders(ctx context.Context, q executor, orders []service.CategoryOrder) error {
	query := `UPDATE categories SET sort_order = ?, parent_id = ? WHERE id = ?`
	for _, o := range orders {
		if _, err := q.ExecContext(ctx, query, o.SortOrder, nullInt64(o.ParentID), o.ID); err != nil {
			return fmt.Errorf("failed to update sort order for category %d: %w", o.ID, err)
		}
	}
	return nil
}

// GetCategories returns all categories for a user.
func (s *SQLiteStorage) GetCategories(ctx context.Context, userID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return getCategories(ctx, s.db, userID)
}

// GetCategoryByID returns a category by ID, or nil if it does not exist.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategoryByID(ctx, s.db, id)
}

// CreateCategory inserts a category and assigns its ID.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, cat *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return createCategory(ctx, s.db, cat)
}

// UpdateCategory rewrites a category row.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, cat *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return updateCategory(ctx, s.db, cat)
}

// DeleteCategory removes a category row.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return deleteCategory(ctx, s.db, id)
}

// UpdateCategorySortOrders applies a batch sort-order assignment.
// Callers that need the batch to be atomic run it through BeginTx.
func (s *SQLiteStorage) UpdateCategorySortOrders(ctx context.Context, orders []service.CategoryOrder) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return updateCategorySortOrders(ctx, s.db, orders)
}

// Transaction implementations for category operations.

func (t *sqliteTx) GetCategories(ctx context.Context, userID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategories(ctx, t.tx, userID)
}

func (t *sqliteTx) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategoryByID(ctx, t.tx, id)
}

func (t *sqliteTx) CreateCategory(ctx context.Context, cat *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return createCategory(ctx, t.tx, cat)
}

func (t *sqliteTx) UpdateCategory(ctx context.Context, cat *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return updateCategory(ctx, t.tx, cat)
}

func (t *sqliteTx) DeleteCategory(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return deleteCategory(ctx, t.tx, id)
}

func (t *sqliteTx) UpdateCategorySortOrders(ctx context.Context, orders []service.CategoryOrder) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return updateCategorySortOrders(ctx, t.tx, orders)
}
