package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mthorne/budgetflow/internal/model"
)

const transactionColumns = `id, user_id, date, name, amount, category_id, credit_card_id, debt_account_id, created_at`

func scanTransaction(scan func(...any) error) (model.Transaction, error) {
	var txn model.Transaction
	var categoryID sql.NullInt64
	var cardID, debtID sql.NullString
	var amount string
	if err := scan(&txn.ID, &txn.UserID, &txn.Date, &txn.Name, &amount,
		&categoryID, &cardID, &debtID, &txn.CreatedAt); err != nil {
		return txn, fmt.Errorf("failed to scan transaction: %w", err)
	}

	var err error
	if txn.Amount, err = scanDecimal(amount); err != nil {
		return txn, err
	}
	txn.CategoryID = scanNullInt64(categoryID)
	txn.CreditCardID = scanNullString(cardID)
	txn.DebtAccountID = scanNullString(debtID)
	return txn, nil
}

func getTransactions(ctx context.Context, q executor, userID string, start, end time.Time) ([]model.Transaction, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %v is before start %v", ErrInvalidDateRange, end, start)
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date < ?
		ORDER BY date, id`

	rows, err := q.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}

func getTransactionByID(ctx context.Context, q executor, id string) (*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

	txn, err := scanTransaction(q.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Transaction not found
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func createTransaction(ctx context.Context, q executor, txn *model.Transaction) error {
	if err := validateTransaction(txn); err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (id, user_id, date, name, amount, category_id, credit_card_id, debt_account_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	if _, err := q.ExecContext(ctx, query,
		txn.ID, txn.UserID, txn.Date, txn.Name, txn.Amount.String(),
		nullInt64(txn.CategoryID), nullString(txn.CreditCardID), nullString(txn.DebtAccountID), now); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	txn.CreatedAt = now
	return nil
}

func updateTransaction(ctx context.Context, q executor, txn *model.Transaction) error {
	if err := validateTransaction(txn); err != nil {
		return err
	}

	query := `
		UPDATE transactions
		SET date = ?, name = ?, amount = ?, category_id = ?, credit_card_id = ?, debt_account_id = ?
		WHERE id = ?`

	result, err := q.ExecContext(ctx, query,
		txn.Date, txn.Name, txn.Amount.String(),
		nullInt64(txn.CategoryID), nullString(txn.CreditCardID), nullString(txn.DebtAccountID), txn.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check transaction update: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func deleteTransaction(ctx context.Context, q executor, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check transaction delete: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// sumLinkedPayments totals every transaction amount recorded against
// one card or debt account, for the recalculate-balances repair path.
func sumLinkedPayments(ctx context.Context, q executor, column, accountID string) (decimal.Decimal, error) {
	query := `SELECT amount FROM transactions WHERE ` + column + ` = ?`

	rows, err := q.QueryContext(ctx, query, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query linked payments: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan payment amount: %w", err)
		}
		amount, err := scanDecimal(raw)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(amount)
	}

	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("error iterating payments: %w", err)
	}
	return total, nil
}

// GetTransactions returns transactions in the half-open range [start, end).
func (s *SQLiteStorage) GetTransactions(ctx context.Context, userID string, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return getTransactions(ctx, s.db, userID, start, end)
}

// GetTransactionByID returns a transaction by ID, or nil if it does not exist.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getTransactionByID(ctx, s.db, id)
}

// CreateTransaction inserts a transaction.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return createTransaction(ctx, s.db, txn)
}

// UpdateTransaction rewrites a transaction row.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return updateTransaction(ctx, s.db, txn)
}

// DeleteTransaction removes a transaction row.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return deleteTransaction(ctx, s.db, id)
}

// SumCardPayments totals all payments linked to a credit card.
func (s *SQLiteStorage) SumCardPayments(ctx context.Context, cardID string) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	return sumLinkedPayments(ctx, s.db, "credit_card_id", cardID)
}

// SumDebtPayments totals all payments linked to a debt account.
func (s *SQLiteStorage) SumDebtPayments(ctx context.Context, debtAccountID string) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	return sumLinkedPayments(ctx, s.db, "debt_account_id", debtAccountID)
}

// Transaction implementations for transaction operations.

func (t *sqliteTx) GetTransactions(ctx context.Context, userID string, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getTransactions(ctx, t.tx, userID, start, end)
}

func (t *sqliteTx) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getTransactionByID(ctx, t.tx, id)
}

func (t *sqliteTx) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return createTransaction(ctx, t.tx, txn)
}

func (t *sqliteTx) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return updateTransaction(ctx, t.tx, txn)
}

func (t *sqliteTx) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return deleteTransaction(ctx, t.tx, id)
}

func (t *sqliteTx) SumCardPayments(ctx context.Context, cardID string) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	return sumLinkedPayments(ctx, t.tx, "credit_card_id", cardID)
}

func (t *sqliteTx) SumDebtPayments(ctx context.Context, debtAccountID string) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	return sumLinkedPayments(ctx, t.tx, "debt_account_id", debtAccountID)
}
