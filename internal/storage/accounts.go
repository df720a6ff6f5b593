package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mthorne/budgetflow/internal/model"
)

func scanCreditCard(scan func(...any) error) (model.CreditCard, error) {
	var card model.CreditCard
	var apr, minPayment sql.NullString
	var balance string
	if err := scan(&card.ID, &card.UserID, &card.Name, &apr, &balance, &minPayment, &card.CreatedAt); err != nil {
		return card, fmt.Errorf("failed to scan credit card: %w", err)
	}

	var err error
	if card.Balance, err = scanDecimal(balance); err != nil {
		return card, err
	}
	if card.APR, err = scanNullDecimal(apr); err != nil {
		return card, err
	}
	if card.MinPayment, err = scanNullDecimal(minPayment); err != nil {
		return card, err
	}
	return card, nil
}

func getCreditCards(ctx context.Context, q executor, userID string) ([]model.CreditCard, error) {
	query := `
		SELECT id, user_id, name, apr, balance, min_payment, created_at
		FROM credit_cards
		WHERE user_id = ?
		ORDER BY name`

	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query credit cards: %w", err)
	}
	defer rows.Close()

	var cards []model.CreditCard
	for rows.Next() {
		card, err := scanCreditCard(rows.Scan)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credit cards: %w", err)
	}
	return cards, nil
}

func getCreditCardByID(ctx context.Context, q executor, id string) (*model.CreditCard, error) {
	query := `
		SELECT id, user_id, name, apr, balance, min_payment, created_at
		FROM credit_cards
		WHERE id = ?`

	card, err := scanCreditCard(q.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Card not found
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func createCreditCard(ctx context.Context, q executor, card *model.CreditCard) error {
	if card == nil {
		return fmt.Errorf("%w: credit card", ErrNilParameter)
	}
	if err := validateString(card.ID, "card.ID"); err != nil {
		return err
	}
	if err := validateString(card.Name, "card.Name"); err != nil {
		return err
	}

	query := `
		INSERT INTO credit_cards (id, user_id, name, apr, balance, min_payment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	if _, err := q.ExecContext(ctx, query,
		card.ID, card.UserID, card.Name, nullDecimal(card.APR),
		card.Balance.String(), nullDecimal(card.MinPayment), now); err != nil {
		return fmt.Errorf("failed to create credit card: %w", err)
	}
	card.CreatedAt = now
	return nil
}

func scanDebtAccount(scan func(...any) error) (model.DebtAccount, error) {
	var debt model.DebtAccount
	var apr, minPayment sql.NullString
	var dueDate sql.NullTime
	var balance string
	if err := scan(&debt.ID, &debt.UserID, &debt.Name, &debt.DebtType, &balance,
		&apr, &minPayment, &dueDate, &debt.CreatedAt); err != nil {
		return debt, fmt.Errorf("failed to scan debt account: %w", err)
	}

	var err error
	if debt.Balance, err = scanDecimal(balance); err != nil {
		return debt, err
	}
	if debt.APR, err = scanNullDecimal(apr); err != nil {
		return debt, err
	}
	if debt.MinPayment, err = scanNullDecimal(minPayment); err != nil {
		return debt, err
	}
	if dueDate.Valid {
		d := dueDate.Time
		debt.DueDate = &d
	}
	return debt, nil
}

func getDebtAccounts(ctx context.Context, q executor, userID string) ([]model.DebtAccount, error) {
	query := `
		SELECT id, user_id, name, debt_type, balance, apr, min_payment, due_date, created_at
		FROM debt_accounts
		WHERE user_id = ?
		ORDER BY name`

	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query debt accounts: %w", err)
	}
	defer rows.Close()

	var debts []model.DebtAccount
	for rows.Next() {
		debt, err := scanDebtAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		debts = append(debts, debt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debt accounts: %w", err)
	}
	return debts, nil
}

func getDebtAccountByID(ctx context.Context, q executor, id string) (*model.DebtAccount, error) {
	query := `
		SELECT id, user_id, name, debt_type, balance, apr, min_payment, due_date, created_at
		FROM debt_accounts
		WHERE id = ?`

	debt, err := scanDebtAccount(q.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Debt account not found
	}
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

func createDebtAccount(ctx context.Context, q executor, debt *model.DebtAccount) error {
	if debt == nil {
		return fmt.Errorf("%w: debt account", ErrNilParameter)
	}
	if err := validateString(debt.ID, "debt.ID"); err != nil {
		return err
	}
	if err := validateString(debt.Name, "debt.Name"); err != nil {
		return err
	}
	if !model.ValidDebtType(debt.DebtType) {
		return fmt.Errorf("unknown debt type %q", debt.DebtType)
	}

	query := `
		INSERT INTO debt_accounts (id, user_id, name, debt_type, balance, apr, min_payment, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var dueDate sql.NullTime
	if debt.DueDate != nil {
		dueDate = sql.NullTime{Time: *debt.DueDate, Valid: true}
	}

	now := time.Now().UTC()
	if _, err := q.ExecContext(ctx, query,
		debt.ID, debt.UserID, debt.Name, debt.DebtType, debt.Balance.String(),
		nullDecimal(debt.APR), nullDecimal(debt.MinPayment), dueDate, now); err != nil {
		return fmt.Errorf("failed to create debt account: %w", err)
	}
	debt.CreatedAt = now
	return nil
}

// adjustBalance reads, shifts, and rewrites a stored balance. Amounts
// live in TEXT columns, so the arithmetic happens here rather than in
// SQL.
func adjustBalance(ctx context.Context, q executor, table, id string, delta decimal.Decimal) error {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT balance FROM `+table+` WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.ErrNoRows
	}
	if err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}

	balance, err := scanDecimal(raw)
	if err != nil {
		return err
	}
	next := balance.Add(delta)

	if _, err := q.ExecContext(ctx, `UPDATE `+table+` SET balance = ? WHERE id = ?`, next.String(), id); err != nil {
		return fmt.Errorf("failed to write balance: %w", err)
	}

	slog.Debug("adjusted balance", "table", table, "id", id, "delta", delta.String(), "balance", next.String())
	return nil
}

func setBalance(ctx context.Context, q executor, table, id string, balance decimal.Decimal) error {
	result, err := q.ExecContext(ctx, `UPDATE `+table+` SET balance = ? WHERE id = ?`, balance.String(), id)
	if err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check balance update: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetCreditCards returns all credit cards for a user.
func (s *SQLiteStorage) GetCreditCards(ctx context.Context, userID string) ([]model.CreditCard, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCreditCards(ctx, s.db, userID)
}

// GetCreditCardByID returns a credit card by ID, or nil if it does not exist.
func (s *SQLiteStorage) GetCreditCardByID(ctx context.Context, id string) (*model.CreditCard, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCreditCardByID(ctx, s.db, id)
}

// CreateCreditCard inserts a credit card.
func (s *SQLiteStorage) CreateCreditCard(ctx context.Context, card *model.CreditCard) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return createCreditCard(ctx, s.db, card)
}

// AdjustCreditCardBalance shifts a card balance by delta.
func (s *SQLiteStorage) AdjustCreditCardBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return adjustBalance(ctx, s.db, "credit_cards", id, delta)
}

// SetCreditCardBalance overwrites a card balance.
func (s *SQLiteStorage) SetCreditCardBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return setBalance(ctx, s.db, "credit_cards", id, balance)
}

// GetDebtAccounts returns all debt accounts for a user.
func (s *SQLiteStorage) GetDebtAccounts(ctx context.Context, userID string) ([]model.DebtAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getDebtAccounts(ctx, s.db, userID)
}

// GetDebtAccountByID returns a debt account by ID, or nil if it does not exist.
func (s *SQLiteStorage) GetDebtAccountByID(ctx context.Context, id string) (*model.DebtAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getDebtAccountByID(ctx, s.db, id)
}

// CreateDebtAccount inserts a debt account.
func (s *SQLiteStorage) CreateDebtAccount(ctx context.Context, debt *model.DebtAccount) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return createDebtAccount(ctx, s.db, debt)
}

// AdjustDebtAccountBalance shifts a debt account balance by delta.
func (s *SQLiteStorage) AdjustDebtAccountBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return adjustBalance(ctx, s.db, "debt_accounts", id, delta)
}

// SetDebtAccountBalance overwrites a debt account balance.
func (s *SQLiteStorage) SetDebtAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return setBalance(ctx, s.db, "debt_accounts", id, balance)
}

// Transaction implementations for account operations.

func (t *sqliteTx) GetCreditCards(ctx context.Context, userID string) ([]model.CreditCard, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCreditCards(ctx, t.tx, userID)
}

func (t *sqliteTx) GetCreditCardByID(ctx context.Context, id string) (*model.CreditCard, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCreditCardByID(ctx, t.tx, id)
}

func (t *sqliteTx) CreateCreditCard(ctx context.Context, card *model.CreditCard) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return createCreditCard(ctx, t.tx, card)
}

func (t *sqliteTx) AdjustCreditCardBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return adjustBalance(ctx, t.tx, "credit_cards", id, delta)
}

func (t *sqliteTx) SetCreditCardBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return setBalance(ctx, t.tx, "credit_cards", id, balance)
}

func (t *sqliteTx) GetDebtAccounts(ctx context.Context, userID string) ([]model.DebtAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getDebtAccounts(ctx, t.tx, userID)
}

func (t *sqliteTx) GetDebtAccountByID(ctx context.Context, id string) (*model.DebtAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getDebtAccountByID(ctx, t.tx, id)
}

func (t *sqliteTx) CreateDebtAccount(ctx context.Context, debt *model.DebtAccount) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return createDebtAccount(ctx, t.tx, debt)
}

func (t *sqliteTx) AdjustDebtAccountBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return adjustBalance(ctx, t.tx, "debt_accounts", id, delta)
}

func (t *sqliteTx) SetDebtAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return setBalance(ctx, t.tx, "debt_accounts", id, balance)
}
