package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mthorne/budgetflow/internal/model"
	"github.com/mthorne/budgetflow/internal/storage"
)

// newTestEngine spins up an engine over a fresh on-disk SQLite store.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return New(store)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testMonth() time.Time {
	return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
}

// mustCategory creates a category or fails the test.
func mustCategory(t *testing.T, e *Engine, user string, group model.CategoryGroup, name string, parentID *int64) *model.Category {
	t.Helper()
	cat, err := e.CreateCategory(context.Background(), user, group, name, parentID)
	require.NoError(t, err)
	return cat
}

// mustCard creates a credit card with the given balance.
func mustCard(t *testing.T, e *Engine, user, name, balance string) *model.CreditCard {
	t.Helper()
	card, err := e.AddCreditCard(context.Background(), user, name, dec(balance), nil, nil)
	require.NoError(t, err)
	return card
}

// mustDebt creates a debt account.
func mustDebt(t *testing.T, e *Engine, user, name string, debtType model.DebtType, balance string, minPayment *decimal.Decimal) *model.DebtAccount {
	t.Helper()
	debt, err := e.AddDebtAccount(context.Background(), user, name, debtType, dec(balance), nil, minPayment, nil)
	require.NoError(t, err)
	return debt
}

// mustInsertTxn records a transaction in the test month.
func mustInsertTxn(t *testing.T, e *Engine, user string, in TransactionInput) *model.Transaction {
	t.Helper()
	if in.Date.IsZero() {
		in.Date = testMonth().AddDate(0, 0, 10)
	}
	txn, err := e.InsertTransaction(context.Background(), user, in)
	require.NoError(t, err)
	return txn
}

// requireDecimal asserts exact decimal equality with a readable diff.
func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func ptr[T any](v T) *T {
	return &v
}
