// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mthorne/budgetflow/internal/model"
)

// CategoryOrder is one row of a batch sort-order assignment. ParentID
// travels with the order so a reorder that also reparents lands in the
// same write.
type CategoryOrder struct {
	ParentID  *int64
	ID        int64
	SortOrder int
}

// Storage defines the contract for the persistence collaborator. All
// reads are scoped by user; date ranges are half-open [start, end).
type Storage interface {
	// Category operations
	GetCategories(ctx context.Context, userID string) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*model.Category, error)
	CreateCategory(ctx context.Context, cat *model.Category) error
	UpdateCategory(ctx context.Context, cat *model.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	UpdateCategorySortOrders(ctx context.Context, orders []CategoryOrder) error

	// Credit card operations
	GetCreditCards(ctx context.Context, userID string) ([]model.CreditCard, error)
	GetCreditCardByID(ctx context.Context, id string) (*model.CreditCard, error)
	CreateCreditCard(ctx context.Context, card *model.CreditCard) error
	AdjustCreditCardBalance(ctx context.Context, id string, delta decimal.Decimal) error
	SetCreditCardBalance(ctx context.Context, id string, balance decimal.Decimal) error

	// Debt account operations
	GetDebtAccounts(ctx context.Context, userID string) ([]model.DebtAccount, error)
	GetDebtAccountByID(ctx context.Context, id string) (*model.DebtAccount, error)
	CreateDebtAccount(ctx context.Context, debt *model.DebtAccount) error
	AdjustDebtAccountBalance(ctx context.Context, id string, delta decimal.Decimal) error
	SetDebtAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error

	// Planned item operations
	GetPlannedItems(ctx context.Context, userID string, month time.Time) ([]model.PlannedItem, error)
	CreatePlannedItem(ctx context.Context, item *model.PlannedItem) error
	UpdatePlannedItemAmount(ctx context.Context, id string, amount decimal.Decimal) error
	DeletePlannedItem(ctx context.Context, id string) error

	// Transaction operations
	GetTransactions(ctx context.Context, userID string, start, end time.Time) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	SumCardPayments(ctx context.Context, cardID string) (decimal.Decimal, error)
	SumDebtPayments(ctx context.Context, debtAccountID string) (decimal.Decimal, error)

	// Budget month operations
	GetBudgetMonth(ctx context.Context, userID string, month time.Time) (*model.BudgetMonth, error)
	UpsertBudgetMonth(ctx context.Context, bm *model.BudgetMonth) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

// Tx represents a database transaction. It exposes the full Storage
// surface so multi-step reconciliation sequences run atomically.
type Tx interface {
	Commit() error
	Rollback() error
	Storage
}
