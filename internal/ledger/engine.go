// Package ledger implements the reconciliation engine: bucket
// classification, planned-vs-actual aggregation, balance
// reconciliation for credit cards and debt accounts, month rollover,
// and category tree maintenance.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/mthorne/budgetflow/internal/common"
	"github.com/mthorne/budgetflow/internal/model"
	"github.com/mthorne/budgetflow/internal/service"
)

// Engine orchestrates all budget operations over the persistence
// collaborator. Every operation takes an explicit userID and month;
// nothing reads ambient session state.
type Engine struct {
	store service.Storage
}

// New creates a new engine with the given storage.
func New(store service.Storage) *Engine {
	return &Engine{store: store}
}

// MonthData bundles everything loaded for one user and month.
type MonthData struct {
	BudgetMonth  *model.BudgetMonth
	Categories   []model.Category
	Cards        []model.CreditCard
	Debts        []model.DebtAccount
	Planned      []model.PlannedItem
	Transactions []model.Transaction
}

// CategoryIndex returns the categories keyed by ID.
func (d *MonthData) CategoryIndex() map[int64]model.Category {
	idx := make(map[int64]model.Category, len(d.Categories))
	for _, cat := range d.Categories {
		idx[cat.ID] = cat
	}
	return idx
}

// CardByID returns the card with the given ID, or nil.
func (d *MonthData) CardByID(id string) *model.CreditCard {
	for i := range d.Cards {
		if d.Cards[i].ID == id {
			return &d.Cards[i]
		}
	}
	return nil
}

// DebtByID returns the debt account with the given ID, or nil.
func (d *MonthData) DebtByID(id string) *model.DebtAccount {
	for i := range d.Debts {
		if d.Debts[i].ID == id {
			return &d.Debts[i]
		}
	}
	return nil
}

// LoadMonth loads every record the presentation layer needs for one
// month: categories, accounts, planned items, the month's
// transactions, and the budget month row (nil if never computed).
func (e *Engine) LoadMonth(ctx context.Context, userID string, month time.Time) (*MonthData, error) {
	return loadMonth(ctx, e.store, userID, month)
}

func loadMonth(ctx context.Context, store service.Storage, userID string, month time.Time) (*MonthData, error) {
	categories, err := store.GetCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	cards, err := store.GetCreditCards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credit cards: %w", err)
	}

	debts, err := store.GetDebtAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load debt accounts: %w", err)
	}

	planned, err := store.GetPlannedItems(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load planned items: %w", err)
	}

	start, end := model.MonthRange(month)
	txns, err := store.GetTransactions(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	bm, err := store.GetBudgetMonth(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget month: %w", err)
	}

	return &MonthData{
		Categories:   categories,
		Cards:        cards,
		Debts:        debts,
		Planned:      planned,
		Transactions: txns,
		BudgetMonth:  bm,
	}, nil
}

// withTx runs fn inside a single database transaction so a multi-step
// reconciliation either fully applies or leaves nothing behind.
func (e *Engine) withTx(ctx context.Context, fn func(tx service.Tx) error) error {
	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			// The sequence partially applied and could not be undone;
			// balances may now disagree with history.
			return fmt.Errorf("%w: rollback failed after %v: %v", common.ErrIntegrity, err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
