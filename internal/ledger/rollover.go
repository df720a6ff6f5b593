package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mthorne/budgetflow/internal/model"
	"github.com/mthorne/budgetflow/internal/service"
)

// RefreshBudgetMonth recomputes and persists the month's available-to-
// budget figures. The starting figure carries forward from the
// previous month's ending figure unless the user pinned it, and the
// ending figure is always start + planned income - planned outflow.
// The upsert is keyed by user and month, so refreshing is idempotent.
func (e *Engine) RefreshBudgetMonth(ctx context.Context, userID string, month time.Time) (*model.BudgetMonth, error) {
	var bm *model.BudgetMonth
	err := e.withTx(ctx, func(tx service.Tx) error {
		var err error
		bm, err = refreshBudgetMonth(ctx, tx, userID, month)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bm, nil
}

// SetAvailableStart pins the month's starting figure to an explicit
// value. Later refreshes keep the pinned value instead of deriving it
// from the previous month.
func (e *Engine) SetAvailableStart(ctx context.Context, userID string, month time.Time, amount decimal.Decimal) (*model.BudgetMonth, error) {
	var bm *model.BudgetMonth
	err := e.withTx(ctx, func(tx service.Tx) error {
		data, err := loadMonth(ctx, tx, userID, month)
		if err != nil {
			return err
		}
		income, outflow := plannedFlows(data)

		bm = &model.BudgetMonth{
			UserID:          userID,
			Month:           model.MonthOf(month),
			AvailableStart:  amount,
			AvailableEnd:    amount.Add(income).Sub(outflow),
			StartOverridden: true,
		}
		return tx.UpsertBudgetMonth(ctx, bm)
	})
	if err != nil {
		return nil, err
	}
	return bm, nil
}

// refreshBudgetMonth is the shared recompute used both standalone and
// inside planned-total mutations, which run it in their own
// transaction.
func refreshBudgetMonth(ctx context.Context, store service.Storage, userID string, month time.Time) (*model.BudgetMonth, error) {
	month = model.MonthOf(month)

	data, err := loadMonth(ctx, store, userID, month)
	if err != nil {
		return nil, err
	}
	income, outflow := plannedFlows(data)

	start := decimal.Zero
	overridden := false
	if data.BudgetMonth != nil && data.BudgetMonth.StartOverridden {
		start = data.BudgetMonth.AvailableStart
		overridden = true
	} else {
		prev, err := store.GetBudgetMonth(ctx, userID, model.PrevMonth(month))
		if err != nil {
			return nil, fmt.Errorf("failed to load previous budget month: %w", err)
		}
		if prev != nil {
			start = prev.AvailableEnd
		}
	}

	bm := &model.BudgetMonth{
		UserID:          userID,
		Month:           month,
		AvailableStart:  start,
		AvailableEnd:    start.Add(income).Sub(outflow),
		StartOverridden: overridden,
	}
	if err := store.UpsertBudgetMonth(ctx, bm); err != nil {
		return nil, err
	}
	return bm, nil
}
