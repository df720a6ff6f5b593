package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mthorne/budgetflow/internal/common"
	"github.com/mthorne/budgetflow/internal/model"
	"github.com/mthorne/budgetflow/internal/service"
)

// collapsedItemName names the single row left behind when several
// planned rows in one bucket are collapsed into one total.
const collapsedItemName = "Planned total"

// UpdatePlannedTotal sets the planned amount for a bucket in a month.
//
// With zero or one existing rows in the bucket this is a plain upsert.
// With more than one row the update is destructive (the rows collapse
// into a single "Planned total" row), so it only proceeds when the
// caller passes confirmed=true; otherwise it fails with
// common.ErrAmbiguousState and writes nothing.
//
// Card and debt buckets have no category of their own, but every
// planned row must reference one, so the first matching debt-group
// category backs the row and is created on the fly when missing.
func (e *Engine) UpdatePlannedTotal(ctx context.Context, userID string, month time.Time, key model.BucketKey, amount decimal.Decimal, confirmed bool) error {
	if amount.IsNegative() {
		return common.Validationf("planned amount cannot be negative")
	}
	month = model.MonthOf(month)

	return e.withTx(ctx, func(tx service.Tx) error {
		data, err := loadMonth(ctx, tx, userID, month)
		if err != nil {
			return err
		}
		cats := data.CategoryIndex()

		var matches []model.PlannedItem
		for i := range data.Planned {
			if plannedBucket(cats, &data.Planned[i]) == key {
				matches = append(matches, data.Planned[i])
			}
		}

		if len(matches) > 1 && !confirmed {
			return fmt.Errorf("%w: %d planned rows exist for this bucket; confirm collapsing them into one",
				common.ErrAmbiguousState, len(matches))
		}

		if len(matches) == 1 {
			if err := tx.UpdatePlannedItemAmount(ctx, matches[0].ID, amount); err != nil {
				return err
			}
			_, err := refreshBudgetMonth(ctx, tx, userID, month)
			return err
		}

		item, err := e.buildPlannedItem(ctx, tx, data, userID, month, key, amount)
		if err != nil {
			return err
		}

		for _, m := range matches {
			if err := tx.DeletePlannedItem(ctx, m.ID); err != nil {
				return fmt.Errorf("failed to remove collapsed planned row: %w", err)
			}
		}
		if err := tx.CreatePlannedItem(ctx, item); err != nil {
			return err
		}

		// Planned totals feed the rollover, so the month row refreshes
		// in the same transaction.
		_, err = refreshBudgetMonth(ctx, tx, userID, month)
		return err
	})
}

// buildPlannedItem assembles the single row that will represent the
// bucket's planned total, resolving (or creating) the backing
// category for card and debt buckets.
func (e *Engine) buildPlannedItem(ctx context.Context, tx service.Tx, data *MonthData, userID string, month time.Time, key model.BucketKey, amount decimal.Decimal) (*model.PlannedItem, error) {
	item := &model.PlannedItem{
		ID:     uuid.NewString(),
		UserID: userID,
		Month:  month,
		Name:   collapsedItemName,
		Amount: amount,
	}

	switch key.Kind {
	case model.BucketCategory:
		cat, ok := data.CategoryIndex()[key.CategoryID]
		if !ok {
			return nil, common.NotFoundf("category %d does not exist", key.CategoryID)
		}
		if cat.IsCreditCardBucket {
			// A row written here would re-resolve into a card bucket
			// and never surface under the category key it was set on.
			return nil, common.Validationf("category %q budgets per card; set the planned total on a card bucket", cat.Name)
		}
		item.CategoryID = cat.ID
		item.Type = plannedTypeFor(cat.Group)

	case model.BucketCard:
		cat, err := ensureBackingCategory(ctx, tx, data, userID, true)
		if err != nil {
			return nil, err
		}
		item.CategoryID = cat.ID
		item.Type = model.PlannedDebt
		if key.AccountID != "" {
			switch {
			case data.CardByID(key.AccountID) != nil:
				id := key.AccountID
				item.CreditCardID = &id
			case data.DebtByID(key.AccountID) != nil:
				id := key.AccountID
				item.DebtAccountID = &id
			default:
				return nil, common.NotFoundf("card %s does not exist", key.AccountID)
			}
		}

	case model.BucketDebt:
		if data.DebtByID(key.AccountID) == nil {
			return nil, common.NotFoundf("debt account %s does not exist", key.AccountID)
		}
		cat, err := ensureBackingCategory(ctx, tx, data, userID, false)
		if err != nil {
			return nil, err
		}
		item.CategoryID = cat.ID
		item.Type = model.PlannedDebt
		id := key.AccountID
		item.DebtAccountID = &id

	default:
		return nil, common.Validationf("unknown bucket kind %q", key.Kind)
	}

	return item, nil
}

// ensureBackingCategory picks the first debt-group category of the
// wanted flavor (card payment or plain debt), creating one when the
// user has none.
func ensureBackingCategory(ctx context.Context, tx service.Tx, data *MonthData, userID string, card bool) (*model.Category, error) {
	var best *model.Category
	for i := range data.Categories {
		cat := &data.Categories[i]
		if cat.Group != model.GroupDebt || cat.Archived || cat.IsCreditCardBucket != card {
			continue
		}
		if best == nil || cat.SortOrder < best.SortOrder {
			best = cat
		}
	}
	if best != nil {
		return best, nil
	}

	name := "Debt Payment"
	if card {
		name = "Credit Card"
	}
	cat := &model.Category{
		UserID:             userID,
		Group:              model.GroupDebt,
		Name:               name,
		SortOrder:          nextSortOrder(data.Categories, model.GroupDebt, nil),
		IsCreditCardBucket: card,
	}
	if err := tx.CreateCategory(ctx, cat); err != nil {
		return nil, fmt.Errorf("failed to create backing category: %w", err)
	}
	return cat, nil
}
