package ledger

import (
	"context"
	"log/slog"

	"github.com/mthorne/budgetflow/internal/model"
	"github.com/mthorne/budgetflow/internal/service"
)

type seedCategory struct {
	name  string
	group model.CategoryGroup
}

var defaultCategories = []seedCategory{
	{"Paycheck", model.GroupIncome},
	{"Charity", model.GroupGiving},
	{"Emergency Fund", model.GroupSavings},
	{"Housing", model.GroupExpense},
	{"Food", model.GroupExpense},
	{"Transportation", model.GroupExpense},
	{"Utilities", model.GroupExpense},
	{"Credit Card", model.GroupDebt},
	{"Debt Payment", model.GroupDebt},
	{"Miscellaneous", model.GroupMisc},
}

// SeedDefaultCategories loads the standard category set for a user
// with none. Seeded rows are protected defaults: they archive but
// never delete. Users who already have categories are left alone.
func (e *Engine) SeedDefaultCategories(ctx context.Context, userID string) error {
	existing, err := e.store.GetCategories(ctx, userID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	return e.withTx(ctx, func(tx service.Tx) error {
		orders := make(map[model.CategoryGroup]int)
		for _, seed := range defaultCategories {
			orders[seed.group]++
			cat := &model.Category{
				UserID:             userID,
				Group:              seed.group,
				Name:               seed.name,
				SortOrder:          orders[seed.group],
				IsDefault:          true,
				IsCreditCardBucket: creditCardFlag(seed.group, seed.name, nil),
			}
			if err := tx.CreateCategory(ctx, cat); err != nil {
				return err
			}
		}
		slog.Info("seeded default categories", "user", userID, "count", len(defaultCategories))
		return nil
	})
}
