package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mthorne/budgetflow/internal/common"
	"github.com/mthorne/budgetflow/internal/model"
)

func plannedFor(t *testing.T, e *Engine, user string, key model.BucketKey) []model.PlannedItem {
	t.Helper()
	items, err := e.store.GetPlannedItems(context.Background(), user, testMonth())
	require.NoError(t, err)

	cats, err := e.store.GetCategories(context.Background(), user)
	require.NoError(t, err)
	idx := make(map[int64]model.Category, len(cats))
	for _, cat := range cats {
		idx[cat.ID] = cat
	}

	var matches []model.PlannedItem
	for i := range items {
		if plannedBucket(idx, &items[i]) == key {
			matches = append(matches, items[i])
		}
	}
	return matches
}

func TestUpdatePlannedTotalCreatesRow(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	food := mustCategory(t, e, user, model.GroupExpense, "Food", nil)
	key := model.CategoryBucket(food.ID)

	require.NoError(t, e.UpdatePlannedTotal(ctx, user, testMonth(), key, dec("120"), false))

	items := plannedFor(t, e, user, key)
	require.Len(t, items, 1)
	requireDecimal(t, "120", items[0].Amount)
	assert.Equal(t, model.PlannedExpense, items[0].Type)
	assert.Equal(t, food.ID, items[0].CategoryID)
}

func TestUpdatePlannedTotalUpdatesSingleRowInPlace(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	food := mustCategory(t, e, user, model.GroupExpense, "Food", nil)
	key := model.CategoryBucket(food.ID)

	require.NoError(t, e.UpdatePlannedTotal(ctx, user, testMonth(), key, dec("120"), false))
	before := plannedFor(t, e, user, key)
	require.Len(t, before, 1)

	require.NoError(t, e.UpdatePlannedTotal(ctx, user, testMonth(), key, dec("140"), false))

	after := plannedFor(t, e, user, key)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].ID, after[0].ID, "a single row updates in place")
	requireDecimal(t, "140", after[0].Amount)
}

func TestUpdatePlannedTotalSingleRowEditRefreshesBudgetMonth(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	income := mustCategory(t, e, user, model.GroupIncome, "Paycheck", nil)
	key := model.CategoryBucket(income.ID)

	require.NoError(t, e.UpdatePlannedTotal(ctx, user, testMonth(), key, dec("2000"), false))

	bm, err := e.store.GetBudgetMonth(ctx, user, testMonth())
	require.NoError(t, err)
	require.NotNil(t, bm)
	requireDecimal(t, "2000", bm.AvailableEnd)

	// Editing the one existing row must recompute the month too.
	require.NoError(t, e.UpdatePlannedTotal(ctx, user, testMonth(), key, dec("1500"), false))

	bm, err = e.store.GetBudgetMonth(ctx, user, testMonth())
	require.NoError(t, err)
	require.NotNil(t, bm)
	requireDecimal(t, "1500", bm.AvailableEnd)
}

func TestUpdatePlannedTotalAmbiguityGate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	food := mustCategory(t, e, user, model.GroupExpense, "Food", nil)
	key := model.CategoryBucket(food.ID)

	// Two rows already target the bucket, e.g. from an import.
	for _, amount := range []string{"50", "75"} {
		require.NoError(t, e.store.CreatePlannedItem(ctx, &model.PlannedItem{
			ID:         uuid.NewString(),
			UserID:     user,
			Month:      model.MonthOf(testMonth()),
			CategoryID: food.ID,
			Type:       model.PlannedExpense,
			Name:       "Imported",
			Amount:     dec(amount),
		}))
	}

	// Without confirmation nothing changes.
	err := e.UpdatePlannedTotal(ctx, user, testMonth(), key, dec("200"), false)
	require.ErrorIs(t, err, common.ErrAmbiguousState)

	items := plannedFor(t, e, user, key)
	require.Len(t, items, 2)
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	requireDecimal(t, "125", total)

	// Confirmed, the rows collapse into one.
	require.NoError(t, e.UpdatePlannedTotal(ctx, user, testMonth(), key, dec("200"), true))

	items = plannedFor(t, e, user, key)
	require.Len(t, items, 1)
	assert.Equal(t, collapsedItemName, items[0].Name)
	requireDecimal(t, "200", items[0].Amount)
}

func TestUpdatePlannedTotalRejectsNegative(t *testing.T) {
	e := newTestEngine(t)

	err := e.UpdatePlannedTotal(context.Background(), "user-1", testMonth(), model.CategoryBucket(1), dec("-10"), false)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdatePlannedTotalUnknownCategory(t *testing.T) {
	e := newTestEngine(t)

	err := e.UpdatePlannedTotal(context.Background(), "user-1", testMonth(), model.CategoryBucket(42), dec("10"), false)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdatePlannedTotalRejectsCardFlaggedCategoryKey(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	payCat := mustCategory(t, e, user, model.GroupDebt, "Credit Card Payments", nil)
	require.True(t, payCat.IsCreditCardBucket)

	err := e.UpdatePlannedTotal(ctx, user, testMonth(), model.CategoryBucket(payCat.ID), dec("100"), false)
	assert.ErrorIs(t, err, common.ErrValidation)

	items, err := e.store.GetPlannedItems(ctx, user, testMonth())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdatePlannedTotalCardBucketCreatesBackingCategory(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	card := mustCard(t, e, user, "Visa", "500")
	key := model.CardBucket(card.ID)

	require.NoError(t, e.UpdatePlannedTotal(ctx, user, testMonth(), key, dec("150"), false))

	items := plannedFor(t, e, user, key)
	require.Len(t, items, 1)
	assert.Equal(t, model.PlannedDebt, items[0].Type)
	require.NotNil(t, items[0].CreditCardID)
	assert.Equal(t, card.ID, *items[0].CreditCardID)

	// The row is backed by an auto-created card payment category.
	backing, err := e.store.GetCategoryByID(ctx, items[0].CategoryID)
	require.NoError(t, err)
	require.NotNil(t, backing)
	assert.Equal(t, model.GroupDebt, backing.Group)
	assert.True(t, backing.IsCreditCardBucket)
}

func TestUpdatePlannedTotalDebtBucketLinksAccount(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	loan := mustDebt(t, e, user, "Car Loan", model.DebtLoan, "9000", nil)
	key := model.DebtBucket(loan.ID)

	require.NoError(t, e.UpdatePlannedTotal(ctx, user, testMonth(), key, dec("250"), false))

	items := plannedFor(t, e, user, key)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].DebtAccountID)
	assert.Equal(t, loan.ID, *items[0].DebtAccountID)

	backing, err := e.store.GetCategoryByID(ctx, items[0].CategoryID)
	require.NoError(t, err)
	require.NotNil(t, backing)
	assert.False(t, backing.IsCreditCardBucket)
}

func TestUpdatePlannedTotalRefreshesBudgetMonth(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	income := mustCategory(t, e, user, model.GroupIncome, "Paycheck", nil)
	require.NoError(t, e.UpdatePlannedTotal(ctx, user, testMonth(), model.CategoryBucket(income.ID), dec("2000"), false))

	bm, err := e.store.GetBudgetMonth(ctx, user, testMonth())
	require.NoError(t, err)
	require.NotNil(t, bm)
	requireDecimal(t, "2000", bm.AvailableEnd)
}
