package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mthorne/budgetflow/internal/model"
)

func TestSeedDefaultCategories(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	require.NoError(t, e.SeedDefaultCategories(ctx, user))

	cats, err := e.store.GetCategories(ctx, user)
	require.NoError(t, err)
	require.Len(t, cats, len(defaultCategories))

	byName := make(map[string]model.Category, len(cats))
	for _, cat := range cats {
		assert.True(t, cat.IsDefault)
		byName[cat.Name] = cat
	}

	assert.True(t, byName["Credit Card"].IsCreditCardBucket)
	assert.False(t, byName["Debt Payment"].IsCreditCardBucket)
	assert.Equal(t, model.GroupIncome, byName["Paycheck"].Group)

	// Seeding again changes nothing.
	require.NoError(t, e.SeedDefaultCategories(ctx, user))
	cats, err = e.store.GetCategories(ctx, user)
	require.NoError(t, err)
	assert.Len(t, cats, len(defaultCategories))
}

func TestSeedSkipsUsersWithCategories(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	mustCategory(t, e, user, model.GroupExpense, "Food", nil)
	require.NoError(t, e.SeedDefaultCategories(ctx, user))

	cats, err := e.store.GetCategories(ctx, user)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}

func TestSeedIsPerUser(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.SeedDefaultCategories(ctx, "alice"))

	cats, err := e.store.GetCategories(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, cats)
}
