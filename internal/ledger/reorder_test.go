package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mthorne/budgetflow/internal/common"
	"github.com/mthorne/budgetflow/internal/model"
)

// orderSnapshot maps category name to its current sort order within
// the stored tree, for readable assertions.
func orderSnapshot(t *testing.T, e *Engine, user string) map[string]model.Category {
	t.Helper()
	cats, err := e.store.GetCategories(context.Background(), user)
	require.NoError(t, err)
	snap := make(map[string]model.Category, len(cats))
	for _, cat := range cats {
		snap[cat.Name] = cat
	}
	return snap
}

func TestReorderCategoryDragDown(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	a := mustCategory(t, e, user, model.GroupExpense, "A", nil)
	mustCategory(t, e, user, model.GroupExpense, "B", nil)
	c := mustCategory(t, e, user, model.GroupExpense, "C", nil)
	mustCategory(t, e, user, model.GroupExpense, "D", nil)

	// Dragging A down onto C lands after C.
	require.NoError(t, e.ReorderCategory(ctx, user, a.ID, c.ID))

	snap := orderSnapshot(t, e, user)
	assert.Equal(t, 1, snap["B"].SortOrder)
	assert.Equal(t, 2, snap["C"].SortOrder)
	assert.Equal(t, 3, snap["A"].SortOrder)
	assert.Equal(t, 4, snap["D"].SortOrder)
}

func TestReorderCategoryDragUp(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	a := mustCategory(t, e, user, model.GroupExpense, "A", nil)
	mustCategory(t, e, user, model.GroupExpense, "B", nil)
	mustCategory(t, e, user, model.GroupExpense, "C", nil)
	d := mustCategory(t, e, user, model.GroupExpense, "D", nil)

	// Dragging D up onto A lands before A.
	require.NoError(t, e.ReorderCategory(ctx, user, d.ID, a.ID))

	snap := orderSnapshot(t, e, user)
	assert.Equal(t, 1, snap["D"].SortOrder)
	assert.Equal(t, 2, snap["A"].SortOrder)
	assert.Equal(t, 3, snap["B"].SortOrder)
	assert.Equal(t, 4, snap["C"].SortOrder)
}

func TestReorderCategoryNoOps(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	a := mustCategory(t, e, user, model.GroupExpense, "A", nil)
	mustCategory(t, e, user, model.GroupExpense, "B", nil)
	income := mustCategory(t, e, user, model.GroupIncome, "Paycheck", nil)

	// Onto itself.
	require.NoError(t, e.ReorderCategory(ctx, user, a.ID, a.ID))
	// Across groups.
	require.NoError(t, e.ReorderCategory(ctx, user, a.ID, income.ID))

	snap := orderSnapshot(t, e, user)
	assert.Equal(t, 1, snap["A"].SortOrder)
	assert.Equal(t, 2, snap["B"].SortOrder)
	assert.Equal(t, 1, snap["Paycheck"].SortOrder)
	assert.Nil(t, snap["A"].ParentID)
}

func TestReorderCategoryUnknownIDs(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	a := mustCategory(t, e, user, model.GroupExpense, "A", nil)

	err := e.ReorderCategory(ctx, user, 999, a.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	err = e.ReorderCategory(ctx, user, a.ID, 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestReorderCategoryDragIntoGroup(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	parent := mustCategory(t, e, user, model.GroupExpense, "Fun", nil)
	games := mustCategory(t, e, user, model.GroupExpense, "Games", &parent.ID)
	mustCategory(t, e, user, model.GroupExpense, "Books", &parent.ID)
	loose := mustCategory(t, e, user, model.GroupExpense, "Loose", nil)

	// A childless top-level category dragged onto a nested one adopts
	// the target's parent and lands before it.
	require.NoError(t, e.ReorderCategory(ctx, user, loose.ID, games.ID))

	snap := orderSnapshot(t, e, user)
	require.NotNil(t, snap["Loose"].ParentID)
	assert.Equal(t, parent.ID, *snap["Loose"].ParentID)
	assert.Equal(t, 1, snap["Loose"].SortOrder)
	assert.Equal(t, 2, snap["Games"].SortOrder)
	assert.Equal(t, 3, snap["Books"].SortOrder)
}

func TestReorderCategoryParentNeverNests(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	parentA := mustCategory(t, e, user, model.GroupExpense, "Fun", nil)
	mustCategory(t, e, user, model.GroupExpense, "Games", &parentA.ID)
	parentB := mustCategory(t, e, user, model.GroupExpense, "Home", nil)
	chores := mustCategory(t, e, user, model.GroupExpense, "Chores", &parentB.ID)

	// A category with children cannot be dragged under another parent.
	require.NoError(t, e.ReorderCategory(ctx, user, parentA.ID, chores.ID))

	snap := orderSnapshot(t, e, user)
	assert.Nil(t, snap["Fun"].ParentID)
	assert.Equal(t, 1, snap["Fun"].SortOrder)
}

func TestReorderCategoryKeepsOrdersContiguous(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	user := "user-1"

	// Seed gapped, duplicated sort orders the way legacy data might
	// look. The first reorder must normalize the whole list.
	names := []string{"A", "B", "C", "D"}
	orders := []int{3, 3, 7, 12}
	ids := make(map[string]int64)
	for i, name := range names {
		cat := &model.Category{UserID: user, Group: model.GroupExpense, Name: name, SortOrder: orders[i]}
		require.NoError(t, e.store.CreateCategory(ctx, cat))
		ids[name] = cat.ID
	}

	require.NoError(t, e.ReorderCategory(ctx, user, ids["D"], ids["C"]))

	snap := orderSnapshot(t, e, user)
	seen := make(map[int]string)
	for _, name := range names {
		order := snap[name].SortOrder
		assert.GreaterOrEqual(t, order, 1)
		assert.LessOrEqual(t, order, len(names))
		assert.Empty(t, seen[order], "orders must be unique")
		seen[order] = name
	}
	assert.Equal(t, 3, snap["D"].SortOrder, "D lands before C")
	assert.Equal(t, 4, snap["C"].SortOrder)
}
