package ledger

import (
	"context"
	"sort"

	"github.com/mthorne/budgetflow/internal/common"
	"github.com/mthorne/budgetflow/internal/model"
	"github.com/mthorne/budgetflow/internal/service"
)

// ReorderCategory moves the dragged category next to the target and
// rewrites the whole sibling list with contiguous sort orders 1..N in
// one batch, so a partial write can never leave duplicate or gapped
// positions behind.
//
// Dragging onto itself or across groups is a no-op. Dragging a
// childless top-level category onto a nested one adopts the target's
// parent (drag-into-group); a category that has children of its own
// stays top-level and such a drag is also a no-op.
func (e *Engine) ReorderCategory(ctx context.Context, userID string, draggedID, targetID int64) error {
	if draggedID == targetID {
		return nil
	}

	cats, err := e.store.GetCategories(ctx, userID)
	if err != nil {
		return err
	}

	dragged := findCategory(cats, draggedID)
	if dragged == nil {
		return common.NotFoundf("category %d does not exist", draggedID)
	}
	target := findCategory(cats, targetID)
	if target == nil {
		return common.NotFoundf("category %d does not exist", targetID)
	}
	if dragged.Group != target.Group {
		return nil
	}

	hasChildren := false
	for i := range cats {
		if cats[i].ParentID != nil && *cats[i].ParentID == draggedID {
			hasChildren = true
			break
		}
	}

	// The resolved parent decides which sibling list the dragged
	// category joins. A parent category can never nest under another.
	newParentID := target.ParentID
	if newParentID != nil && hasChildren {
		return nil
	}

	siblings := make([]*model.Category, 0, len(cats))
	for i := range cats {
		cat := &cats[i]
		if cat.ID == draggedID || cat.Group != target.Group || !sameParent(cat.ParentID, newParentID) {
			continue
		}
		siblings = append(siblings, cat)
	}
	sort.SliceStable(siblings, func(i, j int) bool {
		if siblings[i].SortOrder != siblings[j].SortOrder {
			return siblings[i].SortOrder < siblings[j].SortOrder
		}
		return siblings[i].ID < siblings[j].ID
	})

	targetIdx := 0
	for i, cat := range siblings {
		if cat.ID == targetID {
			targetIdx = i
			break
		}
	}

	// Dragging down within the same list lands after the target;
	// dragging up, or arriving from another list, lands before it.
	insertAt := targetIdx
	if sameParent(dragged.ParentID, newParentID) && dragged.SortOrder < target.SortOrder {
		insertAt = targetIdx + 1
	}

	ordered := make([]*model.Category, 0, len(siblings)+1)
	ordered = append(ordered, siblings[:insertAt]...)
	ordered = append(ordered, dragged)
	ordered = append(ordered, siblings[insertAt:]...)

	orders := make([]service.CategoryOrder, len(ordered))
	for i, cat := range ordered {
		parentID := cat.ParentID
		if cat.ID == draggedID {
			parentID = newParentID
		}
		orders[i] = service.CategoryOrder{ID: cat.ID, ParentID: parentID, SortOrder: i + 1}
	}

	return e.withTx(ctx, func(tx service.Tx) error {
		return tx.UpdateCategorySortOrders(ctx, orders)
	})
}
