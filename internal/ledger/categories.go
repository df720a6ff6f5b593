package ledger

import (
	"context"
	"strings"

	"github.com/mthorne/budgetflow/internal/common"
	"github.com/mthorne/budgetflow/internal/model"
)

// CreateCategory adds a category to the tree. The parent, when given,
// must be a top-level category in the same group; siblings may not
// share a name case-insensitively (archived rows excepted). The new
// category lands at the end of its sibling list.
func (e *Engine) CreateCategory(ctx context.Context, userID string, group model.CategoryGroup, name string, parentID *int64) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.Validationf("category name cannot be blank")
	}
	if !model.ValidGroup(group) {
		return nil, common.Validationf("unknown category group %q", group)
	}

	cats, err := e.store.GetCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	var parent *model.Category
	if parentID != nil {
		parent = findCategory(cats, *parentID)
		if parent == nil {
			return nil, common.NotFoundf("parent category %d does not exist", *parentID)
		}
		if parent.Group != group {
			return nil, common.Validationf("parent must be in the same group")
		}
		if parent.ParentID != nil {
			return nil, common.Validationf("categories nest at most two levels deep")
		}
	}

	if sibling := findSiblingByName(cats, group, parentID, name, 0); sibling != nil {
		return nil, common.Conflictf("a category named %q already exists here", name)
	}

	cat := &model.Category{
		UserID:             userID,
		Group:              group,
		Name:               name,
		ParentID:           parentID,
		SortOrder:          nextSortOrder(cats, group, parentID),
		IsCreditCardBucket: creditCardFlag(group, name, parent),
	}
	if err := e.store.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// RenameCategory renames a category and re-derives its credit card
// classification from the new name. Children keep the classification
// they were created with; renaming a parent never reclassifies them
// implicitly.
func (e *Engine) RenameCategory(ctx context.Context, userID string, id int64, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.Validationf("category name cannot be blank")
	}

	cats, err := e.store.GetCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	cat := findCategory(cats, id)
	if cat == nil {
		return nil, common.NotFoundf("category %d does not exist", id)
	}

	if sibling := findSiblingByName(cats, cat.Group, cat.ParentID, name, id); sibling != nil {
		return nil, common.Conflictf("a category named %q already exists here", name)
	}

	var parent *model.Category
	if cat.ParentID != nil {
		parent = findCategory(cats, *cat.ParentID)
	}

	cat.Name = name
	cat.IsCreditCardBucket = creditCardFlag(cat.Group, name, parent)
	if err := e.store.UpdateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// ArchiveCategory soft-deletes a category; its history stays intact.
func (e *Engine) ArchiveCategory(ctx context.Context, userID string, id int64) error {
	cat, err := e.ownedCategory(ctx, userID, id)
	if err != nil {
		return err
	}
	if cat.Archived {
		return nil
	}
	cat.Archived = true
	return e.store.UpdateCategory(ctx, cat)
}

// RestoreCategory brings an archived category back, provided no live
// sibling has since taken its name.
func (e *Engine) RestoreCategory(ctx context.Context, userID string, id int64) error {
	cats, err := e.store.GetCategories(ctx, userID)
	if err != nil {
		return err
	}
	cat := findCategory(cats, id)
	if cat == nil {
		return common.NotFoundf("category %d does not exist", id)
	}
	if !cat.Archived {
		return nil
	}

	if sibling := findSiblingByName(cats, cat.Group, cat.ParentID, cat.Name, id); sibling != nil {
		return common.Conflictf("a category named %q already exists here", cat.Name)
	}

	cat.Archived = false
	return e.store.UpdateCategory(ctx, cat)
}

// DeleteCategory hard-deletes a category. Protected defaults and
// categories with live children can only be archived.
func (e *Engine) DeleteCategory(ctx context.Context, userID string, id int64) error {
	cats, err := e.store.GetCategories(ctx, userID)
	if err != nil {
		return err
	}
	cat := findCategory(cats, id)
	if cat == nil {
		return common.NotFoundf("category %d does not exist", id)
	}
	if cat.IsDefault {
		return common.Conflictf("default categories can only be archived, not deleted")
	}
	for i := range cats {
		if cats[i].ParentID != nil && *cats[i].ParentID == id && !cats[i].Archived {
			return common.Conflictf("category %q has subcategories; archive it instead", cat.Name)
		}
	}
	return e.store.DeleteCategory(ctx, id)
}

func (e *Engine) ownedCategory(ctx context.Context, userID string, id int64) (*model.Category, error) {
	cat, err := e.store.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil || cat.UserID != userID {
		return nil, common.NotFoundf("category %d does not exist", id)
	}
	return cat, nil
}

// creditCardFlag runs the classification rule exactly once, at write
// time: a debt-group category is a card payment bucket when its own
// name says "credit card" or its parent was classified that way.
func creditCardFlag(group model.CategoryGroup, name string, parent *model.Category) bool {
	if group != model.GroupDebt {
		return false
	}
	if model.IsCreditCardName(name) {
		return true
	}
	return parent != nil && parent.IsCreditCardBucket
}

func findCategory(cats []model.Category, id int64) *model.Category {
	for i := range cats {
		if cats[i].ID == id {
			return &cats[i]
		}
	}
	return nil
}

// findSiblingByName looks for a live sibling with the same
// case-insensitive name, skipping excludeID.
func findSiblingByName(cats []model.Category, group model.CategoryGroup, parentID *int64, name string, excludeID int64) *model.Category {
	for i := range cats {
		cat := &cats[i]
		if cat.ID == excludeID || cat.Archived || cat.Group != group || !sameParent(cat.ParentID, parentID) {
			continue
		}
		if strings.EqualFold(cat.Name, name) {
			return cat
		}
	}
	return nil
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func nextSortOrder(cats []model.Category, group model.CategoryGroup, parentID *int64) int {
	max := 0
	for i := range cats {
		if cats[i].Group == group && sameParent(cats[i].ParentID, parentID) && cats[i].SortOrder > max {
			max = cats[i].SortOrder
		}
	}
	return max + 1
}
