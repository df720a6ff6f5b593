package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/mthorne/budgetflow/internal/model"
	"github.com/mthorne/budgetflow/internal/service"
)

func TestSQLiteStorage_CreateCategory(t *testing.T) {
	tests := []struct {
		category *model.Category
		name     string
		wantErr  bool
	}{
		{
			name: "valid category",
			category: &model.Category{
				UserID: "user-1", Group: model.GroupExpense, Name: "Food", SortOrder: 1,
			},
		},
		{
			name: "credit card bucket flag persists",
			category: &model.Category{
				UserID: "user-1", Group: model.GroupDebt, Name: "Credit Card",
				SortOrder: 1, IsCreditCardBucket: true,
			},
		},
		{
			name:     "nil category",
			category: nil,
			wantErr:  true,
		},
		{
			name: "missing name",
			category: &model.Category{
				UserID: "user-1", Group: model.GroupExpense, Name: "  ",
			},
			wantErr: true,
		},
		{
			name: "missing user",
			category: &model.Category{
				Group: model.GroupExpense, Name: "Food",
			},
			wantErr: true,
		},
		{
			name: "unknown group",
			category: &model.Category{
				UserID: "user-1", Group: "bogus", Name: "Food",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := createTestStorage(t)
			defer cleanup()
			ctx := context.Background()

			err := store.CreateCategory(ctx, tt.category)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateCategory() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}

			if tt.category.ID == 0 {
				t.Error("Expected ID to be assigned")
			}
			got, err := store.GetCategoryByID(ctx, tt.category.ID)
			if err != nil {
				t.Fatalf("Failed to get category: %v", err)
			}
			if got == nil {
				t.Fatal("Expected category to exist")
			}
			if got.Name != tt.category.Name {
				t.Errorf("Expected name %q, got %q", tt.category.Name, got.Name)
			}
			if got.IsCreditCardBucket != tt.category.IsCreditCardBucket {
				t.Errorf("Expected is_credit_card %v, got %v",
					tt.category.IsCreditCardBucket, got.IsCreditCardBucket)
			}
		})
	}
}

func TestSQLiteStorage_GetCategoriesOrdering(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	parent := &model.Category{UserID: "user-1", Group: model.GroupExpense, Name: "Fun", SortOrder: 2}
	if err := store.CreateCategory(ctx, parent); err != nil {
		t.Fatalf("Failed to create parent: %v", err)
	}

	rows := []*model.Category{
		{UserID: "user-1", Group: model.GroupExpense, Name: "Food", SortOrder: 1},
		{UserID: "user-1", Group: model.GroupExpense, Name: "Games", ParentID: &parent.ID, SortOrder: 1},
		{UserID: "user-1", Group: model.GroupIncome, Name: "Paycheck", SortOrder: 1},
		{UserID: "user-2", Group: model.GroupExpense, Name: "Other User", SortOrder: 1},
	}
	for _, cat := range rows {
		if err := store.CreateCategory(ctx, cat); err != nil {
			t.Fatalf("Failed to create %s: %v", cat.Name, err)
		}
	}

	cats, err := store.GetCategories(ctx, "user-1")
	if err != nil {
		t.Fatalf("Failed to get categories: %v", err)
	}
	if len(cats) != 4 {
		t.Fatalf("Expected 4 categories for user-1, got %d", len(cats))
	}

	// Top-level rows sort before nested ones within a group.
	var names []string
	for _, cat := range cats {
		names = append(names, cat.Name)
	}
	want := []string{"Food", "Fun", "Games", "Paycheck"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, names)
		}
	}
}

func TestSQLiteStorage_GetCategoryByID_NotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	got, err := store.GetCategoryByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != nil {
		t.Error("Expected nil for missing category")
	}
}

func TestSQLiteStorage_UpdateCategory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cat := &model.Category{UserID: "user-1", Group: model.GroupDebt, Name: "Loan Payment", SortOrder: 1}
	if err := store.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	cat.Name = "Credit Card Payment"
	cat.IsCreditCardBucket = true
	cat.Archived = true
	if err := store.UpdateCategory(ctx, cat); err != nil {
		t.Fatalf("Failed to update category: %v", err)
	}

	got, err := store.GetCategoryByID(ctx, cat.ID)
	if err != nil {
		t.Fatalf("Failed to get category: %v", err)
	}
	if got.Name != "Credit Card Payment" || !got.IsCreditCardBucket || !got.Archived {
		t.Errorf("Update did not persist: %+v", got)
	}

	missing := &model.Category{ID: 999, UserID: "user-1", Group: model.GroupExpense, Name: "Ghost"}
	if err := store.UpdateCategory(ctx, missing); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows for missing category, got %v", err)
	}
}

func TestSQLiteStorage_DeleteCategory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cat := &model.Category{UserID: "user-1", Group: model.GroupExpense, Name: "Food", SortOrder: 1}
	if err := store.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	if err := store.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("Failed to delete category: %v", err)
	}

	got, err := store.GetCategoryByID(ctx, cat.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != nil {
		t.Error("Expected category to be gone")
	}

	if err := store.DeleteCategory(ctx, cat.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows deleting twice, got %v", err)
	}
}

func TestSQLiteStorage_UpdateCategorySortOrders(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	parent := &model.Category{UserID: "user-1", Group: model.GroupExpense, Name: "Fun", SortOrder: 1}
	a := &model.Category{UserID: "user-1", Group: model.GroupExpense, Name: "A", SortOrder: 2}
	b := &model.Category{UserID: "user-1", Group: model.GroupExpense, Name: "B", SortOrder: 3}
	for _, cat := range []*model.Category{parent, a, b} {
		if err := store.CreateCategory(ctx, cat); err != nil {
			t.Fatalf("Failed to create %s: %v", cat.Name, err)
		}
	}

	// Reverse A and B, and move A under the parent in the same batch.
	orders := []service.CategoryOrder{
		{ID: b.ID, SortOrder: 1},
		{ID: a.ID, ParentID: &parent.ID, SortOrder: 1},
	}
	if err := store.UpdateCategorySortOrders(ctx, orders); err != nil {
		t.Fatalf("Failed to update sort orders: %v", err)
	}

	gotA, err := store.GetCategoryByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("Failed to get A: %v", err)
	}
	if gotA.ParentID == nil || *gotA.ParentID != parent.ID {
		t.Errorf("Expected A reparented under %d, got %v", parent.ID, gotA.ParentID)
	}
	if gotA.SortOrder != 1 {
		t.Errorf("Expected A sort order 1, got %d", gotA.SortOrder)
	}

	gotB, err := store.GetCategoryByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("Failed to get B: %v", err)
	}
	if gotB.SortOrder != 1 || gotB.ParentID != nil {
		t.Errorf("Expected B at top level order 1, got order %d parent %v", gotB.SortOrder, gotB.ParentID)
	}
}
