package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mthorne/budgetflow/internal/model"
)

func TestSQLiteStorage_PlannedItemRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cardID := "card-1"
	item := &model.PlannedItem{
		ID: "plan-1", UserID: "user-1", Month: testDate(1),
		Type: model.PlannedDebt, CategoryID: 3, CreditCardID: &cardID,
		Name: "Visa payment", Amount: mustDecimal(t, "150.50"),
	}
	if err := store.CreatePlannedItem(ctx, item); err != nil {
		t.Fatalf("Failed to create planned item: %v", err)
	}

	items, err := store.GetPlannedItems(ctx, "user-1", testDate(1))
	if err != nil {
		t.Fatalf("Failed to get planned items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 planned item, got %d", len(items))
	}
	got := items[0]
	if !got.Amount.Equal(item.Amount) {
		t.Errorf("Expected amount %s, got %s", item.Amount, got.Amount)
	}
	if got.Type != model.PlannedDebt {
		t.Errorf("Expected type %s, got %s", model.PlannedDebt, got.Type)
	}
	if got.CreditCardID == nil || *got.CreditCardID != cardID {
		t.Errorf("Expected card %s, got %v", cardID, got.CreditCardID)
	}
}

func TestSQLiteStorage_CreatePlannedItemValidation(t *testing.T) {
	tests := []struct {
		item *model.PlannedItem
		name string
	}{
		{name: "nil item", item: nil},
		{
			name: "missing ID",
			item: &model.PlannedItem{UserID: "user-1", Month: testDate(1), CategoryID: 1},
		},
		{
			name: "missing user",
			item: &model.PlannedItem{ID: "p1", Month: testDate(1), CategoryID: 1},
		},
		{
			name: "missing month",
			item: &model.PlannedItem{ID: "p1", UserID: "user-1", CategoryID: 1},
		},
		{
			name: "missing category",
			item: &model.PlannedItem{ID: "p1", UserID: "user-1", Month: testDate(1)},
		},
		{
			name: "negative amount",
			item: &model.PlannedItem{
				ID: "p1", UserID: "user-1", Month: testDate(1), CategoryID: 1,
				Amount: decimal.RequireFromString("-5"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := createTestStorage(t)
			defer cleanup()

			if err := store.CreatePlannedItem(context.Background(), tt.item); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestSQLiteStorage_GetPlannedItemsScopedToMonth(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	months := []int{1, 15, 32} // 32 normalizes into April
	for i, day := range months {
		item := &model.PlannedItem{
			ID: "plan-" + string(rune('a'+i)), UserID: "user-1", Month: testDate(day),
			Type: model.PlannedExpense, CategoryID: 1, Name: "Item", Amount: mustDecimal(t, "10"),
		}
		if err := store.CreatePlannedItem(ctx, item); err != nil {
			t.Fatalf("Failed to create planned item: %v", err)
		}
	}

	items, err := store.GetPlannedItems(ctx, "user-1", testDate(20))
	if err != nil {
		t.Fatalf("Failed to get planned items: %v", err)
	}
	// Mid-month days normalize onto the month itself.
	if len(items) != 2 {
		t.Errorf("Expected 2 planned items in March, got %d", len(items))
	}
}

func TestSQLiteStorage_UpdatePlannedItemAmount(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	item := &model.PlannedItem{
		ID: "plan-1", UserID: "user-1", Month: testDate(1),
		Type: model.PlannedExpense, CategoryID: 1, Name: "Food", Amount: mustDecimal(t, "100"),
	}
	if err := store.CreatePlannedItem(ctx, item); err != nil {
		t.Fatalf("Failed to create planned item: %v", err)
	}

	if err := store.UpdatePlannedItemAmount(ctx, item.ID, mustDecimal(t, "140")); err != nil {
		t.Fatalf("Failed to update amount: %v", err)
	}
	items, err := store.GetPlannedItems(ctx, "user-1", testDate(1))
	if err != nil {
		t.Fatalf("Failed to get planned items: %v", err)
	}
	if len(items) != 1 || !items[0].Amount.Equal(mustDecimal(t, "140")) {
		t.Errorf("Update did not persist: %+v", items)
	}

	if err := store.UpdatePlannedItemAmount(ctx, "missing", mustDecimal(t, "1")); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows for missing item, got %v", err)
	}
}

func TestSQLiteStorage_DeletePlannedItem(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	item := &model.PlannedItem{
		ID: "plan-1", UserID: "user-1", Month: testDate(1),
		Type: model.PlannedExpense, CategoryID: 1, Name: "Food", Amount: mustDecimal(t, "100"),
	}
	if err := store.CreatePlannedItem(ctx, item); err != nil {
		t.Fatalf("Failed to create planned item: %v", err)
	}

	if err := store.DeletePlannedItem(ctx, item.ID); err != nil {
		t.Fatalf("Failed to delete planned item: %v", err)
	}
	items, err := store.GetPlannedItems(ctx, "user-1", testDate(1))
	if err != nil {
		t.Fatalf("Failed to get planned items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected no planned items, got %d", len(items))
	}

	if err := store.DeletePlannedItem(ctx, item.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows deleting twice, got %v", err)
	}
}
