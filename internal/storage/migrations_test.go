package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMigrate_FreshDatabase(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	var version int
	if err := store.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("Expected schema version %d, got %d", ExpectedSchemaVersion, version)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	// createTestStorage already migrated once.
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Second migrate failed: %v", err)
	}
}

func TestMigrate_BackfillsCreditCardFlag(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewSQLiteStorage(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	// Apply only the v1 schema, then seed legacy rows that predate the
	// is_credit_card column.
	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if err := migrations[0].Up(tx); err != nil {
		t.Fatalf("Failed to apply v1: %v", err)
	}
	if _, err := tx.Exec("PRAGMA user_version = 1"); err != nil {
		t.Fatalf("Failed to set version: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit v1: %v", err)
	}

	seed := `INSERT INTO categories (user_id, grp, name, parent_id, sort_order) VALUES (?, ?, ?, ?, ?)`
	if _, err := store.db.Exec(seed, "user-1", "debt", "Credit Card Payments", nil, 1); err != nil {
		t.Fatalf("Failed to seed parent: %v", err)
	}
	var parentID int64
	if err := store.db.QueryRow(`SELECT id FROM categories WHERE name = 'Credit Card Payments'`).Scan(&parentID); err != nil {
		t.Fatalf("Failed to read parent ID: %v", err)
	}
	rows := []struct {
		parent *int64
		grp    string
		name   string
	}{
		{grp: "debt", name: "Visa", parent: &parentID},
		{grp: "debt", name: "Car Loan Payment"},
		{grp: "expense", name: "Credit Card Fees"},
	}
	for _, row := range rows {
		if _, err := store.db.Exec(seed, "user-1", row.grp, row.name, row.parent, 1); err != nil {
			t.Fatalf("Failed to seed %s: %v", row.name, err)
		}
	}

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	want := map[string]bool{
		"Credit Card Payments": true,
		"Visa":                 true,  // inherits through its parent
		"Car Loan Payment":     false, // plain debt category
		"Credit Card Fees":     false, // phrase only counts in the debt group
	}
	cats, err := store.GetCategories(ctx, "user-1")
	if err != nil {
		t.Fatalf("Failed to get categories: %v", err)
	}
	for _, cat := range cats {
		if cat.IsCreditCardBucket != want[cat.Name] {
			t.Errorf("Category %q: expected is_credit_card=%v, got %v",
				cat.Name, want[cat.Name], cat.IsCreditCardBucket)
		}
	}
}
