package storage

import (
	"context"
	"testing"
	"time"

	"hisab/internal/core"
)

func TestMemoryStoreMirrorsSQLiteSemantics(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()

	food, err := mem.CreateCategory(ctx, "u1", "Food")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	ghost, err := mem.CreateCategory(ctx, "u1", "Ghost")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	day := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, tr := range []core.Transaction{
		{OwnerID: "u1", Description: "rice", Amount: core.Money{Cents: 500}, CategoryID: food.ID, Date: day},
		{OwnerID: "u1", Description: "old", Amount: core.Money{Cents: 900}, CategoryID: ghost.ID, Date: day},
	} {
		if _, err := mem.CreateTransaction(ctx, core.Expense, tr); err != nil {
			t.Fatalf("create transaction: %v", err)
		}
	}
	if err := mem.DeleteCategory(ctx, "u1", ghost.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	totals, err := mem.SumExpensesByCategory(ctx, "u1", core.TimeWindow{})
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if len(totals) != 1 || totals[0].Category != "Food" || totals[0].Total.Cents != 500 {
		t.Errorf("totals = %+v, want only Food 5.00", totals)
	}

	months, err := mem.SumExpensesByMonth(ctx, "u1", core.TimeWindow{})
	if err != nil {
		t.Fatalf("months: %v", err)
	}
	// The orphaned expense still counts toward the raw series.
	if len(months) != 1 || months[0].Total.Cents != 1400 {
		t.Errorf("months = %+v, want one point of 14.00", months)
	}

	cats, err := mem.ListCategories(ctx, "u1")
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "Food" {
		t.Errorf("categories = %+v", cats)
	}
}
