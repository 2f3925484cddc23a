package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"hisab/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "hisab.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedTransaction(t *testing.T, repo *SQLiteRepository, kind core.TransactionKind, owner, desc string, cents int64, categoryID int64, date time.Time) core.Transaction {
	t.Helper()
	tr, err := repo.CreateTransaction(context.Background(), kind, core.Transaction{
		OwnerID:     owner,
		Description: desc,
		Amount:      core.Money{Cents: cents},
		CategoryID:  categoryID,
		Date:        date,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", kind, err)
	}
	return tr
}

func TestListTransactionsWindowAndOwner(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	jan1 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	jan5 := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	feb1 := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	seedTransaction(t, repo, core.Expense, "u1", "inside early", 100, 0, jan1)
	seedTransaction(t, repo, core.Expense, "u1", "inside late", 200, 0, jan5)
	seedTransaction(t, repo, core.Expense, "u1", "outside", 400, 0, feb1)
	seedTransaction(t, repo, core.Expense, "u2", "other owner", 800, 0, jan1)
	seedTransaction(t, repo, core.Deposit, "u1", "wrong kind", 1600, 0, jan1)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 23, 59, 59, 999999999, time.UTC)
	window := core.TimeWindow{Start: &start, End: &end}

	got, err := repo.ListTransactions(ctx, "u1", core.Expense, window)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d transactions, want 2: %+v", len(got), got)
	}
	if got[0].Description != "inside early" || got[1].Description != "inside late" {
		t.Errorf("wrong order or content: %+v", got)
	}
	if !got[0].Date.Equal(jan1) {
		t.Errorf("date round trip = %v, want %v", got[0].Date, jan1)
	}

	// Open window returns everything of the kind for the owner.
	all, err := repo.ListTransactions(ctx, "u1", core.Expense, core.TimeWindow{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d, want 3", len(all))
	}
}

func TestSumExpensesByCategoryDropsDeleted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	food, err := repo.CreateCategory(ctx, "u1", "Food")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	travel, err := repo.CreateCategory(ctx, "u1", "Travel")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, repo, core.Expense, "u1", "rice", 500, food.ID, day)
	seedTransaction(t, repo, core.Expense, "u1", "fish", 700, food.ID, day)
	seedTransaction(t, repo, core.Expense, "u1", "bus", 300, travel.ID, day)

	totals, err := repo.SumExpensesByCategory(ctx, "u1", core.TimeWindow{})
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("got %d rows, want 2: %+v", len(totals), totals)
	}
	if totals[0].Category != "Food" || totals[0].Total.Cents != 1200 {
		t.Errorf("food row = %+v", totals[0])
	}
	if totals[1].Category != "Travel" || totals[1].Total.Cents != 300 {
		t.Errorf("travel row = %+v", totals[1])
	}

	// Deleting a category silently removes its aggregate row.
	if err := repo.DeleteCategory(ctx, "u1", travel.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	totals, err = repo.SumExpensesByCategory(ctx, "u1", core.TimeWindow{})
	if err != nil {
		t.Fatalf("sum after delete: %v", err)
	}
	if len(totals) != 1 || totals[0].Category != "Food" {
		t.Errorf("after delete = %+v, want only Food", totals)
	}
}

func TestSumExpensesByMonthOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedTransaction(t, repo, core.Expense, "u1", "a", 100, 0, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	seedTransaction(t, repo, core.Expense, "u1", "b", 200, 0, time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC))
	seedTransaction(t, repo, core.Expense, "u1", "c", 300, 0, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	seedTransaction(t, repo, core.Expense, "u1", "d", 400, 0, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))

	points, err := repo.SumExpensesByMonth(ctx, "u1", core.TimeWindow{})
	if err != nil {
		t.Fatalf("sum by month: %v", err)
	}
	want := []core.MonthTotal{
		{Year: 2024, Month: 12, Total: core.Money{Cents: 200}},
		{Year: 2025, Month: 1, Total: core.Money{Cents: 400}},
		{Year: 2025, Month: 3, Total: core.Money{Cents: 400}},
	}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d: %+v", len(points), len(want), points)
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestCreateTransactionValidates(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CreateTransaction(context.Background(), core.Expense, core.Transaction{
		OwnerID: "u1",
		Amount:  core.Money{Cents: 100},
		Date:    time.Now(),
	})
	if err == nil {
		t.Fatal("expected validation error for empty description")
	}
}

func TestListCategories(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if _, err := repo.CreateCategory(ctx, "u1", "Zakat"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.CreateCategory(ctx, "u1", "Food"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.CreateCategory(ctx, "u2", "Other"); err != nil {
		t.Fatalf("create: %v", err)
	}

	cats, err := repo.ListCategories(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 2 || cats[0].Name != "Food" || cats[1].Name != "Zakat" {
		t.Errorf("categories = %+v", cats)
	}
}
