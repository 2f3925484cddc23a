// Package store declares the read-only ports the reporting core consumes.
// Persistence is an outbound concern; the aggregator never mutates the store
// and makes no cross-read consistency assumption between the fan-out queries.
package store

import (
	"context"

	"hisab/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionReader lists an owner's transactions of one kind whose
	// business date falls inside the window (inclusive bounds, open side
	// unconstrained).
	TransactionReader interface {
		ListTransactions(ctx context.Context, ownerID string, kind core.TransactionKind, window core.TimeWindow) ([]core.Transaction, error)
	}

	// ExpenseAggregator produces grouped expense totals server-side.
	ExpenseAggregator interface {
		// SumExpensesByCategory returns one row per category referenced by a
		// matching expense, joined against the category name. Rows whose
		// category no longer exists are omitted by the adapter.
		SumExpensesByCategory(ctx context.Context, ownerID string, window core.TimeWindow) ([]core.CategoryTotal, error)

		// SumExpensesByMonth returns one row per (year, month) pair present
		// in the matching expenses, ascending by year then month.
		SumExpensesByMonth(ctx context.Context, ownerID string, window core.TimeWindow) ([]core.MonthTotal, error)
	}

	// CategoryReader lists the owner's categories.
	CategoryReader interface {
		ListCategories(ctx context.Context, ownerID string) ([]core.Category, error)
	}

	// ReportStore is everything the report aggregator needs.
	ReportStore interface {
		TransactionReader
		ExpenseAggregator
		CategoryReader
	}
)
