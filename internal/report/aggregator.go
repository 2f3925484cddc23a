// Package report aggregates an owner's transactions over a resolved time
// window into the dashboard summary consumed by the API and the PDF renderer.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"hisab/internal/core"
	"hisab/internal/store"
)

// Aggregator fans out the independent store reads for one summary and joins
// them. It holds no state beyond the store handle and is safe for concurrent
// use.
type Aggregator struct {
	store store.ReportStore
}

func NewAggregator(s store.ReportStore) *Aggregator {
	return &Aggregator{store: s}
}

// Aggregate computes the summary for one owner and window.
//
// The five reads have no data dependency on each other and run concurrently;
// the first failure cancels the rest and aborts the whole aggregation. A
// partial summary is never returned.
func (a *Aggregator) Aggregate(ctx context.Context, ownerID string, window core.TimeWindow) (Summary, error) {
	var (
		expenses   []core.Transaction
		deposits   []core.Transaction
		byCategory []core.CategoryTotal
		byMonth    []core.MonthTotal
		categories []core.Category
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = a.store.ListTransactions(ctx, ownerID, core.Expense, window)
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		deposits, err = a.store.ListTransactions(ctx, ownerID, core.Deposit, window)
		if err != nil {
			return fmt.Errorf("list deposits: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		byCategory, err = a.store.SumExpensesByCategory(ctx, ownerID, window)
		if err != nil {
			return fmt.Errorf("sum expenses by category: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		byMonth, err = a.store.SumExpensesByMonth(ctx, ownerID, window)
		if err != nil {
			return fmt.Errorf("sum expenses by month: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = a.store.ListCategories(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	var totalExpenses, totalDeposits core.Money
	for _, e := range expenses {
		totalExpenses = totalExpenses.Add(e.Amount)
	}
	for _, d := range deposits {
		totalDeposits = totalDeposits.Add(d.Amount)
	}

	// Adapters already return the series ordered, but the ascending
	// (year, month) order is a contract of the summary, so it is enforced
	// here rather than assumed.
	sort.Slice(byMonth, func(i, j int) bool {
		if byMonth[i].Year != byMonth[j].Year {
			return byMonth[i].Year < byMonth[j].Year
		}
		return byMonth[i].Month < byMonth[j].Month
	})
	series := make([]SeriesPoint, len(byMonth))
	for i, m := range byMonth {
		series[i] = SeriesPoint{
			ID:    SeriesKey{Year: m.Year, Month: m.Month},
			Total: m.Total,
		}
	}

	if expenses == nil {
		expenses = []core.Transaction{}
	}
	if deposits == nil {
		deposits = []core.Transaction{}
	}
	if byCategory == nil {
		byCategory = []core.CategoryTotal{}
	}
	if categories == nil {
		categories = []core.Category{}
	}

	slog.DebugContext(ctx, "Aggregation completed",
		"owner", ownerID,
		"expenses", len(expenses),
		"deposits", len(deposits),
		"categories", len(byCategory),
		"months", len(series))

	return Summary{
		TotalExpenses:      totalExpenses,
		TotalDeposits:      totalDeposits,
		Balance:            totalDeposits.Sub(totalExpenses),
		ExpensesByCategory: byCategory,
		ExpensesOverTime:   series,
		Deposits:           deposits,
		Expenses:           expenses,
		Categories:         categories,
	}, nil
}
