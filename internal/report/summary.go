package report

import (
	"time"

	"hisab/internal/core"
)

// Summary is the aggregation result for one owner and window. Field names
// are part of the API contract and mirror the dashboard JSON response.
type Summary struct {
	TotalExpenses      core.Money           `json:"totalExpenses"`
	TotalDeposits      core.Money           `json:"totalDeposits"`
	Balance            core.Money           `json:"balance"`
	ExpensesByCategory []core.CategoryTotal `json:"expensesByCategory"`
	ExpensesOverTime   []SeriesPoint        `json:"expensesOverTime"`
	Deposits           []core.Transaction   `json:"deposits"`
	Expenses           []core.Transaction   `json:"expenses"`
	Categories         []core.Category      `json:"categories"`
	Meta               Meta                 `json:"meta"`
}

// SeriesPoint is one month of the expense time series. The `_id` envelope is
// kept for compatibility with existing dashboard clients.
type SeriesPoint struct {
	ID    SeriesKey  `json:"_id"`
	Total core.Money `json:"total"`
}

type SeriesKey struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Meta echoes the resolved window and the raw inputs that produced it.
type Meta struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Applied   Applied    `json:"applied"`
}

type Applied struct {
	Filter    string `json:"filter"`
	Date      string `json:"date"`
	From      string `json:"from"`
	To        string `json:"to"`
	WeekStart string `json:"weekStart"`
}

// WithMeta returns a copy of the summary carrying the window echo. The
// aggregator leaves Meta empty; the caller that resolved the window owns it.
func (s Summary) WithMeta(window core.TimeWindow, applied Applied) Summary {
	if applied.WeekStart == "" {
		applied.WeekStart = "mon"
	}
	s.Meta = Meta{
		StartDate: window.Start,
		EndDate:   window.End,
		Applied:   applied,
	}
	return s
}
