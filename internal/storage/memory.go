package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"hisab/internal/core"
	"hisab/internal/store"
)

// MemoryStore is an in-memory TransactionStore used as the default backend
// for local development and by tests. It mirrors the SQLite adapter's
// semantics, including the silent drop of totals whose category is gone.
type MemoryStore struct {
	mu           sync.RWMutex
	nextID       int64
	categories   []core.Category
	categoryOwn  map[int64]string
	transactions map[core.TransactionKind][]core.Transaction
}

var _ store.ReportStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:       1,
		categoryOwn:  make(map[int64]string),
		transactions: make(map[core.TransactionKind][]core.Transaction),
	}
}

func (m *MemoryStore) CreateCategory(_ context.Context, ownerID, name string) (core.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := core.Category{ID: m.nextID, Name: name}
	m.nextID++
	m.categories = append(m.categories, c)
	m.categoryOwn[c.ID] = ownerID
	return c, nil
}

func (m *MemoryStore) DeleteCategory(_ context.Context, ownerID string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.categories {
		if c.ID == id && m.categoryOwn[id] == ownerID {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			delete(m.categoryOwn, id)
			break
		}
	}
	return nil
}

func (m *MemoryStore) CreateTransaction(_ context.Context, kind core.TransactionKind, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.nextID
	m.nextID++
	t.CreatedAt = time.Now().UTC()
	m.transactions[kind] = append(m.transactions[kind], t)
	return t, nil
}

func (m *MemoryStore) ListTransactions(_ context.Context, ownerID string, kind core.TransactionKind, window core.TimeWindow) ([]core.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.Transaction
	for _, t := range m.transactions[kind] {
		if t.OwnerID == ownerID && window.Contains(t.Date) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) SumExpensesByCategory(_ context.Context, ownerID string, window core.TimeWindow) ([]core.CategoryTotal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make(map[int64]string, len(m.categories))
	for _, c := range m.categories {
		names[c.ID] = c.Name
	}

	totals := make(map[int64]int64)
	for _, t := range m.transactions[core.Expense] {
		if t.OwnerID != ownerID || !window.Contains(t.Date) {
			continue
		}
		totals[t.CategoryID] += t.Amount.Cents
	}

	var out []core.CategoryTotal
	for id, cents := range totals {
		name, ok := names[id]
		if !ok {
			continue // category deleted out from under the transactions
		}
		out = append(out, core.CategoryTotal{
			CategoryID: id,
			Category:   name,
			Total:      core.Money{Cents: cents},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (m *MemoryStore) SumExpensesByMonth(_ context.Context, ownerID string, window core.TimeWindow) ([]core.MonthTotal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type ym struct{ year, month int }
	totals := make(map[ym]int64)
	for _, t := range m.transactions[core.Expense] {
		if t.OwnerID != ownerID || !window.Contains(t.Date) {
			continue
		}
		u := t.Date.UTC()
		totals[ym{u.Year(), int(u.Month())}] += t.Amount.Cents
	}

	var out []core.MonthTotal
	for k, cents := range totals {
		out = append(out, core.MonthTotal{Year: k.year, Month: k.month, Total: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}

func (m *MemoryStore) ListCategories(_ context.Context, ownerID string) ([]core.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.Category
	for _, c := range m.categories {
		if m.categoryOwn[c.ID] == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
