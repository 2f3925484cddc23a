package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hisab/internal/core"
	"hisab/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the persistent TransactionStore adapter. Business
// dates are stored as unix seconds in UTC so window predicates and the
// year/month grouping stay free of locale or timezone surprises.
type SQLiteRepository struct {
	db *sql.DB
}

var _ store.ReportStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// windowClause appends window predicates on occurred_on to a base query.
func windowClause(window core.TimeWindow, args []any) (string, []any) {
	var clauses []string
	if window.Start != nil {
		clauses = append(clauses, "occurred_on >= ?")
		args = append(args, window.Start.Unix())
	}
	if window.End != nil {
		clauses = append(clauses, "occurred_on <= ?")
		args = append(args, window.End.Unix())
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " AND " + strings.Join(clauses, " AND "), args
}

// ListTransactions implements store.TransactionReader.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, ownerID string, kind core.TransactionKind, window core.TimeWindow) ([]core.Transaction, error) {
	query := `SELECT id, owner_id, description, amount_cents, COALESCE(category_id, 0), occurred_on, created_at
		FROM transactions WHERE owner_id = ? AND kind = ?`
	args := []any{ownerID, string(kind)}
	clause, args := windowClause(window, args)
	query += clause + " ORDER BY occurred_on, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s transactions: %w", kind, err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var occurredOn, createdAt int64
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Description, &t.Amount.Cents, &t.CategoryID, &occurredOn, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date = time.Unix(occurredOn, 0).UTC()
		t.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// SumExpensesByCategory implements store.ExpenseAggregator. The inner join
// against categories drops groups whose category has been deleted, matching
// the dashboard contract.
func (r *SQLiteRepository) SumExpensesByCategory(ctx context.Context, ownerID string, window core.TimeWindow) ([]core.CategoryTotal, error) {
	query := `SELECT c.id, c.name, SUM(t.amount_cents)
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.owner_id = ? AND t.kind = 'expense'`
	args := []any{ownerID}
	clause, args := windowClause(window, args)
	query += strings.ReplaceAll(clause, "occurred_on", "t.occurred_on")
	query += " GROUP BY c.id, c.name ORDER BY c.name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sum expenses by category: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.Category, &ct.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	return out, nil
}

// SumExpensesByMonth implements store.ExpenseAggregator.
func (r *SQLiteRepository) SumExpensesByMonth(ctx context.Context, ownerID string, window core.TimeWindow) ([]core.MonthTotal, error) {
	query := `SELECT CAST(strftime('%Y', occurred_on, 'unixepoch') AS INTEGER) AS year,
			CAST(strftime('%m', occurred_on, 'unixepoch') AS INTEGER) AS month,
			SUM(amount_cents)
		FROM transactions WHERE owner_id = ? AND kind = 'expense'`
	args := []any{ownerID}
	clause, args := windowClause(window, args)
	query += clause + " GROUP BY year, month ORDER BY year, month"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sum expenses by month: %w", err)
	}
	defer rows.Close()

	var out []core.MonthTotal
	for rows.Next() {
		var mt core.MonthTotal
		if err := rows.Scan(&mt.Year, &mt.Month, &mt.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan month total: %w", err)
		}
		out = append(out, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate month totals: %w", err)
	}
	return out, nil
}

// ListCategories implements store.CategoryReader.
func (r *SQLiteRepository) ListCategories(ctx context.Context, ownerID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name FROM categories WHERE owner_id = ? ORDER BY name", ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// CreateCategory inserts a category for the owner.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, ownerID, name string) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (owner_id, name, created_at) VALUES (?, ?, ?)",
		ownerID, name, time.Now().Unix())
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category insert id: %w", err)
	}
	return core.Category{ID: id, Name: name}, nil
}

// DeleteCategory removes a category; transactions that referenced it keep
// their rows but fall out of the per-category breakdown.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, ownerID string, id int64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM categories WHERE owner_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	// SQLite enforces ON DELETE SET NULL only with foreign keys on; clear
	// the references explicitly so the behavior doesn't depend on pragma.
	_, err = r.db.ExecContext(ctx,
		"UPDATE transactions SET category_id = NULL WHERE owner_id = ? AND category_id = ?", ownerID, id)
	if err != nil {
		return fmt.Errorf("clear category references: %w", err)
	}
	return nil
}

// CreateTransaction inserts one transaction of the given kind.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, kind core.TransactionKind, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}
	now := time.Now().UTC()

	var categoryID any
	if t.CategoryID != 0 {
		categoryID = t.CategoryID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (owner_id, kind, description, amount_cents, category_id, occurred_on, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.OwnerID, string(kind), t.Description, t.Amount.Cents, categoryID, t.Date.UTC().Unix(), now.Unix())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create %s: %w", kind, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%s insert id: %w", kind, err)
	}
	t.ID = id
	t.CreatedAt = now

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"kind", kind,
		"owner", t.OwnerID,
		"amount_cents", t.Amount.Cents)
	return t, nil
}
