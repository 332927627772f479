package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NammaThalle/grocery-tracker/internal/entity"
)

// ExpenseRepository is the append-only Postgres archive of processed
// expenses. It exists alongside the spreadsheet so history survives
// sheet edits and can be re-exported.
type ExpenseRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewExpenseRepository(pool *pgxpool.Pool, logger *slog.Logger) *ExpenseRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseRepository{pool: pool, logger: logger}
}

// EnsureSchema creates the archive tables when missing.
func (r *ExpenseRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS expenses (
  id UUID PRIMARY KEY,
  expense_date DATE NOT NULL,
  store_name TEXT NOT NULL DEFAULT '',
  grand_total NUMERIC(12,2) NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS expense_items (
  id UUID PRIMARY KEY,
  expense_id UUID NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
  position INT NOT NULL,
  original_name TEXT NOT NULL,
  clean_name TEXT NOT NULL,
  pieces INT NOT NULL,
  unit_size TEXT NOT NULL,
  total_quantity TEXT NOT NULL,
  price_per_unit NUMERIC(12,2) NOT NULL,
  total_value NUMERIC(12,2) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_expense_items_expense ON expense_items(expense_id);
CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(expense_date);
`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// AppendExpense writes the expense and its items in one transaction.
func (r *ExpenseRepository) AppendExpense(ctx context.Context, e *entity.Expense) error {
	id := uuid.New()
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
INSERT INTO expenses (id, expense_date, store_name, grand_total)
VALUES ($1, $2, $3, $4)
`, id, e.Date, e.StoreName, e.GrandTotal); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	for i, it := range e.Items {
		if _, err := tx.Exec(ctx, `
INSERT INTO expense_items (
  id, expense_id, position, original_name, clean_name,
  pieces, unit_size, total_quantity, price_per_unit, total_value
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`, uuid.New(), id, i, it.OriginalName, it.CleanName,
			it.Pieces, it.UnitSize, it.TotalQuantity, it.PricePerUnit, it.TotalValue); err != nil {
			return fmt.Errorf("insert item %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	r.logger.Info("repository.expense_archived",
		"expense_id", id.String(),
		"items", len(e.Items),
		"grand_total", e.GrandTotal,
	)
	return nil
}

// ListRows returns archived item rows in date order, bounded by the
// inclusive [from, to] window. Zero bounds mean unbounded.
func (r *ExpenseRepository) ListRows(ctx context.Context, from, to time.Time) ([]entity.ItemRow, error) {
	query := `
SELECT e.expense_date, e.store_name,
       i.original_name, i.clean_name, i.pieces, i.unit_size,
       i.total_quantity, i.price_per_unit, i.total_value
FROM expenses e
JOIN expense_items i ON i.expense_id = e.id
WHERE ($1::date IS NULL OR e.expense_date >= $1)
  AND ($2::date IS NULL OR e.expense_date <= $2)
ORDER BY e.expense_date ASC, e.created_at ASC, i.position ASC
`
	var fromArg, toArg any
	if !from.IsZero() {
		fromArg = from
	}
	if !to.IsZero() {
		toArg = to
	}

	rows, err := r.pool.Query(ctx, query, fromArg, toArg)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var out []entity.ItemRow
	for rows.Next() {
		var row entity.ItemRow
		if err := rows.Scan(
			&row.Date, &row.Store,
			&row.Item.OriginalName, &row.Item.CleanName, &row.Item.Pieces, &row.Item.UnitSize,
			&row.Item.TotalQuantity, &row.Item.PricePerUnit, &row.Item.TotalValue,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
