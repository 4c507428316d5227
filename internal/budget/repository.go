package budget

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hesab/hesab/internal/calendar"
	"github.com/hesab/hesab/internal/platform/db"
)

// Repository persists budgets and their alerts.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id int64) (Budget, error)
	List(ctx context.Context, filters ListFilters) ([]Budget, error)
	Delete(ctx context.Context, id int64) error
	TotalExpenses(ctx context.Context, categoryID *int64, from, to time.Time) (decimal.Decimal, error)
	InsertAlert(ctx context.Context, alert Alert) (bool, error)
}

// TxRepository exposes the operations that must share a transaction.
type TxRepository interface {
	LockScope(ctx context.Context, key string) error
	FindOverlapping(ctx context.Context, categoryID *int64, from, to time.Time, excludeID int64) ([]Budget, error)
	Insert(ctx context.Context, b Budget) (Budget, error)
	Update(ctx context.Context, b Budget) (Budget, error)
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGRepository is the PostgreSQL implementation.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

type txRepo struct {
	q querier
}

// WithTx runs fn inside a repeatable-read transaction.
func (r *PGRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{q: tx})
	})
}

const budgetColumns = `id, category_id, amount_limit::text, start_date, end_date, calendar, repeat_count,
series_id::text, start_on, end_on, created_at, updated_at`

func (r *PGRepository) Get(ctx context.Context, id int64) (Budget, error) {
	b, err := scanBudget(r.pool.QueryRow(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Budget{}, ErrNotFound
		}
		return Budget{}, err
	}
	return b, nil
}

func (r *PGRepository) List(ctx context.Context, filters ListFilters) ([]Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE 1=1`
	args := []any{}
	switch {
	case filters.CategoryID != nil:
		args = append(args, *filters.CategoryID)
		query += ` AND category_id = $` + strconv.Itoa(len(args))
	case filters.Overall:
		query += ` AND category_id IS NULL`
	}
	if !filters.ActiveOn.IsZero() {
		args = append(args, filters.ActiveOn)
		n := strconv.Itoa(len(args))
		query += ` AND start_on <= $` + n + ` AND end_on >= $` + n
	}
	query += ` ORDER BY start_on DESC, id DESC`
	return queryBudgets(ctx, r.pool, query, args...)
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TotalExpenses sums expense transactions dated within [from, to]. A nil
// category sums every expense.
func (r *PGRepository) TotalExpenses(ctx context.Context, categoryID *int64, from, to time.Time) (decimal.Decimal, error) {
	var raw string
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0)::text FROM transactions
WHERE type = 'EXPENSE' AND ($1::bigint IS NULL OR category_id = $1) AND occurred_on BETWEEN $2 AND $3`,
		categoryID, from, to).Scan(&raw)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw)
}

// InsertAlert stores alert unless the budget already has one at the same
// level. It reports whether a row was written.
func (r *PGRepository) InsertAlert(ctx context.Context, alert Alert) (bool, error) {
	tag, err := r.pool.Exec(ctx, `INSERT INTO budget_alerts (budget_id, title, message, level, percent, created_at)
VALUES ($1, $2, $3, $4, $5::numeric, $6)
ON CONFLICT (budget_id, level) DO NOTHING`,
		alert.BudgetID, alert.Title, alert.Message, string(alert.Level), alert.Percent, alert.CreatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// LockScope serialises overlap checks for one category scope until the
// transaction ends.
func (t *txRepo) LockScope(ctx context.Context, key string) error {
	_, err := t.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key)
	return err
}

func (t *txRepo) FindOverlapping(ctx context.Context, categoryID *int64, from, to time.Time, excludeID int64) ([]Budget, error) {
	return queryBudgets(ctx, t.q, `SELECT `+budgetColumns+` FROM budgets
WHERE category_id IS NOT DISTINCT FROM $1 AND start_on <= $3 AND end_on >= $2 AND id <> $4
ORDER BY start_on`, categoryID, from, to, excludeID)
}

func (t *txRepo) Insert(ctx context.Context, b Budget) (Budget, error) {
	err := t.q.QueryRow(ctx, `INSERT INTO budgets (category_id, amount_limit, start_date, end_date, calendar, repeat_count,
series_id, start_on, end_on, created_at, updated_at)
VALUES ($1, $2::numeric, $3, $4, $5, $6, $7::uuid, $8, $9, NOW(), NOW())
RETURNING id, created_at, updated_at`,
		b.CategoryID, b.AmountLimit.String(), b.StartDate, b.EndDate, string(b.Calendar), b.Repeat,
		b.SeriesID.String(), b.StartOn, b.EndOn).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return Budget{}, err
	}
	return b, nil
}

func (t *txRepo) Update(ctx context.Context, b Budget) (Budget, error) {
	err := t.q.QueryRow(ctx, `UPDATE budgets SET category_id = $1, amount_limit = $2::numeric, start_date = $3, end_date = $4,
start_on = $5, end_on = $6, updated_at = NOW()
WHERE id = $7 RETURNING updated_at`,
		b.CategoryID, b.AmountLimit.String(), b.StartDate, b.EndDate, b.StartOn, b.EndOn, b.ID).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Budget{}, ErrNotFound
		}
		return Budget{}, err
	}
	return b, nil
}

func queryBudgets(ctx context.Context, q querier, sql string, args ...any) ([]Budget, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBudget(row pgx.Row) (Budget, error) {
	var (
		b        Budget
		amount   string
		system   string
		seriesID string
	)
	if err := row.Scan(&b.ID, &b.CategoryID, &amount, &b.StartDate, &b.EndDate, &system, &b.Repeat,
		&seriesID, &b.StartOn, &b.EndOn, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return Budget{}, err
	}
	limit, err := decimal.NewFromString(amount)
	if err != nil {
		return Budget{}, fmt.Errorf("budget %d: amount: %w", b.ID, err)
	}
	series, err := uuid.Parse(seriesID)
	if err != nil {
		return Budget{}, fmt.Errorf("budget %d: series id: %w", b.ID, err)
	}
	b.AmountLimit = limit
	b.SeriesID = series
	b.Calendar = calendar.System(system)
	return b, nil
}
