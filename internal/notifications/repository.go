package notifications

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Notification, error)
	MarkRead(ctx context.Context, id int64) error
	ClearAll(ctx context.Context) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// List returns uncleared alerts, newest first.
func (r *repository) List(ctx context.Context, filters ListFilters) ([]Notification, error) {
	query := `SELECT id, budget_id, title, message, level, percent::text, read, created_at
FROM budget_alerts WHERE cleared_at IS NULL`
	if filters.UnreadOnly {
		query += ` AND NOT read`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.BudgetID, &n.Title, &n.Message, &n.Level, &n.Percent, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *repository) MarkRead(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE budget_alerts SET read = TRUE WHERE id = $1 AND cleared_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearAll hides every alert from the feed. Rows stay so the per-level
// uniqueness keeps a later scan from raising the same alert again.
func (r *repository) ClearAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE budget_alerts SET cleared_at = NOW(), read = TRUE WHERE cleared_at IS NULL`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
