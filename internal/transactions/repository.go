package transactions

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Transaction, error)
	Get(ctx context.Context, id int64) (Transaction, error)
	Create(ctx context.Context, t Transaction) (Transaction, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const transactionColumns = `id, category_id, type, amount::text, note, occurred_on, created_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := []any{}
	if filters.Type != "" {
		args = append(args, string(filters.Type))
		query += ` AND type = $` + strconv.Itoa(len(args))
	}
	if filters.CategoryID != nil {
		args = append(args, *filters.CategoryID)
		query += ` AND category_id = $` + strconv.Itoa(len(args))
	}
	if !filters.From.IsZero() {
		args = append(args, filters.From)
		query += ` AND occurred_on >= $` + strconv.Itoa(len(args))
	}
	if !filters.To.IsZero() {
		args = append(args, filters.To)
		query += ` AND occurred_on <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY occurred_on DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Transaction, error) {
	t, err := scanTransaction(r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}
	return t, nil
}

func (r *repository) Create(ctx context.Context, t Transaction) (Transaction, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO transactions (category_id, type, amount, note, occurred_on)
VALUES ($1, $2, $3::numeric, $4, $5) RETURNING id, created_at`,
		t.CategoryID, string(t.Type), t.Amount.String(), t.Note, t.OccurredOn).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var (
		t      Transaction
		typ    string
		amount string
	)
	if err := row.Scan(&t.ID, &t.CategoryID, &typ, &amount, &t.Note, &t.OccurredOn, &t.CreatedAt); err != nil {
		return Transaction{}, err
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("transaction %d: amount: %w", t.ID, err)
	}
	t.Type = Type(typ)
	t.Amount = value
	return t, nil
}
