package settings

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hesab/hesab/internal/calendar"
)

// Repository persists the settings row.
type Repository interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) (Settings, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a PostgreSQL backed repository. The table holds at
// most one row, keyed by id 1.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) Load(ctx context.Context) (Settings, error) {
	var (
		s      Settings
		system string
	)
	err := r.pool.QueryRow(ctx, `SELECT first_day_of_month, currency, notifications_enabled, calendar, updated_at
FROM settings WHERE id = 1`).Scan(&s.FirstDayOfMonth, &s.Currency, &s.NotificationsEnabled, &system, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Settings{}, ErrNotFound
		}
		return Settings{}, err
	}
	s.Calendar = calendar.System(system)
	return s, nil
}

func (r *pgRepository) Save(ctx context.Context, s Settings) (Settings, error) {
	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, `INSERT INTO settings (id, first_day_of_month, currency, notifications_enabled, calendar, updated_at)
VALUES (1, $1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET first_day_of_month = EXCLUDED.first_day_of_month,
	currency = EXCLUDED.currency,
	notifications_enabled = EXCLUDED.notifications_enabled,
	calendar = EXCLUDED.calendar,
	updated_at = EXCLUDED.updated_at`,
		s.FirstDayOfMonth, s.Currency, s.NotificationsEnabled, string(s.Calendar), now)
	if err != nil {
		return Settings{}, err
	}
	s.UpdatedAt = now
	return s, nil
}
