package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Options configures the PostgreSQL pool. Zero values keep the pgxpool
// defaults.
type Options struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

func (o Options) poolConfig() (*pgxpool.Config, error) {
	if o.DSN == "" {
		return nil, errors.New("db: empty dsn")
	}
	if o.MinConns < 0 || o.MaxConns < 0 || (o.MaxConns > 0 && o.MinConns > o.MaxConns) {
		return nil, fmt.Errorf("db: invalid pool size min=%d max=%d", o.MinConns, o.MaxConns)
	}
	config, err := pgxpool.ParseConfig(o.DSN)
	if err != nil {
		return nil, fmt.Errorf("db: parse config: %w", err)
	}
	if o.MaxConns > 0 {
		config.MaxConns = o.MaxConns
	}
	config.MinConns = o.MinConns
	if o.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = o.MaxConnIdleTime
	}
	if o.ConnectTimeout > 0 {
		config.ConnConfig.ConnectTimeout = o.ConnectTimeout
	}
	return config, nil
}

// New opens the pool and pings the server once.
func New(ctx context.Context, opts Options) (*pgxpool.Pool, error) {
	config, err := opts.poolConfig()
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("db: new pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	return pool, nil
}
