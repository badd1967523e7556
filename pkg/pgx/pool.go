// Package pgx wraps pgxpool construction for the gateway: a single
// bounded pool shared by all request handlers.
package pgx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config describes how the pool is built.
type Config struct {
	ConnString string
	// MaxConns bounds concurrent database work; requests beyond it wait
	// for a pooled connection. Defaults to 5.
	MaxConns int32
	// ConnectTimeout bounds the initial ping retry loop. Defaults to 30s.
	ConnectTimeout time.Duration
}

// NewPool creates a bounded connection pool and verifies connectivity.
// The initial ping is retried with exponential backoff so the gateway
// survives starting before its database does; queries themselves are
// never retried.
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if cfg.ConnString == "" {
		return nil, errors.New("pgx: connection string required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("pgx: parsing connection string: %w", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 5
	}
	poolCfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pgx: creating pool: %w", err)
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 30 * time.Second
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = connectTimeout

	ping := func() error {
		return pool.Ping(ctx)
	}
	if err := backoff.Retry(ping, backoff.WithContext(b, ctx)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgx: ping connection: %w", err)
	}

	return pool, nil
}
