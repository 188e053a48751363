package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/campus-console/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const connectTimeout = 10 * time.Second

// DB is the pool behind the postgres state store. The store issues one
// small statement per session change, so the pool stays small.
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB connects to the state database and verifies it is reachable
func NewDB(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse state database config: %w", err)
	}

	poolConfig.MaxConns = max(cfg.MaxConns, 1)
	poolConfig.MinConns = min(cfg.MinConns, poolConfig.MaxConns)
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "campus-console"

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach state database %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	log.Debug().
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("postgres state store connected")

	return &DB{Pool: pool}, nil
}

// Close closes the pool
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
