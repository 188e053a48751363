package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/campus-console/internal/config"
	"github.com/Rrens/campus-console/internal/domain"
	_ "github.com/go-sql-driver/mysql"
)

// StateRepository implements domain.StateRepository on MySQL
type StateRepository struct {
	db *sql.DB
}

// Open connects to MySQL. The client_state table is created by migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*StateRepository, error) {
	db, err := sql.Open("mysql", cfg.MySQLDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &StateRepository{db: db}, nil
}

func (r *StateRepository) Get(ctx context.Context, namespace string) ([]byte, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, "SELECT payload FROM client_state WHERE namespace = ?", namespace).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	return payload, nil
}

func (r *StateRepository) Put(ctx context.Context, namespace string, payload []byte) error {
	query := `
		INSERT INTO client_state (namespace, payload, updated_at)
		VALUES (?, ?, UTC_TIMESTAMP(6))
		ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)
	`
	if _, err := r.db.ExecContext(ctx, query, namespace, payload); err != nil {
		return fmt.Errorf("failed to put state: %w", err)
	}
	return nil
}

func (r *StateRepository) Delete(ctx context.Context, namespace string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM client_state WHERE namespace = ?", namespace); err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}

func (r *StateRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *StateRepository) Close() error {
	return r.db.Close()
}
