package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/campus-console/internal/domain"
	"github.com/jackc/pgx/v5"
)

// StateRepository implements domain.StateRepository on a client_state table
type StateRepository struct {
	db *DB
}

// NewStateRepository creates a new state repository
func NewStateRepository(db *DB) *StateRepository {
	return &StateRepository{db: db}
}

func (r *StateRepository) Get(ctx context.Context, namespace string) ([]byte, error) {
	query := `SELECT payload FROM client_state WHERE namespace = $1`

	var payload []byte
	err := r.db.Pool.QueryRow(ctx, query, namespace).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
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
		VALUES ($1, $2, NOW())
		ON CONFLICT (namespace) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.Pool.Exec(ctx, query, namespace, payload); err != nil {
		return fmt.Errorf("failed to put state: %w", err)
	}
	return nil
}

func (r *StateRepository) Delete(ctx context.Context, namespace string) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM client_state WHERE namespace = $1`, namespace); err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}

func (r *StateRepository) Ping(ctx context.Context) error {
	return r.db.Pool.Ping(ctx)
}

func (r *StateRepository) Close() error {
	r.db.Close()
	return nil
}
