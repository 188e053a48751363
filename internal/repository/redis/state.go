package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/campus-console/internal/domain"
	"github.com/redis/go-redis/v9"
)

// StateRepository keeps each namespace under a single key with no expiry
type StateRepository struct {
	client *Client
	prefix string
}

// NewStateRepository creates a new state repository
func NewStateRepository(client *Client, prefix string) *StateRepository {
	return &StateRepository{client: client, prefix: prefix}
}

func (r *StateRepository) key(namespace string) string {
	return fmt.Sprintf("%s%s", r.prefix, namespace)
}

func (r *StateRepository) Get(ctx context.Context, namespace string) ([]byte, error) {
	data, err := r.client.rdb.Get(ctx, r.key(namespace)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	return data, nil
}

func (r *StateRepository) Put(ctx context.Context, namespace string, payload []byte) error {
	if err := r.client.rdb.Set(ctx, r.key(namespace), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to put state: %w", err)
	}
	return nil
}

func (r *StateRepository) Delete(ctx context.Context, namespace string) error {
	if err := r.client.rdb.Del(ctx, r.key(namespace)).Err(); err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}

func (r *StateRepository) Ping(ctx context.Context) error {
	return r.client.rdb.Ping(ctx).Err()
}

func (r *StateRepository) Close() error {
	return r.client.Close()
}
