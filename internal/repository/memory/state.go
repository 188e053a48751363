package memory

import (
	"context"
	"sync"

	"github.com/Rrens/campus-console/internal/domain"
)

// StateRepository keeps records in process memory. Nothing survives a
// restart.
type StateRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewStateRepository creates an empty in-memory repository
func NewStateRepository() *StateRepository {
	return &StateRepository{records: make(map[string][]byte)}
}

func (r *StateRepository) Get(_ context.Context, namespace string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payload, ok := r.records[namespace]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (r *StateRepository) Put(_ context.Context, namespace string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[namespace] = append([]byte(nil), payload...)
	return nil
}

func (r *StateRepository) Delete(_ context.Context, namespace string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, namespace)
	return nil
}

func (r *StateRepository) Ping(context.Context) error { return nil }

func (r *StateRepository) Close() error { return nil }
