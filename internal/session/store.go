package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Rrens/campus-console/internal/domain"
	"github.com/Rrens/campus-console/internal/security"
)

// ErrCorruptState is returned by Store.Load when the persisted record cannot
// be decoded or decrypted.
var ErrCorruptState = errors.New("persisted session is unreadable")

// Store reads and writes the persisted session record under one namespace
type Store struct {
	repo      domain.StateRepository
	namespace string
	sealer    *security.Sealer
}

// NewStore creates a store. A nil sealer stores the record as plain JSON.
func NewStore(repo domain.StateRepository, namespace string, sealer *security.Sealer) *Store {
	if namespace == "" {
		namespace = "auth-storage"
	}
	return &Store{repo: repo, namespace: namespace, sealer: sealer}
}

// Load returns the persisted record. A missing record is an empty record.
func (s *Store) Load(ctx context.Context) (domain.PersistedSession, error) {
	var rec domain.PersistedSession

	payload, err := s.repo.Get(ctx, s.namespace)
	if errors.Is(err, domain.ErrStateNotFound) {
		return rec, nil
	}
	if err != nil {
		return rec, fmt.Errorf("failed to read session: %w", err)
	}

	if s.sealer != nil {
		payload, err = s.sealer.Open(payload)
		if err != nil {
			return rec, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
	}

	if err := json.Unmarshal(payload, &rec); err != nil {
		return domain.PersistedSession{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return rec, nil
}

// Save replaces the persisted record. An empty record removes it.
func (s *Store) Save(ctx context.Context, rec domain.PersistedSession) error {
	if rec.Empty() {
		return s.Clear(ctx)
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if s.sealer != nil {
		payload, err = s.sealer.Seal(payload)
		if err != nil {
			return fmt.Errorf("failed to seal session: %w", err)
		}
	}

	if err := s.repo.Put(ctx, s.namespace, payload); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the persisted record
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.namespace); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
