package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Rrens/campus-console/internal/domain"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// StateRepository stores one file per namespace under dir. Writes go to a
// temporary file that is renamed into place.
type StateRepository struct {
	dir string
}

// NewStateRepository creates dir (0700) if needed
func NewStateRepository(dir string) (*StateRepository, error) {
	if dir == "" {
		return nil, errors.New("state directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &StateRepository{dir: dir}, nil
}

func (r *StateRepository) path(namespace string) string {
	return filepath.Join(r.dir, unsafeChars.ReplaceAllString(namespace, "_")+".state")
}

func (r *StateRepository) Get(ctx context.Context, namespace string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path(namespace))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	return data, nil
}

func (r *StateRepository) Put(ctx context.Context, namespace string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.dir, ".state-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path(namespace)); err != nil {
		return fmt.Errorf("failed to replace state: %w", err)
	}
	return nil
}

func (r *StateRepository) Delete(ctx context.Context, namespace string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(r.path(namespace))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}

func (r *StateRepository) Ping(context.Context) error {
	_, err := os.Stat(r.dir)
	return err
}

func (r *StateRepository) Close() error { return nil }
