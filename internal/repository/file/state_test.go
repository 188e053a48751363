package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRepository_Permissions(t *testing.T) {
	repo, err := NewStateRepository(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, repo.Put(context.Background(), "auth-storage", []byte("x")))

	info, err := os.Stat(repo.path("auth-storage"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStateRepository_NamespaceSanitized(t *testing.T) {
	repo, err := NewStateRepository(t.TempDir())
	require.NoError(t, err)

	p := repo.path("../../etc/passwd")
	assert.Equal(t, repo.dir, filepath.Dir(p))
}

func TestNewStateRepository_RequiresDir(t *testing.T) {
	_, err := NewStateRepository("")
	assert.Error(t, err)
}
