package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Rrens/campus-console/internal/config"
	"github.com/Rrens/campus-console/internal/domain"
	"github.com/Rrens/campus-console/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_LocalDrivers(t *testing.T) {
	dir := t.TempDir()

	configs := map[string]config.StateConfig{
		"memory": {Driver: "memory"},
		"file":   {Driver: "file", File: config.FileConfig{Dir: filepath.Join(dir, "files")}},
		"sqlite": {Driver: "sqlite", SQLite: config.SQLiteConfig{Path: filepath.Join(dir, "db", "state.db")}},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			repo, err := repository.Open(ctx, cfg)
			require.NoError(t, err)
			defer repo.Close()

			require.NoError(t, repo.Ping(ctx))

			_, err = repo.Get(ctx, "auth-storage")
			assert.ErrorIs(t, err, domain.ErrStateNotFound)

			require.NoError(t, repo.Put(ctx, "auth-storage", []byte(`{"token":"T1"}`)))
			got, err := repo.Get(ctx, "auth-storage")
			require.NoError(t, err)
			assert.Equal(t, `{"token":"T1"}`, string(got))

			require.NoError(t, repo.Put(ctx, "auth-storage", []byte(`{"token":"T2"}`)))
			got, err = repo.Get(ctx, "auth-storage")
			require.NoError(t, err)
			assert.Equal(t, `{"token":"T2"}`, string(got))

			_, err = repo.Get(ctx, "other")
			assert.ErrorIs(t, err, domain.ErrStateNotFound)

			require.NoError(t, repo.Delete(ctx, "auth-storage"))
			_, err = repo.Get(ctx, "auth-storage")
			assert.ErrorIs(t, err, domain.ErrStateNotFound)

			// deleting a missing record is not an error
			require.NoError(t, repo.Delete(ctx, "auth-storage"))
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := repository.Open(context.Background(), config.StateConfig{Driver: "etcd"})
	assert.ErrorContains(t, err, "unsupported state driver")
}

func TestMigrate_NoSchemaDrivers(t *testing.T) {
	assert.NoError(t, repository.Migrate(config.StateConfig{Driver: "file"}))
}
