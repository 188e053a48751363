package repository

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Rrens/campus-console/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// Migrate applies migrations/<driver> to the configured state database.
// Drivers without a schema are a no-op.
func Migrate(cfg config.StateConfig) error {
	var databaseURL string
	switch cfg.Driver {
	case "postgres":
		databaseURL = cfg.Postgres.DSN()
	case "mysql":
		databaseURL = "mysql://" + cfg.MySQL.MySQLDSN()
	default:
		log.Info().Str("driver", cfg.Driver).Msg("driver has no migrations")
		return nil
	}

	source := "file://" + filepath.ToSlash(filepath.Join(cfg.MigrationsDir, cfg.Driver))
	return up(cfg.Driver, source, databaseURL)
}

func up(driver, source, databaseURL string) error {
	m, err := migrate.New(source, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	version, dirty, _ := m.Version()
	log.Debug().Str("driver", driver).Uint("version", version).Bool("dirty", dirty).Msg("state schema before migration")

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Str("driver", driver).Msg("state migration: no changes")
			return nil
		}
		return fmt.Errorf("failed to migrate %s state schema: %w", driver, err)
	}

	log.Info().Str("driver", driver).Str("source", source).Msg("state migration: success")
	return nil
}
