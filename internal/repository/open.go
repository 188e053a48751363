package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rrens/campus-console/internal/config"
	"github.com/Rrens/campus-console/internal/domain"
	"github.com/Rrens/campus-console/internal/repository/file"
	"github.com/Rrens/campus-console/internal/repository/memory"
	"github.com/Rrens/campus-console/internal/repository/mongo"
	"github.com/Rrens/campus-console/internal/repository/mysql"
	"github.com/Rrens/campus-console/internal/repository/postgres"
	"github.com/Rrens/campus-console/internal/repository/redis"
	"github.com/Rrens/campus-console/internal/repository/sqlite"
	"github.com/rs/zerolog/log"
)

// Drivers lists the supported state.driver values
var Drivers = []string{"memory", "file", "sqlite", "postgres", "mysql", "redis", "mongo"}

// Open builds the StateRepository selected by cfg.Driver
func Open(ctx context.Context, cfg config.StateConfig) (domain.StateRepository, error) {
	log.Debug().Str("driver", cfg.Driver).Msg("opening state repository")

	switch cfg.Driver {
	case "memory":
		return memory.NewStateRepository(), nil

	case "", "file":
		return opened(file.NewStateRepository(cfg.File.Dir))

	case "sqlite":
		return opened(sqlite.Open(ctx, cfg.SQLite.Path))

	case "postgres":
		if cfg.AutoMigrate {
			if err := Migrate(cfg); err != nil {
				return nil, err
			}
		}
		db, err := postgres.NewDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return postgres.NewStateRepository(db), nil

	case "mysql":
		if cfg.AutoMigrate {
			if err := Migrate(cfg); err != nil {
				return nil, err
			}
		}
		return opened(mysql.Open(ctx, cfg.MySQL))

	case "redis":
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redis.NewStateRepository(client, cfg.Redis.KeyPrefix), nil

	case "mongo":
		return opened(mongo.Open(ctx, cfg.Mongo))

	default:
		return nil, fmt.Errorf("unsupported state driver: %q (want one of %s)", cfg.Driver, strings.Join(Drivers, ", "))
	}
}

// opened keeps a typed nil out of the interface on failure
func opened[T domain.StateRepository](repo T, err error) (domain.StateRepository, error) {
	if err != nil {
		return nil, err
	}
	return repo, nil
}
