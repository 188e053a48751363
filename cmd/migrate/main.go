package main

import (
	"fmt"
	"os"

	"github.com/Rrens/campus-console/internal/config"
	"github.com/Rrens/campus-console/internal/logger"
	"github.com/Rrens/campus-console/internal/repository"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if _, err := logger.Setup(cfg.Logging); err != nil {
		panic(fmt.Sprintf("Failed to set up logging: %v", err))
	}

	if len(os.Args) > 1 {
		cfg.State.Driver = os.Args[1]
	}

	log.Info().
		Str("driver", cfg.State.Driver).
		Str("dir", cfg.State.MigrationsDir).
		Msg("applying state store migrations")

	if err := repository.Migrate(cfg.State); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	log.Info().Msg("migrations applied")
}
