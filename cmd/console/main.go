package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/campus-console/internal/api"
	"github.com/Rrens/campus-console/internal/backend"
	"github.com/Rrens/campus-console/internal/chat"
	"github.com/Rrens/campus-console/internal/config"
	"github.com/Rrens/campus-console/internal/logger"
	"github.com/Rrens/campus-console/internal/repository"
	"github.com/Rrens/campus-console/internal/security"
	"github.com/Rrens/campus-console/internal/session"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logCloser, err := logger.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("backend", cfg.Backend.BaseURL).
		Str("state_driver", cfg.State.Driver).
		Msg("Starting campus console")

	ctx := context.Background()

	// Initialize state store
	store, err := repository.Open(ctx, cfg.State)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open state store")
	}
	defer store.Close()

	var sealer *security.Sealer
	if cfg.State.EncryptionKey != "" {
		sealer, err = security.NewSealer(cfg.State.EncryptionKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize state encryption")
		}
	}

	// Initialize backend client and session
	client, err := backend.NewFromConfig(cfg.Backend)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create backend client")
	}

	sessions := session.NewManager(client, session.NewStore(store, cfg.State.Namespace, sealer))
	client.Bind(sessions)

	if err := sessions.Initialize(ctx); err != nil && !errors.Is(err, session.ErrNoToken) {
		log.Warn().Err(err).Msg("Starting signed out")
	}

	conversations := chat.NewHolder(client, sessions, client, chat.Options{
		WelcomeMessage: cfg.Chat.WelcomeMessage,
		MaxInputLength: cfg.Chat.MaxInputLength,
	})
	defer conversations.Close()

	// Initialize router
	router := api.NewRouter(cfg, api.Deps{
		Client:        client,
		Sessions:      sessions,
		Store:         store,
		Conversations: conversations,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown does not cancel in-flight requests; ending the conversation
	// lets open event streams return
	conversations.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
