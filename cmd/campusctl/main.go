package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/campus-console/internal/backend"
	"github.com/Rrens/campus-console/internal/config"
	"github.com/Rrens/campus-console/internal/domain"
	"github.com/Rrens/campus-console/internal/logger"
	"github.com/Rrens/campus-console/internal/repository"
	"github.com/Rrens/campus-console/internal/security"
	"github.com/Rrens/campus-console/internal/service"
	"github.com/Rrens/campus-console/internal/session"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app holds what every command needs once the root has run
type app struct {
	cfg      *config.Config
	store    domain.StateRepository
	client   *backend.Client
	sessions *session.Manager
	logs     io.Closer
	initErr  error
}

var (
	apiFlag    string
	configFlag string
	outputFlag string
	cli        app
	rootCmd    = &cobra.Command{
		Use:               "campusctl",
		Short:             "CLI client for the campus administration backend",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: teardown,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "", "Campus backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config.yaml")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "text", "Output format: text or json")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		switch {
		case backend.IsUnauthorized(err):
			fmt.Fprintln(os.Stderr, "session expired, run `campusctl login`")
		case errors.Is(err, service.ErrNotSignedIn), errors.Is(err, session.ErrNoToken):
			fmt.Fprintln(os.Stderr, "not signed in, run `campusctl login`")
		default:
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// setup loads configuration, opens the state store and restores the
// persisted session before any command runs
func setup(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	if configFlag != "" {
		os.Setenv("CONFIG_PATH", configFlag)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if apiFlag != "" {
		cfg.Backend.BaseURL = apiFlag
	}
	// keep command output clean unless asked otherwise
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Logging.Level = "warn"
	}

	logs, err := logger.Setup(cfg.Logging)
	if err != nil {
		return err
	}

	store, err := repository.Open(cmd.Context(), cfg.State)
	if err != nil {
		logs.Close()
		return fmt.Errorf("failed to open state store: %w", err)
	}

	var sealer *security.Sealer
	if cfg.State.EncryptionKey != "" {
		if sealer, err = security.NewSealer(cfg.State.EncryptionKey); err != nil {
			store.Close()
			logs.Close()
			return err
		}
	}

	client, err := backend.NewFromConfig(cfg.Backend)
	if err != nil {
		store.Close()
		logs.Close()
		return err
	}

	sessions := session.NewManager(client, session.NewStore(store, cfg.State.Namespace, sealer))
	client.Bind(sessions)

	cli = app{cfg: cfg, store: store, client: client, sessions: sessions, logs: logs}
	cli.initErr = sessions.Initialize(cmd.Context())
	if cli.initErr != nil {
		log.Debug().Err(cli.initErr).Msg("no usable persisted session")
	}
	return nil
}

func teardown(*cobra.Command, []string) {
	if cli.store != nil {
		cli.store.Close()
	}
	if cli.logs != nil {
		cli.logs.Close()
	}
}

// requireSession fails unless Initialize or a login produced a validated
// session. A token the backend rejected surfaces as ErrUnauthorized.
func requireSession() error {
	if cli.sessions.Snapshot().IsAuthenticated {
		return nil
	}
	if cli.initErr != nil && !errors.Is(cli.initErr, session.ErrNoToken) {
		return cli.initErr
	}
	return service.ErrNotSignedIn
}

// authed wraps a RunE so it only runs with a validated session
func authed(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		return fn(cmd, args)
	}
}
