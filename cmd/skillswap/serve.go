package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skillswap/skillswap-api/internal/api"
	"github.com/skillswap/skillswap-api/internal/core/ports"
	"github.com/skillswap/skillswap-api/internal/core/service"
	"github.com/skillswap/skillswap-api/internal/infrastructure/config"
	pgstore "github.com/skillswap/skillswap-api/internal/infrastructure/db/postgres"
	"github.com/skillswap/skillswap-api/internal/infrastructure/security"
	"github.com/skillswap/skillswap-api/pkg/logger"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var migrateFirst bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, migrateFirst)
		},
	}
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply pending postgres migrations before serving")

	return cmd
}

func runServe(cmd *cobra.Command, migrateFirst bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, envFile)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "skillswap",
	})

	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	}, nil)
	if err != nil {
		return err
	}

	if migrateFirst && cfg.StoreDriver == config.DriverPostgres {
		if err := migrateUp(cfg.Postgres.DSN); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
	}

	be, err := openBackend(ctx, cfg, true, logger.Component("store"))
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}
	defer be.Close()

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	authFor := func(store ports.CredentialStore) *service.AuthService {
		return service.NewAuthService(service.AuthDeps{
			Store:       store,
			Hasher:      hasher,
			Tokens:      tokens,
			Limiter:     be.limiter,
			MaxFailures: cfg.Auth.MaxLoginFailures,
			Logger:      logger.Component("auth"),
		})
	}
	resolver := service.NewIdentityResolver(be.users, be.admins)

	e := api.NewRouter(api.Dependencies{
		Users:                 authFor(be.users),
		Admins:                authFor(be.admins),
		Refresh:               service.NewRefreshService(tokens, resolver, logger.Component("refresh")),
		Resolver:              resolver,
		Profiles:              service.NewProfileService(be.profiles, resolver, logger.Component("profiles")),
		Tokens:                tokens,
		Health:                be.health,
		AdminRegistrationOpen: cfg.Auth.AdminRegistrationOpen,
		Logger:                logger.Component("http"),
	})

	addr := ":" + cfg.Port
	log.Info().
		Str("addr", addr).
		Str("store", cfg.StoreDriver).
		Bool("redis", cfg.Redis.Enabled).
		Msg("server starting")

	if err := api.Serve(ctx, e, addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func migrateUp(dsn string) error {
	m, err := pgstore.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
