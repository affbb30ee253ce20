package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
	"github.com/skillswap/skillswap-api/internal/core/service"
	"github.com/skillswap/skillswap-api/internal/infrastructure/config"
	"github.com/skillswap/skillswap-api/internal/infrastructure/security"
	"github.com/skillswap/skillswap-api/pkg/logger"
)

// NewAdminCmd creates the admin subcommand.
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer principals",
	}
	cmd.AddCommand(newAdminCreateCmd())
	return cmd
}

// newAdminCreateCmd bootstraps an admin directly in the store, which is the
// only way to get the first admin when ADMIN_REGISTRATION_OPEN=false.
func newAdminCreateCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx, envFile)
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), Service: "skillswap"})

			tokens, err := service.NewTokenService(service.TokenConfig{
				Secret:     []byte(cfg.JWT.Secret),
				Issuer:     cfg.JWT.Issuer,
				AccessTTL:  cfg.JWT.AccessTTL,
				RefreshTTL: cfg.JWT.RefreshTTL,
			}, nil)
			if err != nil {
				return err
			}

			be, err := openBackend(ctx, cfg, false, log)
			if err != nil {
				return err
			}
			defer be.Close()

			admins := service.NewAuthService(service.AuthDeps{
				Store:  be.admins,
				Hasher: security.NewBcryptHasher(cfg.Auth.BcryptCost),
				Tokens: tokens,
				Logger: log,
			})

			created, err := admins.Register(ctx, ports.RegisterInput{
				Username: username,
				Password: password,
				Role:     string(domain.RoleAdmin),
			})
			if errors.Is(err, domain.ErrAlreadyExists) {
				return errors.New("admin create: username is already taken")
			}
			if err != nil {
				return err
			}

			cmd.Printf("created admin %s (id %s)\n", created.Username, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
