package main

import (
	"github.com/spf13/cobra"
)

// envFile is the optional dotenv file loaded before the environment.
var envFile string

// NewRootCmd creates the root command for the skillswap CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skillswap",
		Short: "SkillSwap skill exchange API",
		Long: `SkillSwap serves user and admin registration, JWT login and refresh,
and the skill profiles users publish to find swap partners.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file read before the environment")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewAdminCmd())

	return cmd
}
