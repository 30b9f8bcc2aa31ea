package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/imoveis/catalog/config"
	"github.com/imoveis/catalog/internal/core/auth"
	"github.com/imoveis/catalog/internal/storage/postgres"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		email    string
		password string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "init-admin",
		Short: "Create the admin account, or reset its password",
		Long: `Creates an admin account for the listing panel. When the email is already
registered the password is reset and the account re-enabled.

Email and password default to ADMIN_EMAIL and ADMIN_PASSWORD.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if email == "" {
				email = cfg.Admin.Email
			}
			if password == "" {
				password = cfg.Admin.Password
			}
			if name == "" {
				name = cfg.Admin.Name
			}
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password (or ADMIN_EMAIL and ADMIN_PASSWORD) are required")
			}
			return run(cmd, cfg, email, password, name)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (at least 8 characters)")
	cmd.Flags().StringVar(&name, "name", "", "display name (default ADMIN_NAME or Administrador)")

	return cmd
}

func run(cmd *cobra.Command, cfg *config.Config, email, password, name string) error {
	if !cfg.Database.Enabled() {
		return fmt.Errorf("DATABASE_HOST is not set; admin accounts need a database")
	}

	db, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	svc := auth.NewService(auth.NewRepository(db), &cfg.JWT, &cfg.Auth)
	created, err := svc.EnsureAdmin(ctx, email, password, name)
	if err != nil {
		return fmt.Errorf("failed to set up admin %s: %w", email, err)
	}

	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Created admin user: %s\n", email)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Admin user %s already existed; password reset\n", email)
	}
	return nil
}
