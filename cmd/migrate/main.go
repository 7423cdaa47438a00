package main

import (
	"database/sql"
	"fmt"
	"os"

	"fitfinder-backend/config"
	"fitfinder-backend/internal/domain/user"
	"fitfinder-backend/internal/repository"
	"fitfinder-backend/internal/services"
	"fitfinder-backend/pkg/database"
	"fitfinder-backend/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type runtime struct {
	cfg *config.Config
	db  *sql.DB
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}

	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "FitFinder database CLI",
		Long: `migrate manages the FitFinder Postgres schema.

Migrations are embedded in the binary and applied in file name order.
Configuration is read from .env and the environment, as for the API.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			rt.cfg = cfg
			rt.log = logger.New(logger.DevelopmentMode)

			db, err := database.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			rt.db = db
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.db != nil {
				_ = rt.db.Close()
			}
			if rt.log != nil {
				rt.log.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newUpCmd(rt))
	rootCmd.AddCommand(newStatusCmd(rt))
	rootCmd.AddCommand(newSeedAdminCmd(rt))
	return rootCmd
}

func newUpCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.ApplyMigrations(cmd.Context(), rt.db, rt.log); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully")
			return nil
		},
	}
}

func newStatusCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations and row counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			states, err := database.Status(ctx, rt.db)
			if err != nil {
				return err
			}
			for _, st := range states {
				if st.AppliedAt == nil {
					fmt.Fprintf(out, "%-32s pending\n", st.Version)
					continue
				}
				fmt.Fprintf(out, "%-32s applied %s\n", st.Version, st.AppliedAt.Format("2006-01-02 15:04:05"))
			}

			for _, table := range []string{"users", "places"} {
				count, err := database.TableCount(ctx, rt.db, table)
				if err != nil {
					fmt.Fprintf(out, "%-32s unavailable (%v)\n", table, err)
					continue
				}
				fmt.Fprintf(out, "%-32s %d rows\n", table, count)
			}
			return nil
		},
	}
}

func newSeedAdminCmd(rt *runtime) *cobra.Command {
	in := services.RegisterInput{Gender: user.GenderMale, Age: 30}
	var gender string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an admin account if the username is free",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Gender = user.Gender(gender)
			tokens, err := services.NewTokenIssuer(rt.cfg.SecretKey, rt.cfg.JWTAlgorithm, rt.cfg.AccessTokenTTL(), nil)
			if err != nil {
				return err
			}
			auth := services.NewAuthService(repository.NewUserRepository(rt.db), tokens)

			admin, created, err := auth.EnsureAdmin(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "User %q already exists (role %s), nothing to do\n", admin.Username, admin.Role)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %q with id %d\n", admin.Username, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", "admin", "Admin username")
	cmd.Flags().StringVar(&in.Email, "email", "", "Admin email (required)")
	cmd.Flags().StringVar(&in.Password, "password", os.Getenv("ADMIN_PASSWORD"), "Admin password (env: ADMIN_PASSWORD)")
	cmd.Flags().IntVar(&in.Age, "age", in.Age, "Admin age")
	cmd.Flags().StringVar(&gender, "gender", string(user.GenderMale), "Admin gender: Male or Female")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
