package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpx "github.com/Spok95/warehouse-ops/internal/infra/http"
	"github.com/Spok95/warehouse-ops/internal/infra/migrations"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "warehouse-ops",
		Short:         "Warehouse operations back end",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/example.yaml", "Config file path (YAML)")

	cmd.AddCommand(
		serveCmd(&configPath),
		migrateCmd(&configPath),
		exportCmd(&configPath),
		alertsCmd(&configPath),
		historyCmd(&configPath),
		usersCmd(&configPath),
	)
	return cmd
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and run the HTTP server (health, readiness, dashboard, metrics)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := migrations.Up(ctx, cfg.Postgres.DSN, log); err != nil {
				log.Error("migrations failed", "err", err)
				return err
			}

			a, err := open(ctx, cfg, log)
			if err != nil {
				log.Error("db connect failed", "err", err)
				return err
			}
			defer a.close()

			srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, a.pool, a.dashboard, log)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server error", "err", err)
					stop()
				}
			}()
			log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
			log.Info("graceful shutdown complete")
			return nil
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, log, err := loadConfig(*configPath)
				if err != nil {
					return err
				}
				return migrations.Up(cmd.Context(), cfg.Postgres.DSN, log)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, log, err := loadConfig(*configPath)
				if err != nil {
					return err
				}
				if err := migrations.Down(cmd.Context(), cfg.Postgres.DSN); err != nil {
					return err
				}
				log.Info("migration rolled back")
				return nil
			},
		},
	)
	return cmd
}
