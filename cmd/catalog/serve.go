package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/streamcatalog/internal/config"
	httpserver "github.com/Clark-Hu/streamcatalog/internal/http"
	"github.com/Clark-Hu/streamcatalog/internal/store"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return ctx.withStore(sigCtx, func(cfg config.Config, logger *slog.Logger, st *store.Store) error {
				if migrate {
					if err := st.Migrate(sigCtx); err != nil {
						return err
					}
				}

				svc, cleanup := newService(sigCtx, cfg, logger, st)
				defer cleanup()

				server := httpserver.New(cfg, st, svc, logger)
				err := server.Start(sigCtx)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil && !errors.Is(shutdownErr, http.ErrServerClosed) {
					logger.Error("graceful shutdown error", slog.Any("error", shutdownErr))
				}
				if stats := st.Stats(); stats != nil {
					logger.Info("store: pool stats at shutdown",
						slog.Int("total_conns", int(stats.TotalConns())),
						slog.Int64("acquire_count", stats.AcquireCount()))
				}

				if err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply migrations before serving")
	return cmd
}
