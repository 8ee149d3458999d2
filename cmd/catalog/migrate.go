package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/streamcatalog/internal/config"
	"github.com/Clark-Hu/streamcatalog/internal/store"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(_ config.Config, _ *slog.Logger, st *store.Store) error {
				if err := st.Migrate(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
				return nil
			})
		},
	}
}
