package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Clark-Hu/streamcatalog/internal/config"
	"github.com/Clark-Hu/streamcatalog/internal/repository"
	"github.com/Clark-Hu/streamcatalog/internal/store"
)

func newRecomputeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute <movie-id>",
		Short: "Recompute a movie's score from its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid movie id %q", args[0])
			}
			return ctx.withStore(cmd.Context(), func(cfg config.Config, logger *slog.Logger, st *store.Store) error {
				svc, cleanup := newService(cmd.Context(), cfg, logger, st)
				defer cleanup()

				movie, err := svc.RecomputeScore(cmd.Context(), id.String())
				if repository.IsNotFound(err) {
					return fmt.Errorf("movie %s not found", id)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  score=%s\n", movie.ID, movie.Title, formatScore(movie))
				return nil
			})
		},
	}
}
