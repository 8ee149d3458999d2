package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/streamcatalog/internal/catalog"
	"github.com/Clark-Hu/streamcatalog/internal/config"
	"github.com/Clark-Hu/streamcatalog/internal/domain"
	"github.com/Clark-Hu/streamcatalog/internal/store"
)

func newMoviesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movies",
		Short: "Inspect catalog movies",
	}
	cmd.AddCommand(newMoviesListCommand(ctx))
	return cmd
}

func newMoviesListCommand(ctx *commandContext) *cobra.Command {
	var page, perPage int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List movies in insertion order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(cfg config.Config, logger *slog.Logger, st *store.Store) error {
				svc, cleanup := newService(cmd.Context(), cfg, logger, st)
				defer cleanup()

				result, err := svc.ListMovies(cmd.Context(), page, perPage)
				if err != nil {
					return err
				}
				if len(result.Data) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No movies")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), renderMovies(result))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", catalog.DefaultPage, "Page number, starting at 1")
	cmd.Flags().IntVar(&perPage, "per-page", catalog.DefaultPerPage, "Movies per page")
	return cmd
}

func renderMovies(result catalog.Page) string {
	rows := make([][]string, 0, len(result.Data))
	for _, movie := range result.Data {
		rows = append(rows, []string{
			movie.ID,
			movie.Title,
			movie.Slug,
			movie.Director,
			formatScore(movie),
			strconv.Itoa(len(movie.Platforms)),
		})
	}
	table := renderTable(
		[]string{"ID", "Title", "Slug", "Director", "Score", "Platforms"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	)
	return fmt.Sprintf("%s\nPage %d (skip %d, %d per page)\n", table, result.Page, result.Skip, result.PerPage)
}

func formatScore(movie domain.Movie) string {
	if movie.Score == nil {
		return "-"
	}
	return strconv.FormatFloat(*movie.Score, 'f', 2, 64)
}
