// Package scoring derives a movie's score from the reviews that reference it.
package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/Clark-Hu/streamcatalog/internal/domain"
)

// Average returns the arithmetic mean of scores rounded half-up to two
// decimals, or nil when there are no scores. Rounding happens once, on the
// final mean.
func Average(scores []float64) *float64 {
	if len(scores) == 0 {
		return nil
	}
	var total float64
	for _, s := range scores {
		total += s
	}
	avg := Round2(total / float64(len(scores)))
	return &avg
}

// Round2 rounds value half-up to two decimal places.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// ScoreWriter persists a recomputed score. Implementations read every review
// score of the movie and write compute's result while holding the movie row,
// so concurrent recomputes for the same movie are serialized.
type ScoreWriter interface {
	UpdateScore(ctx context.Context, movieID string, compute func(scores []float64) *float64) (domain.Movie, error)
}

// Aggregator keeps Movie.score in line with the movie's reviews.
type Aggregator struct {
	writer ScoreWriter
	logger *slog.Logger
}

// NewAggregator builds an Aggregator writing through w.
func NewAggregator(w ScoreWriter, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{writer: w, logger: logger}
}

// Recompute re-reads all reviews of movieID and stores their average on the
// movie. It is idempotent.
func (a *Aggregator) Recompute(ctx context.Context, movieID string) (domain.Movie, error) {
	movie, err := a.writer.UpdateScore(ctx, movieID, Average)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("recompute score for movie %s: %w", movieID, err)
	}
	a.logger.DebugContext(ctx, "movie score recomputed",
		slog.String("movie_id", movieID),
		slog.Any("score", movie.Score))
	return movie, nil
}
