// Package catalog wires the entity store, the score aggregator and the review
// view cache into the operations the HTTP layer and CLI expose.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Clark-Hu/streamcatalog/internal/cache"
	"github.com/Clark-Hu/streamcatalog/internal/domain"
	"github.com/Clark-Hu/streamcatalog/internal/repository"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// MovieStore persists movies.
type MovieStore interface {
	Create(ctx context.Context, params repository.MovieCreateParams) (domain.Movie, error)
	Insert(ctx context.Context, movie domain.Movie) (domain.Movie, error)
	GetByID(ctx context.Context, id string) (domain.Movie, error)
	Update(ctx context.Context, id string, patch domain.MoviePatch) (domain.Movie, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, skip, limit int) ([]domain.Movie, error)
}

// PlatformStore persists platforms.
type PlatformStore interface {
	Create(ctx context.Context, params repository.PlatformCreateParams) (domain.Platform, error)
}

// ReviewStore persists reviews and reads the review/platform join.
type ReviewStore interface {
	Create(ctx context.Context, params repository.ReviewCreateParams) (domain.Review, error)
	ListByMovieWithPlatforms(ctx context.Context, movieID string) ([]domain.PlatformReview, error)
}

// ScoreRecomputer refreshes a movie's derived score.
type ScoreRecomputer interface {
	Recompute(ctx context.Context, movieID string) (domain.Movie, error)
}

// ViewCache caches grouped review views per movie. Slot names the entry a
// view loaded from now on belongs to; an empty slot disables Get and Set.
type ViewCache interface {
	Slot(ctx context.Context, movieID string) (string, error)
	Get(ctx context.Context, slot string) (domain.ReviewsByPlatform, bool, error)
	Set(ctx context.Context, slot string, view domain.ReviewsByPlatform) error
	Invalidate(ctx context.Context, movieID string) error
	InvalidateAll(ctx context.Context) error
}

// Deps groups the collaborators of Service.
type Deps struct {
	Movies    MovieStore
	Platforms PlatformStore
	Reviews   ReviewStore
	Scores    ScoreRecomputer
	Cache     ViewCache
	Logger    *slog.Logger
}

// Service implements the catalog operations.
type Service struct {
	movies    MovieStore
	platforms PlatformStore
	reviews   ReviewStore
	scores    ScoreRecomputer
	cache     ViewCache
	logger    *slog.Logger
}

// NewService builds a Service. A nil cache disables caching.
func NewService(deps Deps) *Service {
	svc := &Service{
		movies:    deps.Movies,
		platforms: deps.Platforms,
		reviews:   deps.Reviews,
		scores:    deps.Scores,
		cache:     deps.Cache,
		logger:    deps.Logger,
	}
	if svc.cache == nil {
		svc.cache = cache.Noop{}
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// Page is one slice of the movie listing together with the paging values
// that produced it.
type Page struct {
	Data    []domain.Movie `json:"data"`
	Skip    int            `json:"skip"`
	PerPage int            `json:"perPage"`
	Page    int            `json:"page"`
}

// MovieDetail is a movie with its reviews grouped by platform title.
type MovieDetail struct {
	Movie   domain.Movie             `json:"movie"`
	Reviews domain.ReviewsByPlatform `json:"reviews"`
}

// NormalizePaging applies the listing defaults and bounds.
func NormalizePaging(page, perPage int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// CreateMovie stores a new movie with a slug derived from its title.
func (s *Service) CreateMovie(ctx context.Context, params repository.MovieCreateParams) (domain.Movie, error) {
	movie, err := s.movies.Create(ctx, params)
	if err != nil {
		return domain.Movie{}, err
	}
	s.logger.InfoContext(ctx, "movie created",
		slog.String("movie_id", movie.ID),
		slog.String("slug", movie.Slug))
	return movie, nil
}

// ListMovies returns a page of movies in insertion order.
func (s *Service) ListMovies(ctx context.Context, page, perPage int) (Page, error) {
	page, perPage = NormalizePaging(page, perPage)
	skip := (page - 1) * perPage
	movies, err := s.movies.List(ctx, skip, perPage)
	if err != nil {
		return Page{}, fmt.Errorf("list movies: %w", err)
	}
	return Page{Data: movies, Skip: skip, PerPage: perPage, Page: page}, nil
}

// GetMovieDetail returns the movie and its reviews grouped by platform title.
func (s *Service) GetMovieDetail(ctx context.Context, id string) (MovieDetail, error) {
	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return MovieDetail{}, err
	}

	// The slot is fixed before the join is read so that an invalidation
	// racing with this load orphans the write below.
	slot, err := s.cache.Slot(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "review view cache slot lookup failed",
			slog.String("movie_id", id), slog.Any("error", err))
		slot = ""
	}
	if slot != "" {
		if view, ok, err := s.cache.Get(ctx, slot); err != nil {
			s.logger.WarnContext(ctx, "review view cache read failed",
				slog.String("movie_id", id), slog.Any("error", err))
		} else if ok {
			return MovieDetail{Movie: movie, Reviews: view}, nil
		}
	}

	rows, err := s.reviews.ListByMovieWithPlatforms(ctx, id)
	if err != nil {
		return MovieDetail{}, fmt.Errorf("load reviews of movie %s: %w", id, err)
	}
	view := GroupByPlatform(rows)

	if slot != "" {
		if err := s.cache.Set(ctx, slot, view); err != nil {
			s.logger.WarnContext(ctx, "review view cache write failed",
				slog.String("movie_id", id), slog.Any("error", err))
		}
	}
	return MovieDetail{Movie: movie, Reviews: view}, nil
}

// UpdateMovie applies a partial update. The slug is kept.
func (s *Service) UpdateMovie(ctx context.Context, id string, patch domain.MoviePatch) (domain.Movie, error) {
	return s.movies.Update(ctx, id, patch)
}

// DeleteMovie removes a movie. Its reviews stay in the store.
func (s *Service) DeleteMovie(ctx context.Context, id string) error {
	if err := s.movies.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.logger.InfoContext(ctx, "movie deleted", slog.String("movie_id", id))
	return nil
}

// DuplicateMovie stores a copy of a movie under a new id. Title, slug, image,
// director and score are copied as is; platforms start empty and the store
// assigns fresh timestamps. Reviews are not copied.
func (s *Service) DuplicateMovie(ctx context.Context, id string) (domain.Movie, error) {
	source, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return domain.Movie{}, err
	}

	dup := domain.Movie{
		Title:     source.Title,
		Slug:      source.Slug,
		Image:     source.Image,
		Director:  source.Director,
		Platforms: []string{},
	}
	if source.Score != nil {
		score := *source.Score
		dup.Score = &score
	}

	created, err := s.movies.Insert(ctx, dup)
	if err != nil {
		return domain.Movie{}, err
	}
	s.logger.InfoContext(ctx, "movie duplicated",
		slog.String("source_id", id),
		slog.String("movie_id", created.ID))
	return created, nil
}

// CreatePlatform stores a platform. Cached views are dropped because reviews
// that referenced the new id may now join to it.
func (s *Service) CreatePlatform(ctx context.Context, params repository.PlatformCreateParams) (domain.Platform, error) {
	platform, err := s.platforms.Create(ctx, params)
	if err != nil {
		return domain.Platform{}, err
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.WarnContext(ctx, "review view cache flush failed", slog.Any("error", err))
	}
	return platform, nil
}

// CreateReview stores a review and recomputes the score of its movie. When
// the recompute fails the review remains stored and a *ScoreRecomputeError is
// returned.
func (s *Service) CreateReview(ctx context.Context, params repository.ReviewCreateParams) (domain.Review, error) {
	review, err := s.reviews.Create(ctx, params)
	if err != nil {
		return domain.Review{}, err
	}
	s.invalidate(ctx, review.Movie)

	if _, err := s.scores.Recompute(ctx, review.Movie); err != nil {
		s.logger.ErrorContext(ctx, "score recompute after review failed",
			slog.String("review_id", review.ID),
			slog.String("movie_id", review.Movie),
			slog.Any("error", err))
		return domain.Review{}, &ScoreRecomputeError{ReviewID: review.ID, MovieID: review.Movie, Cause: err}
	}
	return review, nil
}

// RecomputeScore re-runs the score aggregation for one movie.
func (s *Service) RecomputeScore(ctx context.Context, movieID string) (domain.Movie, error) {
	return s.scores.Recompute(ctx, movieID)
}

func (s *Service) invalidate(ctx context.Context, movieID string) {
	if err := s.cache.Invalidate(ctx, movieID); err != nil {
		s.logger.WarnContext(ctx, "review view cache invalidation failed",
			slog.String("movie_id", movieID), slog.Any("error", err))
	}
}
