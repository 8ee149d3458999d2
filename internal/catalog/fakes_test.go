package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Clark-Hu/streamcatalog/internal/domain"
	"github.com/Clark-Hu/streamcatalog/internal/repository"
)

// memDB is an in-memory stand-in for the PostgreSQL store. It does not
// enforce slug uniqueness.
type memDB struct {
	mu        sync.Mutex
	now       time.Time
	movies    []domain.Movie
	platforms []domain.Platform
	reviews   []domain.Review
}

func newMemDB() *memDB {
	return &memDB{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (db *memDB) tick() time.Time {
	db.now = db.now.Add(time.Second)
	return db.now
}

type memMovies struct{ db *memDB }
type memPlatforms struct{ db *memDB }
type memReviews struct{ db *memDB }

func (m memMovies) Create(_ context.Context, params repository.MovieCreateParams) (domain.Movie, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	movie := domain.Movie{
		ID:        uuid.NewString(),
		Title:     params.Title,
		Image:     params.Image,
		Director:  params.Director,
		Platforms: params.Platforms,
	}
	domain.StampMovie(&movie, m.db.tick(), true)
	if err := domain.Validate(movie); err != nil {
		return domain.Movie{}, err
	}
	m.db.movies = append(m.db.movies, movie)
	return movie, nil
}

func (m memMovies) Insert(_ context.Context, movie domain.Movie) (domain.Movie, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	movie.ID = uuid.NewString()
	movie.CreatedAt = time.Time{}
	domain.StampMovie(&movie, m.db.tick(), false)
	if err := domain.Validate(movie); err != nil {
		return domain.Movie{}, err
	}
	m.db.movies = append(m.db.movies, movie)
	return movie, nil
}

func (m memMovies) GetByID(_ context.Context, id string) (domain.Movie, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, movie := range m.db.movies {
		if movie.ID == id {
			return movie, nil
		}
	}
	return domain.Movie{}, domain.ErrNotFound
}

func (m memMovies) Update(_ context.Context, id string, patch domain.MoviePatch) (domain.Movie, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for i, movie := range m.db.movies {
		if movie.ID != id {
			continue
		}
		patch.Apply(&movie)
		domain.StampMovie(&movie, m.db.tick(), false)
		if err := domain.Validate(movie); err != nil {
			return domain.Movie{}, err
		}
		m.db.movies[i] = movie
		return movie, nil
	}
	return domain.Movie{}, domain.ErrNotFound
}

func (m memMovies) Delete(_ context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for i, movie := range m.db.movies {
		if movie.ID == id {
			m.db.movies = append(m.db.movies[:i], m.db.movies[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m memMovies) List(_ context.Context, skip, limit int) ([]domain.Movie, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if skip >= len(m.db.movies) {
		return []domain.Movie{}, nil
	}
	end := skip + limit
	if end > len(m.db.movies) {
		end = len(m.db.movies)
	}
	return append([]domain.Movie{}, m.db.movies[skip:end]...), nil
}

func (m memMovies) UpdateScore(_ context.Context, id string, compute func([]float64) *float64) (domain.Movie, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for i, movie := range m.db.movies {
		if movie.ID != id {
			continue
		}
		var scores []float64
		for _, r := range m.db.reviews {
			if r.Movie == id {
				scores = append(scores, r.Score)
			}
		}
		movie.Score = compute(scores)
		m.db.movies[i] = movie
		return movie, nil
	}
	return domain.Movie{}, domain.ErrNotFound
}

func (p memPlatforms) Create(_ context.Context, params repository.PlatformCreateParams) (domain.Platform, error) {
	p.db.mu.Lock()
	defer p.db.mu.Unlock()
	platform := domain.Platform{ID: uuid.NewString(), Icon: params.Icon, Title: params.Title}
	domain.StampPlatform(&platform, p.db.tick())
	if err := domain.Validate(platform); err != nil {
		return domain.Platform{}, err
	}
	p.db.platforms = append(p.db.platforms, platform)
	return platform, nil
}

func (r memReviews) Create(_ context.Context, params repository.ReviewCreateParams) (domain.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	exists := false
	for _, movie := range r.db.movies {
		if movie.ID == params.MovieID {
			exists = true
			break
		}
	}
	if !exists {
		return domain.Review{}, domain.NewValidationError("movie", "does not reference an existing movie")
	}
	review := domain.Review{
		ID:        uuid.NewString(),
		Movie:     params.MovieID,
		Platforms: params.Platforms,
		Author:    params.Author,
		Body:      params.Body,
		Score:     params.Score,
	}
	domain.StampReview(&review, r.db.tick())
	r.db.reviews = append(r.db.reviews, review)
	return review, nil
}

func (r memReviews) ListByMovieWithPlatforms(_ context.Context, movieID string) ([]domain.PlatformReview, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var rows []domain.PlatformReview
	for _, review := range r.db.reviews {
		if review.Movie != movieID {
			continue
		}
		for _, platform := range r.db.platforms {
			for _, ref := range review.Platforms {
				if ref == platform.ID {
					rows = append(rows, domain.PlatformReview{Review: review, PlatformInfo: platform})
					break
				}
			}
		}
	}
	return rows, nil
}

// recordingCache is a map-backed ViewCache that counts its calls. Slots carry
// a generation and a per-movie version like the Redis implementation.
type recordingCache struct {
	mu          sync.Mutex
	views       map[string]domain.ReviewsByPlatform
	versions    map[string]int
	gen         int
	hits        int
	invalidated []string
	flushes     int
	failReads   bool
}

func newRecordingCache() *recordingCache {
	return &recordingCache{
		views:    make(map[string]domain.ReviewsByPlatform),
		versions: make(map[string]int),
	}
}

func (c *recordingCache) Slot(_ context.Context, movieID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failReads {
		return "", errors.New("cache down")
	}
	return fmt.Sprintf("%d:%s:%d", c.gen, movieID, c.versions[movieID]), nil
}

func (c *recordingCache) Get(_ context.Context, slot string) (domain.ReviewsByPlatform, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	view, ok := c.views[slot]
	if ok {
		c.hits++
	}
	return view, ok, nil
}

func (c *recordingCache) Set(_ context.Context, slot string, view domain.ReviewsByPlatform) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[slot] = view
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, movieID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[movieID]++
	c.invalidated = append(c.invalidated, movieID)
	return nil
}

func (c *recordingCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views = make(map[string]domain.ReviewsByPlatform)
	c.gen++
	c.flushes++
	return nil
}

// interleavingReviews runs hook once, after the join rows were read and before
// they are returned, to land a write in the middle of a detail load.
type interleavingReviews struct {
	memReviews
	once sync.Once
	hook func()
}

func (r *interleavingReviews) ListByMovieWithPlatforms(ctx context.Context, movieID string) ([]domain.PlatformReview, error) {
	rows, err := r.memReviews.ListByMovieWithPlatforms(ctx, movieID)
	if r.hook != nil {
		r.once.Do(r.hook)
	}
	return rows, err
}

// failingScores always fails to recompute.
type failingScores struct{}

func (failingScores) Recompute(context.Context, string) (domain.Movie, error) {
	return domain.Movie{}, errors.New("store unavailable")
}

// deletingWriter removes the movie before updating its score, as a concurrent
// delete landing between review insert and recompute would.
type deletingWriter struct{ db *memDB }

func (w deletingWriter) UpdateScore(ctx context.Context, id string, compute func([]float64) *float64) (domain.Movie, error) {
	if err := (memMovies{w.db}).Delete(ctx, id); err != nil {
		return domain.Movie{}, err
	}
	return memMovies{w.db}.UpdateScore(ctx, id, compute)
}
