package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/streamcatalog/internal/domain"
)

// MoviesRepository provides persistence helpers for movie entities.
type MoviesRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

const movieColumns = `
    id::text,
    title,
    slug,
    image,
    director,
    platforms::text[],
    score,
    created_at,
    updated_at
`

// MovieCreateParams bundles the client-supplied fields required to create a movie.
type MovieCreateParams struct {
	Title     string
	Image     string
	Director  string
	Platforms []string
}

// Create derives slug and timestamps, validates and inserts a new movie.
func (r *MoviesRepository) Create(ctx context.Context, params MovieCreateParams) (domain.Movie, error) {
	movie := domain.Movie{
		ID:        uuid.NewString(),
		Title:     params.Title,
		Image:     params.Image,
		Director:  params.Director,
		Platforms: params.Platforms,
	}
	domain.StampMovie(&movie, r.now(), true)
	if movie.Slug == "" && movie.Title != "" {
		return domain.Movie{}, domain.NewValidationError("title", "must contain at least one letter or digit")
	}
	return r.insert(ctx, movie)
}

// Insert persists a fully formed movie under a fresh id without re-deriving
// its slug. Both timestamps are set to now.
func (r *MoviesRepository) Insert(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	movie.ID = uuid.NewString()
	movie.CreatedAt = time.Time{}
	domain.StampMovie(&movie, r.now(), false)
	if movie.Slug == "" {
		return domain.Movie{}, domain.NewValidationError("slug", "is required")
	}
	return r.insert(ctx, movie)
}

func (r *MoviesRepository) insert(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	if err := domain.Validate(movie); err != nil {
		return domain.Movie{}, err
	}

	query := fmt.Sprintf(`
        INSERT INTO movies (id, title, slug, image, director, platforms, score, created_at, updated_at)
        VALUES ($1::uuid, $2, $3, $4, $5, $6::text[]::uuid[], $7, $8, $9)
        RETURNING %s
    `, movieColumns)

	row := r.pool.QueryRow(ctx, query,
		movie.ID, movie.Title, movie.Slug, movie.Image, movie.Director,
		movie.Platforms, movie.Score, movie.CreatedAt, movie.UpdatedAt)
	created, err := scanMovie(row)
	if err != nil {
		return domain.Movie{}, translate(err)
	}
	return created, nil
}

// GetByID fetches a movie by its identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id string) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1::uuid`, movieColumns)
	movie, err := scanMovie(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, translate(err)
	}
	return movie, nil
}

// Update merges patch into the stored movie, validates the merged result and
// writes it back. The slug is left as is even when the title changes.
func (r *MoviesRepository) Update(ctx context.Context, id string, patch domain.MoviePatch) (domain.Movie, error) {
	var updated domain.Movie
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1::uuid FOR UPDATE`, movieColumns)
		current, err := scanMovie(tx.QueryRow(ctx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		patch.Apply(&current)
		domain.StampMovie(&current, r.now(), false)
		if err := domain.Validate(current); err != nil {
			return err
		}

		update := fmt.Sprintf(`
            UPDATE movies
            SET title = $2,
                image = $3,
                director = $4,
                platforms = $5::text[]::uuid[],
                updated_at = $6
            WHERE id = $1::uuid
            RETURNING %s
        `, movieColumns)
		updated, err = scanMovie(tx.QueryRow(ctx, update,
			id, current.Title, current.Image, current.Director, current.Platforms, current.UpdatedAt))
		return err
	})
	if err != nil {
		return domain.Movie{}, translate(err)
	}
	return updated, nil
}

// Delete removes a movie. Reviews referencing it are left untouched.
func (r *MoviesRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1::uuid`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of movies in insertion order.
func (r *MoviesRepository) List(ctx context.Context, skip, limit int) ([]domain.Movie, error) {
	if skip < 0 {
		skip = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM movies ORDER BY seq ASC OFFSET $1 LIMIT $2`, movieColumns)
	rows, err := r.pool.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Movie, 0, limit)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateScore locks the movie row, reads every review score of the movie and
// stores compute's result as the new score. No other column is written, not
// even updated_at.
func (r *MoviesRepository) UpdateScore(ctx context.Context, id string, compute func(scores []float64) *float64) (domain.Movie, error) {
	var updated domain.Movie
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var locked string
		err := tx.QueryRow(ctx, `SELECT id::text FROM movies WHERE id = $1::uuid FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		scores, err := reviewScores(ctx, tx, id)
		if err != nil {
			return err
		}

		query := fmt.Sprintf(`
            UPDATE movies
            SET score = $2
            WHERE id = $1::uuid
            RETURNING %s
        `, movieColumns)
		updated, err = scanMovie(tx.QueryRow(ctx, query, id, compute(scores)))
		return err
	})
	if err != nil {
		return domain.Movie{}, err
	}
	return updated, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Slug,
		&movie.Image,
		&movie.Director,
		&movie.Platforms,
		&movie.Score,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	if movie.Platforms == nil {
		movie.Platforms = []string{}
	}
	movie.CreatedAt = movie.CreatedAt.UTC()
	movie.UpdatedAt = movie.UpdatedAt.UTC()
	return movie, nil
}
