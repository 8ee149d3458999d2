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

// ReviewsRepository provides helpers for movie reviews.
type ReviewsRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

const reviewColumns = `
    r.id::text,
    r.movie_id::text,
    r.platforms::text[],
    r.author,
    r.body,
    r.score,
    r.created_at,
    r.updated_at
`

// ReviewCreateParams captures the payload required to create a review.
type ReviewCreateParams struct {
	MovieID   string
	Platforms []string
	Author    string
	Body      string
	Score     float64
}

// Create inserts a review. The referenced movie must exist at this point;
// the check and the insert are a single statement.
func (r *ReviewsRepository) Create(ctx context.Context, params ReviewCreateParams) (domain.Review, error) {
	review := domain.Review{
		ID:        uuid.NewString(),
		Movie:     params.MovieID,
		Platforms: params.Platforms,
		Author:    params.Author,
		Body:      params.Body,
		Score:     params.Score,
	}
	domain.StampReview(&review, r.now())
	if err := domain.Validate(review); err != nil {
		return domain.Review{}, err
	}

	query := fmt.Sprintf(`
        WITH r AS (
            INSERT INTO reviews (id, movie_id, platforms, author, body, score, created_at, updated_at)
            SELECT $1::uuid, m.id, $3::text[]::uuid[], $4, $5, $6, $7, $8
            FROM movies m
            WHERE m.id = $2::uuid
            RETURNING *
        )
        SELECT %s FROM r
    `, reviewColumns)

	created, err := scanReview(r.pool.QueryRow(ctx, query,
		review.ID, review.Movie, review.Platforms, review.Author, review.Body, review.Score,
		review.CreatedAt, review.UpdatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, domain.NewValidationError("movie", "does not reference an existing movie")
		}
		return domain.Review{}, translate(err)
	}
	return created, nil
}

// ListScores returns the score of every review of a movie, without limit.
func (r *ReviewsRepository) ListScores(ctx context.Context, movieID string) ([]float64, error) {
	return reviewScores(ctx, r.pool, movieID)
}

// ListByMovieWithPlatforms joins the reviews of a movie with the platforms
// they reference: one row per (review, referenced platform) pair. Reviews
// without platforms, or whose platforms no longer exist, yield no rows.
func (r *ReviewsRepository) ListByMovieWithPlatforms(ctx context.Context, movieID string) ([]domain.PlatformReview, error) {
	query := fmt.Sprintf(`
        SELECT %s,
               p.id::text, p.icon, p.title, p.created_at, p.updated_at
        FROM reviews r
        JOIN platforms p ON p.id = ANY(r.platforms)
        WHERE r.movie_id = $1::uuid
        ORDER BY r.seq ASC, p.seq ASC
    `, reviewColumns)

	rows, err := r.pool.Query(ctx, query, movieID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]domain.PlatformReview, 0)
	for rows.Next() {
		var pr domain.PlatformReview
		err := rows.Scan(
			&pr.ID, &pr.Movie, &pr.Platforms, &pr.Author, &pr.Body, &pr.Score, &pr.CreatedAt, &pr.UpdatedAt,
			&pr.PlatformInfo.ID, &pr.PlatformInfo.Icon, &pr.PlatformInfo.Title,
			&pr.PlatformInfo.CreatedAt, &pr.PlatformInfo.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		normalizeReview(&pr.Review)
		pr.PlatformInfo.CreatedAt = pr.PlatformInfo.CreatedAt.UTC()
		pr.PlatformInfo.UpdatedAt = pr.PlatformInfo.UpdatedAt.UTC()
		out = append(out, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func reviewScores(ctx context.Context, q querier, movieID string) ([]float64, error) {
	rows, err := q.Query(ctx, `SELECT score FROM reviews WHERE movie_id = $1::uuid ORDER BY seq ASC`, movieID)
	if err != nil {
		return nil, fmt.Errorf("list review scores: %w", err)
	}
	scores, err := pgx.CollectRows(rows, pgx.RowTo[float64])
	if err != nil {
		return nil, fmt.Errorf("list review scores: %w", err)
	}
	return scores, nil
}

func scanReview(row pgx.Row) (domain.Review, error) {
	var rv domain.Review
	err := row.Scan(&rv.ID, &rv.Movie, &rv.Platforms, &rv.Author, &rv.Body, &rv.Score, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return domain.Review{}, err
	}
	normalizeReview(&rv)
	return rv, nil
}

func normalizeReview(rv *domain.Review) {
	if rv.Platforms == nil {
		rv.Platforms = []string{}
	}
	rv.CreatedAt = rv.CreatedAt.UTC()
	rv.UpdatedAt = rv.UpdatedAt.UTC()
}
