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

// PlatformsRepository provides persistence helpers for streaming platforms.
type PlatformsRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

const platformColumns = `id::text, icon, title, created_at, updated_at`

// PlatformCreateParams captures the payload required to create a platform.
type PlatformCreateParams struct {
	Icon  string
	Title string
}

// Create inserts a platform. A title already in use yields a ValidationError.
func (r *PlatformsRepository) Create(ctx context.Context, params PlatformCreateParams) (domain.Platform, error) {
	platform := domain.Platform{
		ID:    uuid.NewString(),
		Icon:  params.Icon,
		Title: params.Title,
	}
	domain.StampPlatform(&platform, r.now())
	if err := domain.Validate(platform); err != nil {
		return domain.Platform{}, err
	}

	query := fmt.Sprintf(`
        INSERT INTO platforms (id, icon, title, created_at, updated_at)
        VALUES ($1::uuid, $2, $3, $4, $5)
        RETURNING %s
    `, platformColumns)
	created, err := scanPlatform(r.pool.QueryRow(ctx, query,
		platform.ID, platform.Icon, platform.Title, platform.CreatedAt, platform.UpdatedAt))
	if err != nil {
		return domain.Platform{}, translate(err)
	}
	return created, nil
}

// GetByID fetches a platform by its identifier.
func (r *PlatformsRepository) GetByID(ctx context.Context, id string) (domain.Platform, error) {
	query := fmt.Sprintf(`SELECT %s FROM platforms WHERE id = $1::uuid`, platformColumns)
	platform, err := scanPlatform(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Platform{}, ErrNotFound
		}
		return domain.Platform{}, translate(err)
	}
	return platform, nil
}

func scanPlatform(row pgx.Row) (domain.Platform, error) {
	var p domain.Platform
	if err := row.Scan(&p.ID, &p.Icon, &p.Title, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Platform{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}
