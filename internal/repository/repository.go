package repository

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/streamcatalog/internal/domain"
	"github.com/Clark-Hu/streamcatalog/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = domain.ErrNotFound

// Repository aggregates all entity repositories.
type Repository struct {
	Movies    *MoviesRepository
	Platforms *PlatformsRepository
	Reviews   *ReviewsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Movies:    &MoviesRepository{pool: pool, now: utcNow},
		Platforms: &PlatformsRepository{pool: pool, now: utcNow},
		Reviews:   &ReviewsRepository{pool: pool, now: utcNow},
	}
}

func utcNow() time.Time {
	// Postgres keeps microseconds; truncate so returned values round-trip.
	return time.Now().UTC().Truncate(time.Microsecond)
}

// IsNotFound reports whether err signals a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
