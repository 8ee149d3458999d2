package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Clark-Hu/streamcatalog/internal/domain"
)

const (
	pgUniqueViolation       = "23505"
	pgNotNullViolation      = "23502"
	pgCheckViolation        = "23514"
	pgInvalidTextRepr       = "22P02"
	constraintMovieSlug     = "movies_slug_key"
	constraintPlatformTitle = "platforms_title_key"
)

// translate maps PostgreSQL constraint failures onto domain errors and passes
// every other error through unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintMovieSlug:
			return domain.NewValidationError("slug", "must be unique")
		case constraintPlatformTitle:
			return domain.NewValidationError("title", "must be unique")
		}
		return domain.NewValidationError(pgErr.ConstraintName, "must be unique")
	case pgNotNullViolation:
		return domain.NewValidationError(pgErr.ColumnName, "is required")
	case pgCheckViolation:
		return domain.NewValidationError(pgErr.ConstraintName, "is invalid")
	case pgInvalidTextRepr:
		return domain.NewValidationError("", pgErr.Message)
	}
	return err
}
