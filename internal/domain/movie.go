package domain

import (
	"time"

	"github.com/Clark-Hu/streamcatalog/internal/slug"
)

// Movie represents the canonical movie entity in the database/service.
type Movie struct {
	ID        string    `json:"id"`
	Title     string    `json:"title" validate:"required"`
	Slug      string    `json:"slug"`
	Image     string    `json:"image" validate:"required,url"`
	Director  string    `json:"director" validate:"required"`
	Platforms []string  `json:"platforms"`
	Score     *float64  `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StampMovie applies the write-time transforms every persisted movie goes
// through: updatedAt is always reset, createdAt only filled when missing, and
// the slug is re-derived from the title only when titleWritten is set.
func StampMovie(m *Movie, now time.Time, titleWritten bool) {
	m.UpdatedAt = now
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if titleWritten {
		m.Slug = slug.Make(m.Title)
	}
	if m.Platforms == nil {
		m.Platforms = []string{}
	}
}

// MoviePatch carries the client-writable movie fields for partial updates.
// Nil fields are left untouched.
type MoviePatch struct {
	Title     *string
	Image     *string
	Director  *string
	Platforms *[]string
}

// Apply merges the patch into m.
func (p MoviePatch) Apply(m *Movie) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Image != nil {
		m.Image = *p.Image
	}
	if p.Director != nil {
		m.Director = *p.Director
	}
	if p.Platforms != nil {
		m.Platforms = append([]string{}, (*p.Platforms)...)
	}
}
