package domain

import "time"

// Platform is a streaming service a movie or review can reference.
type Platform struct {
	ID        string    `json:"id"`
	Icon      string    `json:"icon" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StampPlatform fills the platform timestamps.
func StampPlatform(p *Platform, now time.Time) {
	p.UpdatedAt = now
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
}
