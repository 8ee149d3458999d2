package domain

import "time"

// Review represents a single user's review of a movie.
type Review struct {
	ID        string    `json:"id"`
	Movie     string    `json:"movie" validate:"required"`
	Platforms []string  `json:"platforms"`
	Author    string    `json:"author" validate:"required"`
	Body      string    `json:"body" validate:"required"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StampReview fills the review timestamps the same way movies are stamped.
func StampReview(r *Review, now time.Time) {
	r.UpdatedAt = now
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.Platforms == nil {
		r.Platforms = []string{}
	}
}

// PlatformReview is one row of the review/platform join: a review paired with
// one platform it references.
type PlatformReview struct {
	Review
	PlatformInfo Platform `json:"platformInfo"`
}

// ReviewsByPlatform maps a platform title to the reviews that reference it,
// in review insertion order.
type ReviewsByPlatform map[string][]PlatformReview
