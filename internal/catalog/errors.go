package catalog

import "fmt"

// ScoreRecomputeError reports a review that was stored while the score of its
// movie could not be refreshed. The cause is kept for logs only: it is not
// unwrapped, so a missing movie underneath never reads as a not-found result.
type ScoreRecomputeError struct {
	ReviewID string
	MovieID  string
	Cause    error
}

func (e *ScoreRecomputeError) Error() string {
	return fmt.Sprintf("review %s stored, score of movie %s not recomputed: %v", e.ReviewID, e.MovieID, e.Cause)
}
