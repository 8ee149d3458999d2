package scoring

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/Clark-Hu/streamcatalog/internal/domain"
)

func TestAverage(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   *float64
	}{
		{"empty", nil, nil},
		{"single", []float64{8}, ptr(8)},
		{"eight and six", []float64{8, 6}, ptr(7)},
		{"thirds", []float64{7, 7, 8}, ptr(7.33)},
		{"round up", []float64{7, 8, 8}, ptr(7.67)},
		{"fractional input kept exact", []float64{7.3333333, 8}, ptr(7.67)},
		{"rounding applied once", []float64{1.006, 1.006, 1.0}, ptr(1.00)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Average(tt.scores)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("Average(%v) = %v, want nil", tt.scores, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Average(%v) = nil, want %v", tt.scores, *tt.want)
			}
			if math.Abs(*got-*tt.want) > 1e-9 {
				t.Fatalf("Average(%v) = %v, want %v", tt.scores, *got, *tt.want)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		value float64
		want  float64
	}{
		{0, 0},
		{3.125, 3.13},
		{2.744, 2.74},
		{9.999, 10},
		{4.5, 4.5},
	}
	for _, tt := range tests {
		if got := Round2(tt.value); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("Round2(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

type fakeWriter struct {
	scores map[string][]float64
	stored map[string]*float64
}

func (f *fakeWriter) UpdateScore(_ context.Context, movieID string, compute func([]float64) *float64) (domain.Movie, error) {
	scores, ok := f.scores[movieID]
	if !ok {
		return domain.Movie{}, domain.ErrNotFound
	}
	score := compute(scores)
	f.stored[movieID] = score
	return domain.Movie{ID: movieID, Score: score}, nil
}

func TestAggregatorRecompute(t *testing.T) {
	w := &fakeWriter{
		scores: map[string][]float64{"m1": {8, 6}, "m2": {}},
		stored: map[string]*float64{},
	}
	agg := NewAggregator(w, slog.New(slog.NewTextHandler(io.Discard, nil)))

	movie, err := agg.Recompute(context.Background(), "m1")
	if err != nil {
		t.Fatalf("Recompute(m1): %v", err)
	}
	if movie.Score == nil || *movie.Score != 7 {
		t.Fatalf("score = %v, want 7", movie.Score)
	}

	movie, err = agg.Recompute(context.Background(), "m2")
	if err != nil {
		t.Fatalf("Recompute(m2): %v", err)
	}
	if movie.Score != nil {
		t.Fatalf("score = %v, want nil for movie without reviews", *movie.Score)
	}

	if _, err := agg.Recompute(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Recompute(missing) error = %v, want ErrNotFound", err)
	}
}

func ptr(v float64) *float64 { return &v }
