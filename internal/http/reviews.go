package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/Clark-Hu/streamcatalog/internal/domain"
	"github.com/Clark-Hu/streamcatalog/internal/repository"
)

type reviewCreateRequest struct {
	Movie     string   `json:"movie" validate:"required"`
	Platforms []string `json:"platforms"`
	Author    string   `json:"author" validate:"required"`
	Body      string   `json:"body" validate:"required"`
	Score     *float64 `json:"score" validate:"required"`
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := domain.Validate(req); err != nil {
		s.respondServiceError(w, r, err, "create review")
		return
	}
	movieID, err := uuid.Parse(req.Movie)
	if err != nil {
		s.respondServiceError(w, r, domain.NewValidationError("movie", "does not reference an existing movie"), "create review")
		return
	}
	if err := checkIDs("platforms", req.Platforms); err != nil {
		s.respondServiceError(w, r, err, "create review")
		return
	}

	review, err := s.catalog.CreateReview(r.Context(), repository.ReviewCreateParams{
		MovieID:   movieID.String(),
		Platforms: req.Platforms,
		Author:    req.Author,
		Body:      req.Body,
		Score:     *req.Score,
	})
	if err != nil {
		s.respondServiceError(w, r, err, "create review", slog.String("movie_id", movieID.String()))
		return
	}
	s.respondJSON(w, http.StatusCreated, review)
}
