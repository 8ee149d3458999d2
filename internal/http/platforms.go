package httpserver

import (
	"net/http"

	"github.com/Clark-Hu/streamcatalog/internal/domain"
	"github.com/Clark-Hu/streamcatalog/internal/repository"
)

type platformCreateRequest struct {
	Icon  string `json:"icon" validate:"required"`
	Title string `json:"title" validate:"required"`
}

func (s *Server) handleCreatePlatform(w http.ResponseWriter, r *http.Request) {
	var req platformCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := domain.Validate(req); err != nil {
		s.respondServiceError(w, r, err, "create platform")
		return
	}

	platform, err := s.catalog.CreatePlatform(r.Context(), repository.PlatformCreateParams{
		Icon:  req.Icon,
		Title: req.Title,
	})
	if err != nil {
		s.respondServiceError(w, r, err, "create platform")
		return
	}
	s.respondJSON(w, http.StatusCreated, platform)
}
