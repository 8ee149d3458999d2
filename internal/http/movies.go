package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Clark-Hu/streamcatalog/internal/catalog"
	"github.com/Clark-Hu/streamcatalog/internal/domain"
	"github.com/Clark-Hu/streamcatalog/internal/repository"
)

type movieCreateRequest struct {
	Title     string   `json:"title" validate:"required"`
	Image     string   `json:"image" validate:"required"`
	Director  string   `json:"director" validate:"required"`
	Platforms []string `json:"platforms"`
}

type movieUpdateRequest struct {
	Title     *string   `json:"title"`
	Image     *string   `json:"image"`
	Director  *string   `json:"director"`
	Platforms *[]string `json:"platforms"`
}

// parsePaging reads page and perPage from the query string. Missing,
// non-numeric or out of range values fall back to the listing defaults.
func parsePaging(query url.Values) (int, int) {
	page, _ := strconv.Atoi(strings.TrimSpace(query.Get("page")))
	perPage, _ := strconv.Atoi(strings.TrimSpace(query.Get("perPage")))
	return catalog.NormalizePaging(page, perPage)
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePaging(r.URL.Query())

	result, err := s.catalog.ListMovies(r.Context(), page, perPage)
	if err != nil {
		s.respondServiceError(w, r, err, "list movies")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req movieCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := domain.Validate(req); err != nil {
		s.respondServiceError(w, r, err, "create movie")
		return
	}
	if err := checkIDs("platforms", req.Platforms); err != nil {
		s.respondServiceError(w, r, err, "create movie")
		return
	}

	movie, err := s.catalog.CreateMovie(r.Context(), repository.MovieCreateParams{
		Title:     req.Title,
		Image:     req.Image,
		Director:  req.Director,
		Platforms: req.Platforms,
	})
	if err != nil {
		s.respondServiceError(w, r, err, "create movie")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/movies/%s", movie.ID))
	s.respondJSON(w, http.StatusCreated, movie)
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}

	detail, err := s.catalog.GetMovieDetail(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "fetch movie", slog.String("movie_id", id))
		return
	}
	s.respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}

	var req movieUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Platforms != nil {
		if err := checkIDs("platforms", *req.Platforms); err != nil {
			s.respondServiceError(w, r, err, "update movie")
			return
		}
	}

	movie, err := s.catalog.UpdateMovie(r.Context(), id, domain.MoviePatch{
		Title:     req.Title,
		Image:     req.Image,
		Director:  req.Director,
		Platforms: req.Platforms,
	})
	if err != nil {
		s.respondServiceError(w, r, err, "update movie", slog.String("movie_id", id))
		return
	}
	s.respondJSON(w, http.StatusOK, movie)
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}

	if err := s.catalog.DeleteMovie(r.Context(), id); err != nil {
		s.respondServiceError(w, r, err, "delete movie", slog.String("movie_id", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDuplicateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}

	movie, err := s.catalog.DuplicateMovie(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "duplicate movie", slog.String("movie_id", id))
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/movies/%s", movie.ID))
	s.respondJSON(w, http.StatusCreated, movie)
}
