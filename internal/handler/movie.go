package handler

import (
	"net/http"
	"strconv"

	"github.com/movielist/movielist-go/internal/service"
)

// MovieHandler handles HTTP requests for catalog searches.
type MovieHandler struct {
	service *service.MovieService
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc *service.MovieService) *MovieHandler {
	return &MovieHandler{service: svc}
}

// HandleSearch handles GET /api/movies requests. The catalog response
// is passed through verbatim.
func (h *MovieHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("Title query parameter is required"))
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	body, err := h.service.Search(r.Context(), title, page)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse("Could not fetch movies"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
