package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/movielist/movielist-go/internal/tmdb"
)

// ImageHandler proxies poster images from the catalog CDN.
type ImageHandler struct {
	catalog *tmdb.Client
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(catalog *tmdb.Client) *ImageHandler {
	return &ImageHandler{catalog: catalog}
}

// HandleImage handles GET /api/image/{path} requests. The size query
// parameter picks the CDN rendition, defaulting to the original.
func (h *ImageHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("Image path is required"))
		return
	}

	size := r.URL.Query().Get("size")
	if size == "" {
		size = "original"
	}

	img, err := h.catalog.ImageByPath(r.Context(), size, path)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse("Could not fetch image"))
		return
	}
	defer img.Body.Close()

	if img.ContentType != "" {
		w.Header().Set("Content-Type", img.ContentType)
	}
	if img.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(img.ContentLength, 10))
	}

	io.Copy(w, img.Body)
}
