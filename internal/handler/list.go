package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/movielist/movielist-go/internal/middleware"
	"github.com/movielist/movielist-go/internal/model"
	"github.com/movielist/movielist-go/internal/service"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ListHandler handles HTTP requests for user lists.
type ListHandler struct {
	service *service.ListService
}

// NewListHandler creates a new ListHandler.
func NewListHandler(svc *service.ListService) *ListHandler {
	return &ListHandler{service: svc}
}

// callerID extracts the authenticated user's id from the request
// context. The routes using it sit behind RequireUser, so a miss here
// means the middleware chain is misconfigured.
func callerID(w http.ResponseWriter, r *http.Request) (bson.ObjectID, bool) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return bson.ObjectID{}, false
	}

	id, err := bson.ObjectIDFromHex(claims.ID)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return bson.ObjectID{}, false
	}

	return id, true
}

// HandleCreate handles POST /api/user-lists requests.
func (h *ListHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.CreateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	list, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired), errors.Is(err, service.ErrDescRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, list)
}

// HandleAll handles GET /api/user-lists requests.
func (h *ListHandler) HandleAll(w http.ResponseWriter, r *http.Request) {
	page, limit := service.ParsePage(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))

	resp, err := h.service.All(r.Context(), page, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleByUser handles GET /api/user-lists/{id} requests, where id is
// a user id.
func (h *ListHandler) HandleByUser(w http.ResponseWriter, r *http.Request) {
	page, limit := service.ParsePage(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))

	resp, err := h.service.ByUser(r.Context(), chi.URLParam(r, "id"), page, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleByID handles GET /api/user-lists/list/{id} requests.
func (h *ListHandler) HandleByID(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrListNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse("User list not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleMine handles GET /api/user-lists/current/me requests: id and
// title of the caller's lists.
func (h *ListHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	titles, err := h.service.TitlesForUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, titles)
}

// HandleUpdate handles PUT /api/user-lists/{id} requests.
func (h *ListHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.UpdateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	list, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeListError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// HandleDelete handles DELETE /api/user-lists/{id} requests.
func (h *ListHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.writeListError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse("User list deleted successfully"))
}

// HandleAddMovie handles POST /api/user-lists/{id}/movies requests.
func (h *ListHandler) HandleAddMovie(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.ListMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	list, err := h.service.AddMovie(r.Context(), userID, chi.URLParam(r, "id"), req.MovieID)
	if err != nil {
		h.writeListError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// HandleRemoveMovie handles DELETE /api/user-lists/{id}/movies requests.
func (h *ListHandler) HandleRemoveMovie(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.ListMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	list, err := h.service.RemoveMovie(r.Context(), userID, chi.URLParam(r, "id"), req.MovieID)
	if err != nil {
		h.writeListError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *ListHandler) writeListError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTitleOrDescription), errors.Is(err, service.ErrMovieIDRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrListNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse("User list not found"))
	case errors.Is(err, service.ErrMovieNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse("Movie not found"))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
