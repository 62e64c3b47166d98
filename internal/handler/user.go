package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/movielist/movielist-go/internal/middleware"
	"github.com/movielist/movielist-go/internal/model"
	"github.com/movielist/movielist-go/internal/service"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// HandleRegister handles POST /api/users requests.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() == "http: request body too large" {
			writeJSON(w, http.StatusRequestEntityTooLarge, messageResponse("Request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, messageResponse("Invalid request body"))
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case service.IsValidationError(err):
			writeJSON(w, http.StatusBadRequest, messageResponse(err.Error()))
		case errors.Is(err, service.ErrEmailTaken):
			writeJSON(w, http.StatusConflict, messageResponse("Email already exists"))
		default:
			writeJSON(w, http.StatusInternalServerError, messageResponse("Internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, model.CreateUserResponse{
		ID:      user.ID.Hex(),
		Email:   user.Email,
		Name:    user.FirstName + " " + user.LastName,
		Message: "User created successfully",
	})
}

// HandleMe handles GET /api/users/me requests. The response is the
// token's claims, not a store read.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse("User not found"))
		return
	}

	writeJSON(w, http.StatusOK, claims)
}
