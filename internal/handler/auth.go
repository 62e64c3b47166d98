package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/movielist/movielist-go/internal/model"
	"github.com/movielist/movielist-go/internal/service"
)

// AuthHandler handles HTTP requests for sessions.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleCreateSession handles POST /api/sessions requests.
func (h *AuthHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() == "http: request body too large" {
			writeJSON(w, http.StatusRequestEntityTooLarge, messageResponse("Request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, messageResponse("Invalid request body"))
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, messageResponse("Invalid email or password"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, messageResponse("Internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleRefresh handles POST /api/sessions/refresh requests. The
// refresh token travels in the x-refresh header, not the body.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := r.Header.Get("x-refresh")
	if refreshToken == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse("Refresh token is required"))
		return
	}

	accessToken, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, service.ErrCouldNotRefresh) {
			writeJSON(w, http.StatusUnauthorized, messageResponse("Could not refresh access token"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, messageResponse("Internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, model.RefreshResponse{AccessToken: accessToken})
}
