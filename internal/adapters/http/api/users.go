// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/skillfade/internal/domain/model"
)

// UserDependencies defines the interface for user operations.
type UserDependencies interface {
	CreateUser(ctx context.Context, email string) (*model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	UpdateSettings(ctx context.Context, userID string, settings model.AlertSettings) error
}

// UsersHandler handles user requests.
type UsersHandler struct {
	deps UserDependencies
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps UserDependencies) *UsersHandler {
	return &UsersHandler{deps: deps}
}

type userRequest struct {
	Email string `json:"email"`
}

type userResponse struct {
	ID       string              `json:"id"`
	Email    string              `json:"email"`
	Settings model.AlertSettings `json:"settings"`
}

// HandlePostUser handles POST /users requests.
func (h *UsersHandler) HandlePostUser(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_user"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("invalid email")))
		return
	}

	user, err := h.deps.CreateUser(r.Context(), req.Email)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Email: user.Email, Settings: user.Settings})
}

// HandleUserSubtree routes /users/{id}/settings requests.
func (h *UsersHandler) HandleUserSubtree(w http.ResponseWriter, r *http.Request) {
	const op = "api.user_settings"

	// Expect exactly {id}/settings after the prefix.
	rest := strings.TrimPrefix(r.URL.Path, "/users/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "settings" {
		http.NotFound(w, r)
		return
	}
	userID := parts[0]

	switch r.Method {
	case http.MethodGet:
		user, err := h.deps.GetUser(r.Context(), userID)
		if err != nil {
			writeStoreError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, user.Settings)

	case http.MethodPut:
		// Start from the stored settings so a partial body only flips the
		// fields it names.
		user, err := h.deps.GetUser(r.Context(), userID)
		if err != nil {
			writeStoreError(w, op, err)
			return
		}
		settings := user.Settings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := h.deps.UpdateSettings(r.Context(), userID, settings); err != nil {
			writeStoreError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)

	default:
		http.NotFound(w, r)
	}
}
