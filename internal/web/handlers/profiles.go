package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-orchestrator/internal/profiles"
)

// ApplicationUserHeader carries the id of the authenticated application user.
const ApplicationUserHeader = "X-Application-User-ID"

const maxProfileBodyBytes = 1 << 20

// ProfileCommands is implemented by *profiles.CommandHandler.
type ProfileCommands interface {
	Handle(ctx context.Context, cmd profiles.CreateUserProfileCommand) (*profiles.UserProfile, error)
	Get(ctx context.Context, id string) (*profiles.UserProfile, error)
}

// ProfilesHandler serves /api/userprofile. A nil command handler means no
// profile store is configured.
type ProfilesHandler struct {
	commands ProfileCommands
}

func NewProfilesHandler(commands ProfileCommands) *ProfilesHandler {
	return &ProfilesHandler{commands: commands}
}

func profileErrorStatus(err error) int {
	switch {
	case errors.Is(err, profiles.ErrInvalidCommand):
		return http.StatusBadRequest
	case errors.Is(err, profiles.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *ProfilesHandler) available(w http.ResponseWriter) bool {
	if h.commands == nil {
		respondError(w, http.StatusServiceUnavailable, "profile store is not configured (set DATABASE_URL)")
		return false
	}
	return true
}

// Create handles POST /api/userprofile.
func (h *ProfilesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var input profiles.ProfileInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProfileBodyBytes)).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	created, err := h.commands.Handle(r.Context(), profiles.CreateUserProfileCommand{
		ApplicationUserID: r.Header.Get(ApplicationUserHeader),
		Profile:           input,
	})
	if err != nil {
		status := profileErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("[api] create user profile failed: %v", err)
			respondError(w, status, "failed to create user profile")
			return
		}
		respondError(w, status, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/userprofile/{id}.
func (h *ProfilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	id := chi.URLParam(r, "id")
	profile, err := h.commands.Get(r.Context(), id)
	if err != nil {
		status := profileErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("[api] get user profile %s failed: %v", sanitizeForLog(id), err)
			respondError(w, status, "failed to load user profile")
			return
		}
		respondError(w, status, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
