package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/echoself/backend/internal/directory"
	"github.com/echoself/backend/pkg/utils"
)

// Handler manages the stored remote-service credential. The key is kept in
// the same string store as the profiles; no hardening beyond that.
type Handler struct {
	profiles *directory.Directory
}

// New creates the settings handler.
func New(profiles *directory.Directory) *Handler {
	return &Handler{profiles: profiles}
}

// RegisterRoutes mounts the settings routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Put("/settings/credential", h.handleSet)
	r.Delete("/settings/credential", h.handleClear)
}

// handleSet stores the key; an empty value clears it, matching the settings
// dialog behavior of saving an emptied field.
func (h *Handler) handleSet(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.APIKey == "" {
		if err := h.profiles.ClearCredential(r.Context()); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "failed to clear credential")
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
		return
	}

	if err := h.profiles.SetCredential(r.Context(), payload.APIKey); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to store credential")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.ClearCredential(r.Context()); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to clear credential")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
