package profile

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/echoself/backend/internal/directory"
	profileModel "github.com/echoself/backend/internal/model/profile"
	"github.com/echoself/backend/pkg/utils"
)

// Handler exposes the persona directory over HTTP.
type Handler struct {
	profiles *directory.Directory
}

// New creates the profile handler.
func New(profiles *directory.Directory) *Handler {
	return &Handler{profiles: profiles}
}

// RegisterRoutes mounts the profile routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profiles", h.handleList)
	r.Post("/profiles", h.handleCreate)
	r.Post("/profiles/{profileID}/vote", h.handleVote)
}

// listItem decorates a profile with the browse-view preview of its first
// three interests.
type listItem struct {
	profileModel.Profile
	InterestsPreview []string `json:"interestsPreview"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.ListAll(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to list profiles")
		return
	}

	items := make([]listItem, 0, len(profiles))
	for _, p := range profiles {
		items = append(items, listItem{Profile: p, InterestsPreview: interestsPreview(p.Interests)})
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func interestsPreview(interests string) []string {
	preview := make([]string, 0, 3)
	for _, token := range strings.Split(interests, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		preview = append(preview, token)
		if len(preview) == 3 {
			break
		}
	}
	return preview
}

// handleCreate stands in for the profile form. Field validation lives in the
// form layer; the core only requires an id to key the record, minting one
// when absent.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload profileModel.Profile
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.ID == "" {
		payload.ID = uuid.NewString()
	}
	if payload.Questions == nil {
		payload.Questions = make(map[string]string)
	}

	if err := h.profiles.Save(r.Context(), payload); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, payload)
}

func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileID")

	var payload struct {
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.profiles.Vote(r.Context(), profileID, directory.VoteKind(payload.Kind))
	switch {
	case errors.Is(err, directory.ErrInvalidVoteKind):
		utils.RespondError(w, http.StatusBadRequest, "kind must be upvotes or downvotes")
		return
	case errors.Is(err, directory.ErrProfileNotFound):
		utils.RespondError(w, http.StatusNotFound, "profile not found")
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, "failed to record vote")
		return
	}

	utils.RespondJSON(w, http.StatusOK, updated)
}
