package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/echoself/backend/internal/directory"
	"github.com/echoself/backend/internal/model/chat"
	chatService "github.com/echoself/backend/internal/service/chat"
	"github.com/echoself/backend/pkg/utils"
)

// Handler exposes chat sessions over HTTP.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates the chat handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Get("/session/{sessionID}/messages", h.handleTranscript)
	r.Post("/session/{sessionID}/messages", h.handleSendMessage)
	r.Post("/session/{sessionID}/troll", h.handleToggleTrollMode)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProfileID string `json:"profileId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.ProfileID == "" {
		utils.RespondError(w, http.StatusBadRequest, "profileId is required")
		return
	}

	session, messages, err := h.chatSvc.CreateSession(r.Context(), payload.ProfileID)
	if err != nil {
		if errors.Is(err, directory.ErrProfileNotFound) {
			utils.RespondError(w, http.StatusNotFound, "profile not found")
			return
		}
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"session":  session,
		"messages": messages,
	})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.chatSvc.Transcript(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	appended, err := h.chatSvc.SendMessage(r.Context(), sessionID, payload.Text)
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	case errors.Is(err, chatService.ErrResponsePending):
		utils.RespondError(w, http.StatusConflict, "a response is still pending")
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string][]chat.Message{"messages": appended})
}

func (h *Handler) handleToggleTrollMode(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	enabled, notice, err := h.chatSvc.ToggleTrollMode(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"trollMode": enabled,
		"message":   notice,
	})
}
