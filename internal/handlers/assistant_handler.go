package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"kinship/internal/service"
)

// AssistantHandler handles genealogy assistant questions
type AssistantHandler struct {
	assistant  *service.AssistantService
	middleware *Middleware
	log        *zap.Logger
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistant *service.AssistantService, middleware *Middleware, log *zap.Logger) *AssistantHandler {
	return &AssistantHandler{assistant: assistant, middleware: middleware, log: log.Named("assistant")}
}

type askRequest struct {
	Query  string `json:"query"`
	UserID string `json:"userId"`
	Scope  string `json:"scope"`
}

type askResponse struct {
	Response string `json:"response"`
}

// Ask answers a question, optionally with the user's own data as context
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}
	if req.Query == "" {
		respondWithError(w, h.log, http.StatusBadRequest, ErrMissingQuery, "", nil)
		return
	}

	scope, err := service.ParseScope(req.Scope)
	if err != nil {
		respondWithServiceError(w, h.log, err, ErrAssistantUnavailable)
		return
	}
	if req.UserID != "" && !h.middleware.canActFor(r.Context(), req.UserID) {
		respondWithError(w, h.log, http.StatusForbidden, ErrForbidden, "", nil)
		return
	}

	answer, err := h.assistant.Ask(r.Context(), service.AskInput{Query: req.Query, UserID: req.UserID, Scope: scope})
	if err != nil {
		respondWithServiceError(w, h.log, err, ErrAssistantUnavailable)
		return
	}
	respondJSON(w, h.log, http.StatusOK, askResponse{Response: answer})
}
