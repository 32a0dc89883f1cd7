package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"kinship/internal/models"
	"kinship/internal/service"
)

// ConnectionHandler handles connection requests between users
type ConnectionHandler struct {
	connections *service.ConnectionService
	middleware  *Middleware
	log         *zap.Logger
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(connections *service.ConnectionService, middleware *Middleware, log *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{connections: connections, middleware: middleware, log: log.Named("connections")}
}

type sendConnectionRequest struct {
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
}

// Send creates a pending request. With authentication on, the sender is
// always the caller.
func (h *ConnectionHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendConnectionRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}
	if s := GetSessionFromContext(r.Context()); s != nil {
		req.FromUserID = s.UserID
	}

	created, err := h.connections.SendRequest(r.Context(), req.FromUserID, req.ToUserID)
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to send connection request")
		return
	}
	respondJSON(w, h.log, http.StatusOK, created)
}

type respondConnectionRequest struct {
	Status models.ConnectionStatus `json:"status"`
}

// Respond accepts or declines a request addressed to the caller
func (h *ConnectionHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req respondConnectionRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	responder := ""
	if s := GetSessionFromContext(r.Context()); s != nil && !s.Admin {
		responder = s.UserID
	}

	updated, err := h.connections.Respond(r.Context(), r.PathValue("id"), responder, req.Status)
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to update connection request")
		return
	}
	respondJSON(w, h.log, http.StatusOK, updated)
}

type connectionsResponse struct {
	Incoming []models.ConnectionRequest `json:"incoming"`
	Outgoing []models.ConnectionRequest `json:"outgoing"`
}

// List returns the user's pending incoming and outgoing requests
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	incoming, outgoing, err := h.connections.PendingRequests(r.Context(), r.PathValue("userID"))
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to load connection requests")
		return
	}
	respondJSON(w, h.log, http.StatusOK, connectionsResponse{Incoming: incoming, Outgoing: outgoing})
}
