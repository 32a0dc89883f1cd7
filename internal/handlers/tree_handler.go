package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"kinship/internal/models"
	"kinship/internal/service"
)

const maxJSONBody = 1 << 20

// TreeHandler handles family tree HTTP requests
type TreeHandler struct {
	trees *service.TreeService
	log   *zap.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(trees *service.TreeService, log *zap.Logger) *TreeHandler {
	return &TreeHandler{trees: trees, log: log.Named("tree")}
}

type memberResponse struct {
	Member models.Member `json:"member"`
	Tree   *models.Tree  `json:"tree"`
}

// GetTree returns the user's tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.trees.GetTree(r.Context(), r.PathValue("userID"))
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to load family tree")
		return
	}
	respondJSON(w, h.log, http.StatusOK, tree)
}

// GetGroups returns the tree's members sorted into parents, siblings and other groups
func (h *TreeHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.trees.Groups(r.Context(), r.PathValue("userID"))
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to load family tree")
		return
	}
	respondJSON(w, h.log, http.StatusOK, groups)
}

// AddMember inserts or replaces a member
func (h *TreeHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var member models.Member
	if err := decodeJSON(w, r, maxJSONBody, &member); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	tree, member, err := h.trees.AddMember(r.Context(), r.PathValue("userID"), member)
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to save member")
		return
	}
	respondJSON(w, h.log, http.StatusOK, memberResponse{Member: member, Tree: tree})
}

// UpdateMember replaces an existing member
func (h *TreeHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var member models.Member
	if err := decodeJSON(w, r, maxJSONBody, &member); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	tree, err := h.trees.UpdateMember(r.Context(), r.PathValue("userID"), r.PathValue("memberID"), member)
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to save member")
		return
	}
	respondJSON(w, h.log, http.StatusOK, tree)
}

type positionRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// MoveMember stores canvas coordinates
func (h *TreeHandler) MoveMember(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}
	if req.X == nil || req.Y == nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrMissingFields, "", nil)
		return
	}

	tree, err := h.trees.MoveMember(r.Context(), r.PathValue("userID"), r.PathValue("memberID"), *req.X, *req.Y)
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to move member")
		return
	}
	respondJSON(w, h.log, http.StatusOK, tree)
}

// DeleteMember removes a member and its edges
func (h *TreeHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	tree, err := h.trees.DeleteMember(r.Context(), r.PathValue("userID"), r.PathValue("memberID"))
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to delete member")
		return
	}
	respondJSON(w, h.log, http.StatusOK, tree)
}

type linkRequest struct {
	models.Edge
	Reciprocal bool `json:"reciprocal"`
}

// LinkRelation stores an edge, and its reverse when reciprocal is set
func (h *TreeHandler) LinkRelation(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	tree, err := h.trees.LinkRelation(r.Context(), r.PathValue("userID"), req.Edge, req.Reciprocal)
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to link members")
		return
	}
	respondJSON(w, h.log, http.StatusOK, tree)
}

type relativeRequest struct {
	Member   models.Member       `json:"member"`
	LinkTo   string              `json:"linkTo"`
	Relation models.EdgeRelation `json:"relation"`
}

// AddRelative adds a member linked to an existing one
func (h *TreeHandler) AddRelative(w http.ResponseWriter, r *http.Request) {
	var req relativeRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	tree, member, err := h.trees.AddRelative(r.Context(), r.PathValue("userID"), req.Member, req.LinkTo, req.Relation)
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to add relative")
		return
	}
	respondJSON(w, h.log, http.StatusOK, memberResponse{Member: member, Tree: tree})
}
