package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"kinship/internal/models"
	"kinship/internal/service"
)

// FamilyHandler handles the family-information form
type FamilyHandler struct {
	family     *service.FamilyService
	middleware *Middleware
	log        *zap.Logger
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(family *service.FamilyService, middleware *Middleware, log *zap.Logger) *FamilyHandler {
	return &FamilyHandler{family: family, middleware: middleware, log: log.Named("family")}
}

type saveFamilyRequest struct {
	UserID        string                 `json:"userId"`
	FamilyHeads   *[]models.FamilyHead   `json:"familyHeads"`
	FamilyMembers *[]models.FamilyMember `json:"familyMembers"`
}

// SaveFamilyData stores the form and rebuilds the user's tree from it
func (h *FamilyHandler) SaveFamilyData(w http.ResponseWriter, r *http.Request) {
	var req saveFamilyRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}
	if req.UserID == "" || req.FamilyHeads == nil || req.FamilyMembers == nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrMissingFields, "", nil)
		return
	}
	if !h.middleware.canActFor(r.Context(), req.UserID) {
		respondWithError(w, h.log, http.StatusForbidden, ErrForbidden, "", nil)
		return
	}

	if _, err := h.family.SaveFamilyData(r.Context(), req.UserID, *req.FamilyHeads, *req.FamilyMembers); err != nil {
		respondWithServiceError(w, h.log, err, ErrFamilySaveFailed)
		return
	}
	respondJSON(w, h.log, http.StatusOK, map[string]bool{"success": true})
}

// GetFamilyData returns the stored form
func (h *FamilyHandler) GetFamilyData(w http.ResponseWriter, r *http.Request) {
	data, err := h.family.GetFamilyData(r.Context(), r.PathValue("userID"))
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to load family information")
		return
	}
	respondJSON(w, h.log, http.StatusOK, data)
}
