package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"kinship/internal/service"
)

// ProfileHandler handles user profiles and match suggestions
type ProfileHandler struct {
	profiles *service.ProfileService
	log      *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *service.ProfileService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: log.Named("profile")}
}

// GetProfile returns the user's profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetProfile(r.Context(), r.PathValue("userID"))
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to load profile")
		return
	}
	// Raw DNA stays server side
	profile.DNAData = ""
	respondJSON(w, h.log, http.StatusOK, profile)
}

// SaveProfile updates the user's profile
func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var in service.SaveProfileInput
	if err := decodeJSON(w, r, maxJSONBody, &in); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}
	in.UserID = r.PathValue("userID")

	profile, err := h.profiles.SaveProfile(r.Context(), in)
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to save profile")
		return
	}
	profile.DNAData = ""
	respondJSON(w, h.log, http.StatusOK, profile)
}

// Matches returns suggested relatives ranked by profile similarity
func (h *ProfileHandler) Matches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.profiles.SuggestedMatches(r.Context(), r.PathValue("userID"))
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to load matches")
		return
	}
	respondJSON(w, h.log, http.StatusOK, map[string]any{"matches": matches})
}
