package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"kinship/internal/models"
	"kinship/internal/repository"
	"kinship/internal/utils"
)

// ErrProfileNotFound is returned when a user has no profile document
var ErrProfileNotFound = errors.New("profile not found")

// MaxSuggestedMatches caps SuggestedMatches results
const MaxSuggestedMatches = 9

// SaveProfileInput is the editable part of a profile
type SaveProfileInput struct {
	UserID             string   `json:"userId"`
	FullName           string   `json:"fullName"`
	Email              string   `json:"email,omitempty"`
	BirthDate          string   `json:"birthDate,omitempty"`
	BirthPlace         string   `json:"birthPlace,omitempty"`
	ClanOrCulturalInfo string   `json:"clanOrCulturalInfo,omitempty"`
	RelativesNames     []string `json:"relativesNames,omitempty"`
}

// ProfileService handles user profiles and profile-based match suggestions
type ProfileService struct {
	profiles *repository.ProfileRepository
	log      *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(profiles *repository.ProfileRepository, log *zap.Logger) *ProfileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileService{profiles: profiles, log: log.Named("profile")}
}

// GetProfile returns a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// SaveProfile merges the given fields into the profile and marks it complete
func (s *ProfileService) SaveProfile(ctx context.Context, in SaveProfileInput) (*models.UserProfile, error) {
	if err := utils.ValidateRequired("userId", in.UserID); err != nil {
		return nil, err
	}
	if err := utils.ValidateName("fullName", in.FullName); err != nil {
		return nil, err
	}
	if err := utils.ValidateOptionalEmail(in.Email); err != nil {
		return nil, err
	}

	existing, err := s.profiles.GetProfile(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	names := make([]string, 0, len(in.RelativesNames))
	for _, n := range in.RelativesNames {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}

	update := map[string]any{
		"userId":             in.UserID,
		"fullName":           strings.TrimSpace(in.FullName),
		"email":              strings.TrimSpace(in.Email),
		"birthDate":          in.BirthDate,
		"birthPlace":         in.BirthPlace,
		"clanOrCulturalInfo": in.ClanOrCulturalInfo,
		"relativesNames":     names,
		"profileCompleted":   true,
		"updatedAt":          now,
	}
	for k, v := range update {
		if str, ok := v.(string); ok && str == "" {
			delete(update, k)
		}
	}
	if existing == nil || existing.CreatedAt == nil {
		update["createdAt"] = now
	}

	if err := s.profiles.MergeProfile(ctx, in.UserID, update); err != nil {
		return nil, err
	}
	s.log.Info("profile saved", zap.String("user_id", in.UserID))
	return s.GetProfile(ctx, in.UserID)
}

// SuggestedMatches scores every other profile against the user's by
// shared relative names, birth place, clan and name similarity. Profiles
// scoring zero are left out; the best MaxSuggestedMatches are returned.
func (s *ProfileService) SuggestedMatches(ctx context.Context, userID string) ([]models.SuggestedMatch, error) {
	me, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if me == nil {
		return []models.SuggestedMatch{}, nil
	}

	others, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	matches := []models.SuggestedMatch{}
	for _, other := range others {
		if other.UserID == userID {
			continue
		}
		if m, ok := scoreMatch(*me, other); ok {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > MaxSuggestedMatches {
		matches = matches[:MaxSuggestedMatches]
	}
	return matches, nil
}

func scoreMatch(me, other models.UserProfile) (models.SuggestedMatch, bool) {
	score := 0.0
	var reasons []string

	theirs := make(map[string]bool, len(other.RelativesNames))
	for _, n := range other.RelativesNames {
		theirs[strings.ToLower(strings.TrimSpace(n))] = true
	}
	var shared []string
	for _, n := range me.RelativesNames {
		if key := strings.ToLower(strings.TrimSpace(n)); key != "" && theirs[key] {
			shared = append(shared, key)
		}
	}
	if len(shared) > 0 {
		score += min(0.4, float64(len(shared))*0.1)
		shown := shared
		if len(shown) > 3 {
			shown = shown[:3]
		}
		reasons = append(reasons, "Shared relatives: "+strings.Join(shown, ", "))
	}

	if sameFold(me.BirthPlace, other.BirthPlace) {
		score += 0.25
		reasons = append(reasons, "Same birth place")
	}
	if sameFold(me.ClanOrCulturalInfo, other.ClanOrCulturalInfo) {
		score += 0.25
		reasons = append(reasons, "Matching clan/cultural info")
	}

	if me.FullName != "" && other.FullName != "" {
		a, b := strings.ToLower(me.FullName), strings.ToLower(other.FullName)
		if strings.Contains(a, b) || strings.Contains(b, a) {
			score += 0.1
			reasons = append(reasons, "Similar full name")
		}
	}

	if score <= 0 {
		return models.SuggestedMatch{}, false
	}
	return models.SuggestedMatch{
		UserID:   other.UserID,
		FullName: other.FullName,
		Score:    min(1, score),
		Reasons:  reasons,
	}, true
}

func sameFold(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(a, b)
}
