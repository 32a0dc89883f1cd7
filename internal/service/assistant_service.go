package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"kinship/internal/kinship"
	"kinship/internal/repository"
)

var (
	ErrMissingQuery         = errors.New("missing query")
	ErrInvalidScope         = errors.New("invalid context scope")
	ErrAssistantUnavailable = errors.New("assistant unavailable")
)

// Scope selects how much of the user's data is sent along with a question
type Scope string

const (
	ScopeNone    Scope = "none"
	ScopeProfile Scope = "profile"
	ScopeFamily  Scope = "family"
	ScopeFull    Scope = "full"
)

// ParseScope validates a scope string. Empty means full.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeFull:
		return ScopeFull, nil
	case ScopeNone:
		return ScopeNone, nil
	case ScopeProfile:
		return ScopeProfile, nil
	case ScopeFamily:
		return ScopeFamily, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, s)
	}
}

func (s Scope) includesProfile() bool { return s == ScopeProfile || s == ScopeFull }
func (s Scope) includesFamily() bool  { return s == ScopeFamily || s == ScopeFull }

// AssistantGateway answers free-text questions
type AssistantGateway interface {
	AskAssistant(ctx context.Context, query, userContext string) (string, error)
}

// AskInput is a question for the assistant
type AskInput struct {
	Query  string
	UserID string
	Scope  Scope
}

// AssistantService answers genealogy questions with optional user context
type AssistantService struct {
	gateway    AssistantGateway
	profiles   *repository.ProfileRepository
	trees      *repository.TreeRepository
	familyData *repository.FamilyDataRepository
	log        *zap.Logger
}

// NewAssistantService creates a new assistant service
func NewAssistantService(gateway AssistantGateway, profiles *repository.ProfileRepository, trees *repository.TreeRepository, familyData *repository.FamilyDataRepository, log *zap.Logger) *AssistantService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AssistantService{
		gateway:    gateway,
		profiles:   profiles,
		trees:      trees,
		familyData: familyData,
		log:        log.Named("assistant"),
	}
}

// Ask answers a question. Context that cannot be loaded is left out rather
// than failing the question.
func (s *AssistantService) Ask(ctx context.Context, in AskInput) (string, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return "", ErrMissingQuery
	}

	userContext := ""
	if in.UserID != "" && in.Scope != ScopeNone {
		scope := in.Scope
		if scope == "" {
			scope = ScopeFull
		}
		userContext = s.buildContext(ctx, in.UserID, scope)
	}

	answer, err := s.gateway.AskAssistant(ctx, query, userContext)
	if err != nil {
		s.log.Error("assistant request failed", zap.String("user_id", in.UserID), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrAssistantUnavailable, err)
	}
	return answer, nil
}

type profileContext struct {
	FullName           string   `json:"fullName,omitempty"`
	BirthDate          string   `json:"birthDate,omitempty"`
	BirthPlace         string   `json:"birthPlace,omitempty"`
	ClanOrCulturalInfo string   `json:"clanOrCulturalInfo,omitempty"`
	RelativesNames     []string `json:"relativesNames,omitempty"`
	HasDNA             bool     `json:"hasDna"`
}

type analysisContext struct {
	EthnicityEstimates string `json:"ethnicityEstimates,omitempty"`
	PredictedRelatives int    `json:"predictedRelatives"`
}

type treeContext struct {
	Summary string         `json:"summary"`
	Groups  kinship.Groups `json:"groups"`
}

type userContext struct {
	Profile    *profileContext  `json:"profile,omitempty"`
	Analysis   *analysisContext `json:"analysis,omitempty"`
	FamilyTree *treeContext     `json:"familyTree,omitempty"`
	FamilyData any              `json:"familyData,omitempty"`
}

// buildContext assembles the JSON blob for the prompt. Raw DNA is never included.
func (s *AssistantService) buildContext(ctx context.Context, userID string, scope Scope) string {
	var uc userContext
	logger := s.log.With(zap.String("user_id", userID))

	if scope.includesProfile() {
		profile, err := s.profiles.GetProfile(ctx, userID)
		switch {
		case err != nil:
			logger.Warn("assistant context: profile unavailable", zap.Error(err))
		case profile != nil:
			uc.Profile = &profileContext{
				FullName:           profile.FullName,
				BirthDate:          profile.BirthDate,
				BirthPlace:         profile.BirthPlace,
				ClanOrCulturalInfo: profile.ClanOrCulturalInfo,
				RelativesNames:     profile.RelativesNames,
				HasDNA:             profile.HasDNA(),
			}
			if profile.Analysis != nil {
				uc.Analysis = &analysisContext{
					EthnicityEstimates: profile.Analysis.Ancestry.EthnicityEstimates,
					PredictedRelatives: len(profile.Analysis.Relatives),
				}
			}
		}
	}

	if scope.includesFamily() {
		tree, err := s.trees.GetTree(ctx, userID)
		switch {
		case err != nil:
			logger.Warn("assistant context: tree unavailable", zap.Error(err))
		case tree != nil:
			uc.FamilyTree = &treeContext{
				Summary: kinship.Summarize(tree),
				Groups:  kinship.ClassifyTree(tree),
			}
		}

		data, err := s.familyData.GetFamilyData(ctx, userID)
		switch {
		case err != nil:
			logger.Warn("assistant context: family data unavailable", zap.Error(err))
		case data != nil:
			uc.FamilyData = data
		}
	}

	raw, err := json.Marshal(uc)
	if err != nil {
		logger.Warn("assistant context: encode failed", zap.Error(err))
		return ""
	}
	return string(raw)
}
