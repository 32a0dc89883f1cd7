package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kinship/internal/ai"
	"kinship/internal/kinship"
	"kinship/internal/models"
	"kinship/internal/repository"
	"kinship/internal/utils"
)

var (
	ErrAnalysisFailed   = errors.New("DNA analysis failed")
	ErrAnalysisNotFound = errors.New("no DNA analysis found")
)

// DNAGateway is the part of the AI gateway that analyzes DNA
type DNAGateway interface {
	PredictRelatives(ctx context.Context, in ai.RelativesInput) ([]models.PredictedRelative, error)
	EstimateAncestry(ctx context.Context, snpData string) (models.AncestryEstimate, error)
	GenerationalInsights(ctx context.Context, markers string) (models.GenerationalInsights, error)
}

// DNAService runs the DNA analysis flows and stores the results on the profile
type DNAService struct {
	profiles       *repository.ProfileRepository
	trees          *repository.TreeRepository
	gateway        DNAGateway
	maxComparisons int
	log            *zap.Logger
}

// NewDNAService creates a new DNA service
func NewDNAService(profiles *repository.ProfileRepository, trees *repository.TreeRepository, gateway DNAGateway, maxComparisons int, log *zap.Logger) *DNAService {
	if maxComparisons <= 0 {
		maxComparisons = ai.DefaultMaxComparisons
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DNAService{
		profiles:       profiles,
		trees:          trees,
		gateway:        gateway,
		maxComparisons: maxComparisons,
		log:            log.Named("dna"),
	}
}

// AnalyzeDNA predicts relatives, estimates ancestry and derives insights
// concurrently, then merges DNA and analysis into the user's profile. Any
// failure is reported as ErrAnalysisFailed and nothing is stored.
func (s *DNAService) AnalyzeDNA(ctx context.Context, userID, dnaData, fileName string) (*models.DNAAnalysis, error) {
	if err := utils.ValidateRequired("userId", userID); err != nil {
		return nil, err
	}
	if err := utils.ValidateRequired("dnaData", dnaData); err != nil {
		return nil, err
	}

	comparisons, err := s.comparisons(ctx, userID)
	if err != nil {
		return nil, s.failed(userID, err)
	}

	familyTree := "None"
	tree, err := s.trees.GetTree(ctx, userID)
	if err != nil {
		s.log.Warn("continuing without family tree", zap.String("user_id", userID), zap.Error(err))
	} else if tree != nil {
		familyTree = kinship.Summarize(tree)
	}

	analysis := &models.DNAAnalysis{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		relatives, err := s.gateway.PredictRelatives(gctx, ai.RelativesInput{
			DNA:         dnaData,
			Comparisons: comparisons,
			FamilyTree:  familyTree,
		})
		if err != nil {
			return fmt.Errorf("predict relatives: %w", err)
		}
		analysis.Relatives = relatives
		return nil
	})
	g.Go(func() error {
		ancestry, err := s.gateway.EstimateAncestry(gctx, dnaData)
		if err != nil {
			return fmt.Errorf("estimate ancestry: %w", err)
		}
		analysis.Ancestry = ancestry
		return nil
	})
	g.Go(func() error {
		insights, err := s.gateway.GenerationalInsights(gctx, dnaData)
		if err != nil {
			return fmt.Errorf("generational insights: %w", err)
		}
		analysis.Insights = insights
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, s.failed(userID, err)
	}

	if analysis.Relatives == nil {
		analysis.Relatives = []models.PredictedRelative{}
	}
	analysis.CompletedAt = time.Now().UTC()

	update := struct {
		UserID      string              `json:"userId"`
		DNAData     string              `json:"dnaData"`
		DNAFileName string              `json:"dnaFileName"`
		Analysis    *models.DNAAnalysis `json:"analysis"`
		UpdatedAt   time.Time           `json:"updatedAt"`
	}{
		UserID:      userID,
		DNAData:     dnaData,
		DNAFileName: fileName,
		Analysis:    analysis,
		UpdatedAt:   analysis.CompletedAt,
	}
	if err := s.profiles.MergeProfile(ctx, userID, update); err != nil {
		return nil, s.failed(userID, err)
	}

	s.log.Info("DNA analysis completed",
		zap.String("user_id", userID),
		zap.Int("comparisons", len(comparisons)),
		zap.Int("relatives", len(analysis.Relatives)))
	return analysis, nil
}

// GetAnalysis returns the stored analysis for a user
func (s *DNAService) GetAnalysis(ctx context.Context, userID string) (*models.DNAAnalysis, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil || profile.Analysis == nil {
		return nil, ErrAnalysisNotFound
	}
	return profile.Analysis, nil
}

// comparisons collects up to maxComparisons other users who uploaded DNA
func (s *DNAService) comparisons(ctx context.Context, userID string) ([]ai.Comparison, error) {
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ai.Comparison, 0, s.maxComparisons)
	for _, p := range profiles {
		if len(out) == s.maxComparisons {
			break
		}
		if p.UserID == userID || !p.HasDNA() {
			continue
		}
		out = append(out, ai.Comparison{UserID: p.UserID, DNA: p.DNAData})
	}
	return out, nil
}

func (s *DNAService) failed(userID string, err error) error {
	s.log.Error("DNA analysis failed", zap.String("user_id", userID), zap.Error(err))
	return fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
}
