package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kinship/internal/kinship"
	"kinship/internal/models"
	"kinship/internal/repository"
	"kinship/internal/utils"
)

// ErrFamilySaveFailed is returned when family data or its tree could not be stored
var ErrFamilySaveFailed = errors.New("failed to save family information")

// FamilyService handles the family-information form and its sync into the tree
type FamilyService struct {
	familyData *repository.FamilyDataRepository
	trees      *repository.TreeRepository
	treeSvc    *TreeService
	log        *zap.Logger
}

// NewFamilyService creates a new family service
func NewFamilyService(familyData *repository.FamilyDataRepository, trees *repository.TreeRepository, treeSvc *TreeService, log *zap.Logger) *FamilyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FamilyService{
		familyData: familyData,
		trees:      trees,
		treeSvc:    treeSvc,
		log:        log.Named("family"),
	}
}

// GetFamilyData returns the user's family data, empty when none was saved
func (s *FamilyService) GetFamilyData(ctx context.Context, userID string) (*models.FamilyData, error) {
	if err := utils.ValidateRequired("userId", userID); err != nil {
		return nil, err
	}

	data, err := s.familyData.GetFamilyData(ctx, userID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = &models.FamilyData{}
	}
	if data.FamilyHeads == nil {
		data.FamilyHeads = []models.FamilyHead{}
	}
	if data.FamilyMembers == nil {
		data.FamilyMembers = []models.FamilyMember{}
	}
	return data, nil
}

// SaveFamilyData overwrites the user's family data and rebuilds their tree from it.
// Heads and members without an id are given one.
func (s *FamilyService) SaveFamilyData(ctx context.Context, userID string, heads []models.FamilyHead, members []models.FamilyMember) (*models.Tree, error) {
	if err := utils.ValidateRequired("userId", userID); err != nil {
		return nil, err
	}

	data := &models.FamilyData{
		FamilyHeads:   append([]models.FamilyHead{}, heads...),
		FamilyMembers: append([]models.FamilyMember{}, members...),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	for i := range data.FamilyHeads {
		if data.FamilyHeads[i].ID == "" {
			data.FamilyHeads[i].ID = uuid.NewString()
		}
	}
	for i := range data.FamilyMembers {
		if data.FamilyMembers[i].ID == "" {
			data.FamilyMembers[i].ID = uuid.NewString()
		}
	}

	if err := s.familyData.SaveFamilyData(ctx, userID, data); err != nil {
		s.log.Error("failed to save family data", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrFamilySaveFailed, err)
	}

	previous, err := s.trees.GetTree(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFamilySaveFailed, err)
	}

	tree := kinship.SyncFamilyData(previous, userID, *data)
	if err := s.treeSvc.ReplaceTree(ctx, tree); err != nil {
		s.log.Error("failed to sync family tree", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrFamilySaveFailed, err)
	}

	s.log.Info("family data saved",
		zap.String("user_id", userID),
		zap.Int("heads", len(data.FamilyHeads)),
		zap.Int("members", len(data.FamilyMembers)),
		zap.Int("edges", len(tree.Edges)))
	return tree, nil
}
