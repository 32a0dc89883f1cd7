package repository

import (
	"context"
	"fmt"

	"kinship/internal/docstore"
	"kinship/internal/models"
)

// FamilyDataRepository stores the family-information form, one document per user
type FamilyDataRepository struct {
	store docstore.Store
}

// NewFamilyDataRepository creates a new family data repository
func NewFamilyDataRepository(store docstore.Store) *FamilyDataRepository {
	return &FamilyDataRepository{store: store}
}

// GetFamilyData retrieves a user's family data, or nil when none was saved
func (r *FamilyDataRepository) GetFamilyData(ctx context.Context, userID string) (*models.FamilyData, error) {
	data, err := getDocument[models.FamilyData](ctx, r.store, CollectionFamilyData, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family data: %w", err)
	}
	return data, nil
}

// SaveFamilyData overwrites a user's family data
func (r *FamilyDataRepository) SaveFamilyData(ctx context.Context, userID string, data *models.FamilyData) error {
	if err := putDocument(ctx, r.store, CollectionFamilyData, userID, data, false); err != nil {
		return fmt.Errorf("failed to save family data: %w", err)
	}
	return nil
}
