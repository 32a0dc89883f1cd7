package repository

import (
	"context"
	"fmt"

	"kinship/internal/docstore"
	"kinship/internal/models"
)

// ProfileRepository handles the users collection
type ProfileRepository struct {
	store docstore.Store
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(store docstore.Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// GetProfile retrieves a profile, or nil when the user has none
func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := getDocument[models.UserProfile](ctx, r.store, CollectionUsers, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile != nil && profile.UserID == "" {
		profile.UserID = userID
	}
	return profile, nil
}

// MergeProfile deep-merges the given fields into the stored profile,
// creating it when missing. Fields left empty are not written.
func (r *ProfileRepository) MergeProfile(ctx context.Context, userID string, fields any) error {
	if err := putDocument(ctx, r.store, CollectionUsers, userID, fields, true); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// ListProfiles returns every stored profile ordered by user id
func (r *ProfileRepository) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	profiles, ids, err := listDocuments[models.UserProfile](ctx, r.store, CollectionUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	for i := range profiles {
		if profiles[i].UserID == "" {
			profiles[i].UserID = ids[i]
		}
	}
	return profiles, nil
}
