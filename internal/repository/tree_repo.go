package repository

import (
	"context"
	"fmt"

	"kinship/internal/docstore"
	"kinship/internal/models"
)

// TreeRepository stores one family tree per user
type TreeRepository struct {
	store docstore.Store
}

// NewTreeRepository creates a new tree repository
func NewTreeRepository(store docstore.Store) *TreeRepository {
	return &TreeRepository{store: store}
}

// GetTree retrieves a user's tree, or nil when the user has none
func (r *TreeRepository) GetTree(ctx context.Context, userID string) (*models.Tree, error) {
	tree, err := getDocument[models.Tree](ctx, r.store, CollectionFamilyTrees, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}
	if tree == nil {
		return nil, nil
	}
	if tree.OwnerUserID == "" {
		tree.OwnerUserID = userID
	}
	if tree.Members == nil {
		tree.Members = []models.Member{}
	}
	if tree.Edges == nil {
		tree.Edges = []models.Edge{}
	}
	return tree, nil
}

// SaveTree overwrites the stored tree
func (r *TreeRepository) SaveTree(ctx context.Context, tree *models.Tree) error {
	if err := putDocument(ctx, r.store, CollectionFamilyTrees, tree.OwnerUserID, tree, false); err != nil {
		return fmt.Errorf("failed to save tree: %w", err)
	}
	return nil
}
