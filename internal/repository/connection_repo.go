package repository

import (
	"context"
	"fmt"

	"kinship/internal/docstore"
	"kinship/internal/models"
)

// ConnectionRepository stores connection requests keyed by from_to
type ConnectionRepository struct {
	store docstore.Store
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(store docstore.Store) *ConnectionRepository {
	return &ConnectionRepository{store: store}
}

// GetRequest retrieves a request by id, or nil when it does not exist
func (r *ConnectionRepository) GetRequest(ctx context.Context, id string) (*models.ConnectionRequest, error) {
	req, err := getDocument[models.ConnectionRequest](ctx, r.store, CollectionConnectionRequests, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection request: %w", err)
	}
	if req != nil && req.ID == "" {
		req.ID = id
	}
	return req, nil
}

// SaveRequest writes a request under its id
func (r *ConnectionRepository) SaveRequest(ctx context.Context, req *models.ConnectionRequest) error {
	if err := putDocument(ctx, r.store, CollectionConnectionRequests, req.ID, req, false); err != nil {
		return fmt.Errorf("failed to save connection request: %w", err)
	}
	return nil
}

// ListForUser returns the requests a user sent and received
func (r *ConnectionRepository) ListForUser(ctx context.Context, userID string) (incoming, outgoing []models.ConnectionRequest, err error) {
	all, ids, err := listDocuments[models.ConnectionRequest](ctx, r.store, CollectionConnectionRequests)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list connection requests: %w", err)
	}

	incoming = []models.ConnectionRequest{}
	outgoing = []models.ConnectionRequest{}
	for i, req := range all {
		if req.ID == "" {
			req.ID = ids[i]
		}
		switch userID {
		case req.ToUserID:
			incoming = append(incoming, req)
		case req.FromUserID:
			outgoing = append(outgoing, req)
		}
	}
	return incoming, outgoing, nil
}
