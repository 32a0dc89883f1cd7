package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"kinship/internal/models"
	"kinship/internal/repository"
)

var (
	ErrInvalidUsers         = errors.New("invalid users")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrConnectionNotFound   = errors.New("connection request not found")
	ErrNotConnectionPartner = errors.New("only the recipient may respond to a connection request")
)

// ConnectionNotifier tells a user about a new connection request
type ConnectionNotifier interface {
	SendConnectionRequestEmail(ctx context.Context, toEmail, toName, fromName string) error
}

// ConnectionService handles connection requests between users
type ConnectionService struct {
	connections *repository.ConnectionRepository
	profiles    *repository.ProfileRepository
	notifier    ConnectionNotifier
	log         *zap.Logger
}

// NewConnectionService creates a new connection service. notifier may be nil.
func NewConnectionService(connections *repository.ConnectionRepository, profiles *repository.ProfileRepository, notifier ConnectionNotifier, log *zap.Logger) *ConnectionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConnectionService{
		connections: connections,
		profiles:    profiles,
		notifier:    notifier,
		log:         log.Named("connections"),
	}
}

// SendRequest creates (or re-opens) a pending request from one user to another
func (s *ConnectionService) SendRequest(ctx context.Context, fromUserID, toUserID string) (*models.ConnectionRequest, error) {
	fromUserID = strings.TrimSpace(fromUserID)
	toUserID = strings.TrimSpace(toUserID)
	if fromUserID == "" || toUserID == "" || fromUserID == toUserID {
		return nil, ErrInvalidUsers
	}

	req := &models.ConnectionRequest{
		ID:         models.ConnectionID(fromUserID, toUserID),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     models.ConnectionPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.connections.SaveRequest(ctx, req); err != nil {
		return nil, err
	}

	s.notify(ctx, req)
	return req, nil
}

// Respond accepts or declines a request addressed to responderID
func (s *ConnectionService) Respond(ctx context.Context, id, responderID string, status models.ConnectionStatus) (*models.ConnectionRequest, error) {
	if status != models.ConnectionAccepted && status != models.ConnectionDeclined {
		return nil, ErrInvalidStatus
	}

	req, err := s.connections.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrConnectionNotFound
	}
	if responderID != "" && responderID != req.ToUserID {
		return nil, ErrNotConnectionPartner
	}

	now := time.Now().UTC()
	req.Status = status
	req.RespondedAt = &now
	if err := s.connections.SaveRequest(ctx, req); err != nil {
		return nil, err
	}

	s.log.Info("connection request answered", zap.String("id", id), zap.String("status", string(status)))
	return req, nil
}

// PendingRequests lists the pending requests a user received and sent
func (s *ConnectionService) PendingRequests(ctx context.Context, userID string) (incoming, outgoing []models.ConnectionRequest, err error) {
	in, out, err := s.connections.ListForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return pendingOnly(in), pendingOnly(out), nil
}

func pendingOnly(reqs []models.ConnectionRequest) []models.ConnectionRequest {
	out := []models.ConnectionRequest{}
	for _, r := range reqs {
		if r.Status == models.ConnectionPending {
			out = append(out, r)
		}
	}
	return out
}

// notify emails the recipient when possible. Failures are only logged.
func (s *ConnectionService) notify(ctx context.Context, req *models.ConnectionRequest) {
	if s.notifier == nil {
		return
	}

	to, err := s.profiles.GetProfile(ctx, req.ToUserID)
	if err != nil || to == nil || to.Email == "" {
		s.log.Debug("no email for connection recipient", zap.String("to_user_id", req.ToUserID), zap.Error(err))
		return
	}

	fromName := req.FromUserID
	if from, err := s.profiles.GetProfile(ctx, req.FromUserID); err == nil && from != nil && from.FullName != "" {
		fromName = from.FullName
	}

	if err := s.notifier.SendConnectionRequestEmail(ctx, to.Email, to.FullName, fromName); err != nil {
		s.log.Warn("failed to send connection request email", zap.String("to_user_id", req.ToUserID), zap.Error(err))
	}
}
