package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"kinship/internal/kinship"
	"kinship/internal/models"
	"kinship/internal/repository"
	"kinship/internal/utils"
)

var (
	ErrMemberNotFound = models.ErrMemberNotFound
	ErrMissingFields  = errors.New("missing required fields")
)

// TreeMirror receives every saved tree. Mirrors are best effort: their
// errors are logged and never fail the write.
type TreeMirror interface {
	SyncTree(ctx context.Context, tree *models.Tree) error
}

// TreeService handles family tree business logic
type TreeService struct {
	trees  *repository.TreeRepository
	mirror TreeMirror
	log    *zap.Logger
}

// NewTreeService creates a new tree service. mirror may be nil.
func NewTreeService(trees *repository.TreeRepository, mirror TreeMirror, log *zap.Logger) *TreeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TreeService{trees: trees, mirror: mirror, log: log.Named("tree")}
}

// GetTree returns the user's tree, creating and storing an empty one when missing
func (s *TreeService) GetTree(ctx context.Context, userID string) (*models.Tree, error) {
	if err := utils.ValidateRequired("userId", userID); err != nil {
		return nil, err
	}

	tree, err := s.trees.GetTree(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tree != nil {
		return tree, nil
	}

	tree = models.NewTree(userID)
	if err := s.save(ctx, tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// Groups classifies the user's tree into display groups
func (s *TreeService) Groups(ctx context.Context, userID string) (kinship.Groups, error) {
	tree, err := s.GetTree(ctx, userID)
	if err != nil {
		return kinship.Groups{}, err
	}
	return kinship.ClassifyTree(tree), nil
}

// AddMember inserts or replaces a member
func (s *TreeService) AddMember(ctx context.Context, userID string, member models.Member) (*models.Tree, models.Member, error) {
	if err := member.Validate(); err != nil {
		return nil, models.Member{}, err
	}

	tree, err := s.GetTree(ctx, userID)
	if err != nil {
		return nil, models.Member{}, err
	}

	member = tree.UpsertMember(member)
	if err := s.save(ctx, tree); err != nil {
		return nil, models.Member{}, err
	}
	return tree, member, nil
}

// UpdateMember replaces an existing member; unknown ids are an error
func (s *TreeService) UpdateMember(ctx context.Context, userID, memberID string, member models.Member) (*models.Tree, error) {
	if err := member.Validate(); err != nil {
		return nil, err
	}

	tree, err := s.GetTree(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, ok := tree.Member(memberID); !ok {
		return nil, ErrMemberNotFound
	}

	member.ID = memberID
	tree.UpsertMember(member)
	if err := s.save(ctx, tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// MoveMember stores canvas coordinates for a member
func (s *TreeService) MoveMember(ctx context.Context, userID, memberID string, x, y float64) (*models.Tree, error) {
	tree, err := s.GetTree(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := tree.MoveMember(memberID, x, y); err != nil {
		return nil, err
	}
	if err := s.save(ctx, tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// DeleteMember removes a member and every edge touching it. Deleting a
// member that is already gone still clears dangling edges and succeeds.
func (s *TreeService) DeleteMember(ctx context.Context, userID, memberID string) (*models.Tree, error) {
	tree, err := s.GetTree(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !tree.RemoveMember(memberID) {
		s.log.Debug("delete of absent member", zap.String("user_id", userID), zap.String("member_id", memberID))
	}
	if err := s.save(ctx, tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// LinkRelation stores an edge. With reciprocal the reverse edge is stored as well.
func (s *TreeService) LinkRelation(ctx context.Context, userID string, edge models.Edge, reciprocal bool) (*models.Tree, error) {
	if err := edge.Validate(); err != nil {
		return nil, err
	}

	tree, err := s.GetTree(ctx, userID)
	if err != nil {
		return nil, err
	}

	tree.LinkRelation(edge)
	if reciprocal {
		tree.LinkRelation(models.Edge{
			FromID:   edge.ToID,
			ToID:     edge.FromID,
			Relation: kinship.Reciprocal(edge.Relation),
		})
	}

	if err := s.save(ctx, tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// AddRelative adds a member and links it as linkTo's relation
func (s *TreeService) AddRelative(ctx context.Context, userID string, member models.Member, linkTo string, relation models.EdgeRelation) (*models.Tree, models.Member, error) {
	if err := member.Validate(); err != nil {
		return nil, models.Member{}, err
	}

	tree, err := s.GetTree(ctx, userID)
	if err != nil {
		return nil, models.Member{}, err
	}

	member, err = tree.AddRelative(member, linkTo, relation)
	if err != nil {
		return nil, models.Member{}, err
	}
	if err := s.save(ctx, tree); err != nil {
		return nil, models.Member{}, err
	}
	return tree, member, nil
}

// ReplaceTree overwrites the user's tree
func (s *TreeService) ReplaceTree(ctx context.Context, tree *models.Tree) error {
	return s.save(ctx, tree)
}

func (s *TreeService) save(ctx context.Context, tree *models.Tree) error {
	if err := s.trees.SaveTree(ctx, tree); err != nil {
		return fmt.Errorf("failed to save tree for %s: %w", tree.OwnerUserID, err)
	}

	if s.mirror != nil {
		if err := s.mirror.SyncTree(ctx, tree); err != nil {
			s.log.Warn("tree mirror sync failed", zap.String("user_id", tree.OwnerUserID), zap.Error(err))
		}
	}
	return nil
}
