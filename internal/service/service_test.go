package service

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"kinship/internal/ai"
	"kinship/internal/docstore"
	"kinship/internal/models"
	"kinship/internal/repository"
)

type fixture struct {
	store       *docstore.MemoryStore
	trees       *repository.TreeRepository
	familyData  *repository.FamilyDataRepository
	profiles    *repository.ProfileRepository
	connections *repository.ConnectionRepository
	log         *zap.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	return &fixture{
		store:       store,
		trees:       repository.NewTreeRepository(store),
		familyData:  repository.NewFamilyDataRepository(store),
		profiles:    repository.NewProfileRepository(store),
		connections: repository.NewConnectionRepository(store),
		log:         zaptest.NewLogger(t),
	}
}

func (f *fixture) treeService(mirror TreeMirror) *TreeService {
	return NewTreeService(f.trees, mirror, f.log)
}

type recordingMirror struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (m *recordingMirror) SyncTree(ctx context.Context, tree *models.Tree) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, tree.OwnerUserID)
	return m.err
}

type fakeDNAGateway struct {
	mu          sync.Mutex
	relatives   []models.PredictedRelative
	ancestry    models.AncestryEstimate
	insights    models.GenerationalInsights
	relativesIn ai.RelativesInput
	ancestryErr error
}

func (g *fakeDNAGateway) PredictRelatives(ctx context.Context, in ai.RelativesInput) ([]models.PredictedRelative, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.relativesIn = in
	return g.relatives, nil
}

func (g *fakeDNAGateway) EstimateAncestry(ctx context.Context, snpData string) (models.AncestryEstimate, error) {
	if g.ancestryErr != nil {
		return models.AncestryEstimate{}, g.ancestryErr
	}
	return g.ancestry, nil
}

func (g *fakeDNAGateway) GenerationalInsights(ctx context.Context, markers string) (models.GenerationalInsights, error) {
	return g.insights, nil
}

func (g *fakeDNAGateway) input() ai.RelativesInput {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.relativesIn
}

type fakeAssistant struct {
	answer      string
	err         error
	query       string
	userContext string
	calls       int
}

func (a *fakeAssistant) AskAssistant(ctx context.Context, query, userContext string) (string, error) {
	a.calls++
	a.query = query
	a.userContext = userContext
	return a.answer, a.err
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (n *fakeNotifier) SendConnectionRequestEmail(ctx context.Context, toEmail, toName, fromName string) error {
	n.sent = append(n.sent, toEmail+"|"+toName+"|"+fromName)
	return n.err
}
