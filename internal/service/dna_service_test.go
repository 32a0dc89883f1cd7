package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinship/internal/models"
)

func seedProfile(t *testing.T, f *fixture, userID string, fields map[string]any) {
	t.Helper()
	fields["userId"] = userID
	require.NoError(t, f.profiles.MergeProfile(context.Background(), userID, fields))
}

func TestDNAService_AnalyzeStoresResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedProfile(t, f, "me", map[string]any{"fullName": "Me"})
	seedProfile(t, f, "other", map[string]any{"fullName": "Other", "dnaData": "rs1 AA"})
	seedProfile(t, f, "nodna", map[string]any{"fullName": "No DNA"})

	gw := &fakeDNAGateway{
		relatives: []models.PredictedRelative{{UserID: "other", PredictedRelationship: "cousin", RelationshipProbability: 0.8}},
		ancestry:  models.AncestryEstimate{EthnicityEstimates: "60% West African"},
		insights:  models.GenerationalInsights{TraitInsights: "tall"},
	}
	svc := NewDNAService(f.profiles, f.trees, gw, 50, f.log)

	analysis, err := svc.AnalyzeDNA(ctx, "me", "rs1 AG", "me.txt")
	require.NoError(t, err)
	require.Len(t, analysis.Relatives, 1)
	assert.Equal(t, "60% West African", analysis.Ancestry.EthnicityEstimates)
	assert.Equal(t, "tall", analysis.Insights.TraitInsights)
	assert.False(t, analysis.CompletedAt.IsZero())

	in := gw.input()
	require.Len(t, in.Comparisons, 1)
	assert.Equal(t, "other", in.Comparisons[0].UserID)
	assert.Equal(t, "None", in.FamilyTree)

	profile, err := f.profiles.GetProfile(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, "Me", profile.FullName, "merge keeps existing fields")
	assert.Equal(t, "rs1 AG", profile.DNAData)
	assert.Equal(t, "me.txt", profile.DNAFileName)
	require.NotNil(t, profile.Analysis)

	stored, err := svc.GetAnalysis(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, "cousin", stored.Relatives[0].PredictedRelationship)
}

func TestDNAService_ReanalysisReplacesFileName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedProfile(t, f, "me", map[string]any{"fullName": "Me"})
	svc := NewDNAService(f.profiles, f.trees, &fakeDNAGateway{}, 50, f.log)

	_, err := svc.AnalyzeDNA(ctx, "me", "rs1 AG", "first.txt")
	require.NoError(t, err)
	_, err = svc.AnalyzeDNA(ctx, "me", "rs2 CT", "")
	require.NoError(t, err)

	profile, err := f.profiles.GetProfile(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, "rs2 CT", profile.DNAData)
	assert.Empty(t, profile.DNAFileName, "a pasted upload must not inherit the previous file name")
}

func TestDNAService_CapsComparisons(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		seedProfile(t, f, fmt.Sprintf("user%d", i), map[string]any{"dnaData": "rs1 AA"})
	}
	gw := &fakeDNAGateway{}
	svc := NewDNAService(f.profiles, f.trees, gw, 3, f.log)

	analysis, err := svc.AnalyzeDNA(context.Background(), "user0", "rs1 GG", "")
	require.NoError(t, err)
	assert.NotNil(t, analysis.Relatives)

	in := gw.input()
	require.Len(t, in.Comparisons, 3)
	for _, c := range in.Comparisons {
		assert.NotEqual(t, "user0", c.UserID)
	}
}

func TestDNAService_FailureStoresNothing(t *testing.T) {
	f := newFixture(t)
	gw := &fakeDNAGateway{ancestryErr: errors.New("model unavailable")}
	svc := NewDNAService(f.profiles, f.trees, gw, 50, f.log)
	ctx := context.Background()

	_, err := svc.AnalyzeDNA(ctx, "me", "rs1 AG", "")
	assert.ErrorIs(t, err, ErrAnalysisFailed)

	profile, err := f.profiles.GetProfile(ctx, "me")
	require.NoError(t, err)
	assert.Nil(t, profile)

	_, err = svc.GetAnalysis(ctx, "me")
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
}

func TestDNAService_Validation(t *testing.T) {
	f := newFixture(t)
	svc := NewDNAService(f.profiles, f.trees, &fakeDNAGateway{}, 50, f.log)

	_, err := svc.AnalyzeDNA(context.Background(), "me", "  ", "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAnalysisFailed)
}

func TestDNAService_SummarizesTree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.treeService(nil).AddMember(ctx, "me", models.Member{FullName: "Ada", RelationshipToUser: "mother"})
	require.NoError(t, err)

	gw := &fakeDNAGateway{}
	svc := NewDNAService(f.profiles, f.trees, gw, 50, f.log)
	_, err = svc.AnalyzeDNA(ctx, "me", "rs1 AG", "")
	require.NoError(t, err)

	assert.Contains(t, gw.input().FamilyTree, "Ada")
}
