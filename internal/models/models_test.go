package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Tree {
	tree := NewTree("owner")
	tree.UpsertMember(Member{ID: "me", FullName: "Ada"})
	tree.UpsertMember(Member{ID: "mom", FullName: "Mary", RelationshipToUser: "mother"})
	tree.UpsertMember(Member{ID: "sis", FullName: "Jane", RelationshipToUser: "sister"})
	tree.LinkRelation(Edge{FromID: "me", ToID: "mom", Relation: RelationParent})
	tree.LinkRelation(Edge{FromID: "me", ToID: "sis", Relation: RelationSibling})
	return tree
}

func TestMemberValidation(t *testing.T) {
	tests := []struct {
		name    string
		member  Member
		wantErr bool
	}{
		{name: "valid member", member: Member{FullName: "Ada Lovelace"}, wantErr: false},
		{name: "missing name", member: Member{}, wantErr: true},
		{name: "whitespace name", member: Member{FullName: "   "}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.member.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Member.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEdgeValidation(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantErr bool
	}{
		{name: "valid edge", edge: Edge{FromID: "a", ToID: "b", Relation: RelationSpouse}},
		{name: "missing from", edge: Edge{ToID: "b", Relation: RelationSpouse}, wantErr: true},
		{name: "missing to", edge: Edge{FromID: "a", Relation: RelationSpouse}, wantErr: true},
		{name: "unknown relation", edge: Edge{FromID: "a", ToID: "b", Relation: "aunt"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.edge.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Edge.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpsertMemberIsIdempotent(t *testing.T) {
	tree := sampleTree()
	before := len(tree.Members)

	m := Member{ID: "mom", FullName: "Mary Smith"}
	tree.UpsertMember(m)
	tree.UpsertMember(m)

	assert.Len(t, tree.Members, before)
	got, ok := tree.Member("mom")
	require.True(t, ok)
	assert.Equal(t, "Mary Smith", got.FullName)
}

func TestUpsertMemberAssignsID(t *testing.T) {
	tree := NewTree("owner")
	m := tree.UpsertMember(Member{FullName: "New"})

	assert.NotEmpty(t, m.ID)
	_, ok := tree.Member(m.ID)
	assert.True(t, ok)
}

func TestUpsertMemberKeepsPosition(t *testing.T) {
	tree := sampleTree()
	require.NoError(t, tree.MoveMember("mom", 10, 20))

	tree.UpsertMember(Member{ID: "mom", FullName: "Mary"})

	got, _ := tree.Member("mom")
	require.True(t, got.HasPosition())
	assert.Equal(t, 10.0, *got.X)
	assert.Equal(t, 20.0, *got.Y)
}

func TestLinkRelationDeduplicates(t *testing.T) {
	tree := sampleTree()
	before := len(tree.Edges)

	e := Edge{FromID: "me", ToID: "mom", Relation: RelationParent}
	tree.LinkRelation(e)
	tree.LinkRelation(e)

	assert.Len(t, tree.Edges, before)
	assert.Equal(t, e, tree.Edges[len(tree.Edges)-1], "re-linked edge moves to the end")
}

func TestLinkRelationHasNoImplicitReciprocal(t *testing.T) {
	tree := NewTree("owner")
	tree.LinkRelation(Edge{FromID: "a", ToID: "b", Relation: RelationParent})

	assert.Equal(t, []Edge{{FromID: "a", ToID: "b", Relation: RelationParent}}, tree.Edges)
	assert.Empty(t, tree.EdgesTo("a"))
}

func TestRemoveMemberCascades(t *testing.T) {
	tree := sampleTree()
	tree.LinkRelation(Edge{FromID: "mom", ToID: "sis", Relation: RelationChild})

	assert.True(t, tree.RemoveMember("mom"))

	_, ok := tree.Member("mom")
	assert.False(t, ok)
	for _, e := range tree.Edges {
		assert.NotEqual(t, "mom", e.FromID)
		assert.NotEqual(t, "mom", e.ToID)
	}
	assert.Len(t, tree.Edges, 1)

	assert.False(t, tree.RemoveMember("mom"), "second delete finds nothing")
}

func TestMoveMember(t *testing.T) {
	tree := sampleTree()

	require.NoError(t, tree.MoveMember("sis", 1.5, -2))
	got, _ := tree.Member("sis")
	assert.Equal(t, 1.5, *got.X)
	assert.Equal(t, -2.0, *got.Y)

	err := tree.MoveMember("ghost", 0, 0)
	assert.True(t, errors.Is(err, ErrMemberNotFound))
}

func TestAddRelative(t *testing.T) {
	tree := sampleTree()

	grandma, err := tree.AddRelative(Member{FullName: "Grace"}, "mom", RelationParent)
	require.NoError(t, err)
	assert.Contains(t, tree.Edges, Edge{FromID: "mom", ToID: grandma.ID, Relation: RelationParent})

	_, err = tree.AddRelative(Member{FullName: "Nobody"}, "ghost", RelationParent)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	_, err = tree.AddRelative(Member{FullName: "Nobody"}, "mom", "aunt")
	assert.Error(t, err)

	loose, err := tree.AddRelative(Member{FullName: "Loose"}, "", "")
	require.NoError(t, err)
	assert.Empty(t, tree.EdgesTo(loose.ID))
}

func TestFamilyDataValidation(t *testing.T) {
	valid := FamilyData{
		FamilyHeads:   []FamilyHead{{ID: "h1", Name: "John", Relationship: "father"}},
		FamilyMembers: []FamilyMember{{ID: "m1", Name: "Tom", ConnectedTo: "h1"}},
	}
	assert.NoError(t, valid.Validate())

	noHeadName := valid
	noHeadName.FamilyHeads = []FamilyHead{{ID: "h1"}}
	assert.Error(t, noHeadName.Validate())

	noMemberName := valid
	noMemberName.FamilyMembers = []FamilyMember{{ID: "m1"}}
	assert.Error(t, noMemberName.Validate())
}

func TestConnectionID(t *testing.T) {
	assert.Equal(t, "alice_bob", ConnectionID("alice", "bob"))
}
