package kinship

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinship/internal/models"
)

func TestSyncFamilyData(t *testing.T) {
	x, y := 40.0, 80.0
	previous := models.NewTree("u1")
	previous.UpsertMember(models.Member{ID: "h1", FullName: "Old Name", PhotoURL: "p.png", X: &x, Y: &y})
	previous.UpsertMember(models.Member{ID: "gone", FullName: "Removed"})

	data := models.FamilyData{
		FamilyHeads: []models.FamilyHead{
			{ID: "h1", Name: "John", Relationship: "father"},
			{ID: "h2", Name: "Grace", Relationship: "grandmother"},
		},
		FamilyMembers: []models.FamilyMember{
			{ID: "m1", Name: "Tom", Relationship: "son", RelationshipToUser: "brother", ConnectedTo: "h1", BirthPlace: "Leeds"},
			{ID: "m2", Name: "Ann", Relationship: "sister", RelationshipToUser: "Aunt", ConnectedTo: "h1"},
			{ID: "m3", Name: "Pat", Relationship: "daughter", ConnectedTo: "h2"},
			{ID: "m4", Name: "Sue", RelationshipToUser: "neighbour", ConnectedTo: "h1"},
			{ID: "m5", Name: "Kim", RelationshipToUser: "sister", ConnectedTo: "missing"},
			{Name: "No ID", RelationshipToUser: "sister", ConnectedTo: "h1"},
		},
	}

	tree := SyncFamilyData(previous, "u1", data)

	assert.Equal(t, "u1", tree.OwnerUserID)
	assert.Equal(t, []string{"h1", "h2", "m1", "m2", "m3", "m4", "m5"}, ids(tree.Members))

	head, ok := tree.Member("h1")
	require.True(t, ok)
	assert.Equal(t, "John", head.FullName)
	assert.Equal(t, "p.png", head.PhotoURL)
	require.True(t, head.HasPosition())
	assert.Equal(t, 40.0, *head.X)

	tom, _ := tree.Member("m1")
	assert.Equal(t, "Leeds", tom.BirthPlace)
	assert.Equal(t, "brother", tom.RelationshipToUser)

	assert.Equal(t, []models.Edge{
		{FromID: "h1", ToID: "m1", Relation: models.RelationSibling},
		{FromID: "h1", ToID: "m2", Relation: models.RelationCousin},
		{FromID: "h2", ToID: "m3", Relation: models.RelationChild},
	}, tree.Edges)

	_, ok = tree.Member("gone")
	assert.False(t, ok)
}

func TestSyncFamilyDataRepeatedIDs(t *testing.T) {
	data := models.FamilyData{
		FamilyHeads: []models.FamilyHead{
			{ID: "a", Name: "Alice", Relationship: "mother"},
		},
		FamilyMembers: []models.FamilyMember{
			{ID: "a", Name: "Alice Again", RelationshipToUser: "aunt", ConnectedTo: "a"},
			{ID: "b", Name: "Bob", RelationshipToUser: "brother", ConnectedTo: "a"},
			{ID: "b", Name: "Bobby", RelationshipToUser: "brother", ConnectedTo: "a"},
		},
	}

	tree := SyncFamilyData(nil, "u1", data)

	assert.Equal(t, []string{"a", "b"}, ids(tree.Members))
	bob, ok := tree.Member("b")
	require.True(t, ok)
	assert.Equal(t, "Bobby", bob.FullName)
	assert.Equal(t, []models.Edge{
		{FromID: "a", ToID: "b", Relation: models.RelationSibling},
	}, tree.Edges)

	// Upserting afterwards replaces the single copy
	tree.UpsertMember(models.Member{ID: "b", FullName: "Robert"})
	assert.Equal(t, []string{"a", "b"}, ids(tree.Members))
}

func TestSyncFamilyDataEmpty(t *testing.T) {
	tree := SyncFamilyData(nil, "u1", models.FamilyData{})

	assert.Empty(t, tree.Members)
	assert.Empty(t, tree.Edges)
	assert.False(t, tree.UpdatedAt.IsZero())
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "None", Summarize(nil))
	assert.Equal(t, "None", Summarize(models.NewTree("u1")))

	tree := models.NewTree("u1")
	tree.UpsertMember(models.Member{ID: "me", FullName: "Ada"})
	tree.UpsertMember(models.Member{ID: "mom", FullName: "Mary", RelationshipToUser: "mother", BirthPlace: "York"})
	tree.UpsertMember(models.Member{ID: "g", FullName: "Grace", RelationshipToUser: "grandmother"})
	tree.LinkRelation(models.Edge{FromID: "me", ToID: "mom", Relation: models.RelationParent})

	summary := Summarize(tree)

	assert.Contains(t, summary, "Parents: Mary (in York)")
	assert.Contains(t, summary, "Grandmother: Grace")
	assert.Contains(t, summary, "Mary is Ada's parent")
}
