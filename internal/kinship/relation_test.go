package kinship

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kinship/internal/models"
)

func TestParseRelation(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"", KindNone},
		{"   ", KindNone},
		{"Mother", KindParent},
		{"step-father", KindParent},
		{"Parent", KindParent},
		{"Step-Sister", KindSibling},
		{"half brother", KindSibling},
		{"grandmother", KindGrandparent},
		{"Great-Grandfather", KindGrandparent},
		{"grandson", KindGrandchild},
		{"mother-in-law", KindOther},
		{"brother in law", KindOther},
		{"uncle", KindCousin},
		{"Aunt", KindCousin},
		{"second cousin", KindCousin},
		{"niece", KindCousin},
		{"wife", KindSpouse},
		{"partner", KindSpouse},
		{"daughter", KindChild},
		{"stepson", KindChild},
		{"godparent", KindParent},
		{"great-aunt", KindCousin},
		{"Great uncle", KindCousin},
		{"Grand-aunt", KindCousin},
		{"great-grandson", KindGrandchild},
		{"stepdaughter", KindChild},
		{"children", KindChild},
		{"Person", KindOther},
		{"sonny", KindOther},
		{"friend", KindOther},
		{"other", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseRelation(tt.input)
			assert.Equal(t, tt.want, got.Kind, "ParseRelation(%q) = %s", tt.input, got.Kind)
		})
	}
}

func TestParseRelationKeepsLowerCasedLiteral(t *testing.T) {
	assert.Equal(t, "great-uncle", ParseRelation("  Great-Uncle ").Literal)
}

func TestEdgeRelationFor(t *testing.T) {
	tests := []struct {
		input  string
		want   models.EdgeRelation
		wantOK bool
	}{
		{"Father", models.RelationParent, true},
		{"grandfather", models.RelationGrandparent, true},
		{"granddaughter", models.RelationGrandchild, true},
		{"Sister", models.RelationSibling, true},
		{"son", models.RelationChild, true},
		{"husband", models.RelationSpouse, true},
		{"uncle", models.RelationCousin, true},
		{"nephew", models.RelationCousin, true},
		{"Great uncle", models.RelationCousin, true},
		{"Grand-aunt", models.RelationCousin, true},
		{"Person", "", false},
		{"sister-in-law", "", false},
		{"neighbour", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := EdgeRelationFor(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReciprocal(t *testing.T) {
	tests := []struct {
		in, want models.EdgeRelation
	}{
		{models.RelationParent, models.RelationChild},
		{models.RelationChild, models.RelationParent},
		{models.RelationGrandparent, models.RelationGrandchild},
		{models.RelationGrandchild, models.RelationGrandparent},
		{models.RelationSibling, models.RelationSibling},
		{models.RelationSpouse, models.RelationSpouse},
		{models.RelationCousin, models.RelationCousin},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, Reciprocal(tt.in))
			assert.Equal(t, tt.in, Reciprocal(Reciprocal(tt.in)))
		})
	}
}
