package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"kinship/internal/utils"
)

// ErrMemberNotFound is returned when a tree operation names a member that is not in the tree
var ErrMemberNotFound = errors.New("member not found")

// EdgeRelation is the controlled vocabulary for tree edges
type EdgeRelation string

const (
	RelationParent      EdgeRelation = "parent"
	RelationChild       EdgeRelation = "child"
	RelationSibling     EdgeRelation = "sibling"
	RelationSpouse      EdgeRelation = "spouse"
	RelationGrandparent EdgeRelation = "grandparent"
	RelationGrandchild  EdgeRelation = "grandchild"
	RelationCousin      EdgeRelation = "cousin"
)

// EdgeRelations lists every accepted edge relation
var EdgeRelations = []EdgeRelation{
	RelationParent,
	RelationChild,
	RelationSibling,
	RelationSpouse,
	RelationGrandparent,
	RelationGrandchild,
	RelationCousin,
}

// Valid reports whether r is part of the edge vocabulary
func (r EdgeRelation) Valid() bool {
	for _, known := range EdgeRelations {
		if r == known {
			return true
		}
	}
	return false
}

// Member is a person node in a family tree
type Member struct {
	ID                 string   `json:"id"`
	FullName           string   `json:"fullName"`
	Gender             string   `json:"gender,omitempty"`
	BirthDate          string   `json:"birthDate,omitempty"`
	BirthPlace         string   `json:"birthPlace,omitempty"`
	PhotoURL           string   `json:"photoUrl,omitempty"`
	Notes              string   `json:"notes,omitempty"`
	RelationshipToUser string   `json:"relationshipToUser,omitempty"`
	X                  *float64 `json:"x,omitempty"`
	Y                  *float64 `json:"y,omitempty"`
}

// Validate checks the fields a member must carry before it is stored
func (m Member) Validate() error {
	if strings.TrimSpace(m.FullName) == "" {
		return utils.ValidationError{Field: "fullName", Message: "full name is required"}
	}
	return nil
}

// HasPosition reports whether the member has canvas coordinates
func (m Member) HasPosition() bool {
	return m.X != nil && m.Y != nil
}

// Edge is a directed, typed link. It reads "ToID is FromID's Relation".
type Edge struct {
	FromID   string       `json:"fromId"`
	ToID     string       `json:"toId"`
	Relation EdgeRelation `json:"relation"`
}

// Validate checks that both endpoints are set and the relation is known
func (e Edge) Validate() error {
	if e.FromID == "" {
		return utils.ValidationError{Field: "fromId", Message: "fromId is required"}
	}
	if e.ToID == "" {
		return utils.ValidationError{Field: "toId", Message: "toId is required"}
	}
	if !e.Relation.Valid() {
		return utils.ValidationError{Field: "relation", Message: "unknown relation " + string(e.Relation)}
	}
	return nil
}

// Tree is one user's family tree. Edges referencing missing members are tolerated.
type Tree struct {
	OwnerUserID string    `json:"ownerUserId"`
	Members     []Member  `json:"members"`
	Edges       []Edge    `json:"edges"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTree returns an empty tree owned by userID
func NewTree(userID string) *Tree {
	return &Tree{
		OwnerUserID: userID,
		Members:     []Member{},
		Edges:       []Edge{},
		UpdatedAt:   time.Now().UTC(),
	}
}

func (t *Tree) touch() {
	t.UpdatedAt = time.Now().UTC()
}

// Member looks up a member by id
func (t *Tree) Member(id string) (Member, bool) {
	if i := t.memberIndex(id); i >= 0 {
		return t.Members[i], true
	}
	return Member{}, false
}

func (t *Tree) memberIndex(id string) int {
	for i, m := range t.Members {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// UpsertMember inserts the member or replaces the one with the same id.
// An empty id is assigned a fresh UUID. Coordinates already on the stored
// member survive a replacement that does not carry its own.
func (t *Tree) UpsertMember(m Member) Member {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	if i := t.memberIndex(m.ID); i >= 0 {
		if !m.HasPosition() && t.Members[i].HasPosition() {
			m.X, m.Y = t.Members[i].X, t.Members[i].Y
		}
		t.Members[i] = m
	} else {
		t.Members = append(t.Members, m)
	}

	t.touch()
	return m
}

// LinkRelation appends the edge after removing any identical triple, so
// linking twice leaves a single edge. No reciprocal is inferred.
func (t *Tree) LinkRelation(e Edge) {
	edges := t.Edges[:0:0]
	for _, existing := range t.Edges {
		if existing == e {
			continue
		}
		edges = append(edges, existing)
	}
	t.Edges = append(edges, e)
	t.touch()
}

// RemoveMember deletes the member and every edge touching it. It reports
// whether the member was present; dangling edges are removed either way.
func (t *Tree) RemoveMember(id string) bool {
	found := false
	members := t.Members[:0:0]
	for _, m := range t.Members {
		if m.ID == id {
			found = true
			continue
		}
		members = append(members, m)
	}
	t.Members = members

	edges := t.Edges[:0:0]
	for _, e := range t.Edges {
		if e.FromID == id || e.ToID == id {
			continue
		}
		edges = append(edges, e)
	}
	t.Edges = edges

	t.touch()
	return found
}

// MoveMember stores new canvas coordinates for a member
func (t *Tree) MoveMember(id string, x, y float64) error {
	i := t.memberIndex(id)
	if i < 0 {
		return ErrMemberNotFound
	}
	t.Members[i].X = &x
	t.Members[i].Y = &y
	t.touch()
	return nil
}

// AddRelative upserts the member and, when linkTo is set, links it as
// linkTo's relation: the edge {linkTo -> member, relation}.
func (t *Tree) AddRelative(m Member, linkTo string, relation EdgeRelation) (Member, error) {
	if linkTo != "" {
		if _, ok := t.Member(linkTo); !ok {
			return Member{}, ErrMemberNotFound
		}
		if !relation.Valid() {
			return Member{}, utils.ValidationError{Field: "relation", Message: "unknown relation " + string(relation)}
		}
	}

	m = t.UpsertMember(m)
	if linkTo != "" {
		t.LinkRelation(Edge{FromID: linkTo, ToID: m.ID, Relation: relation})
	}
	return m, nil
}

// EdgesTo returns the edges whose target is id, in stored order
func (t *Tree) EdgesTo(id string) []Edge {
	var out []Edge
	for _, e := range t.Edges {
		if e.ToID == id {
			out = append(out, e)
		}
	}
	return out
}
