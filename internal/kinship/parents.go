package kinship

import (
	"strings"

	"kinship/internal/models"
)

// Role labels a parent as father or mother
type Role string

const (
	RoleFather  Role = "father"
	RoleMother  Role = "mother"
	RoleUnknown Role = "unknown"
)

// roleIn reads "father" or "mother" out of free text. "grandmother" still
// says mother; callers only ask about members already known to be parents.
func roleIn(s string) Role {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "mother"):
		return RoleMother
	case strings.Contains(s, "father"):
		return RoleFather
	default:
		return RoleUnknown
	}
}

// ParentRole guesses whether m is a father or a mother from the words in
// their relationship string, then their name, then the complementary word
// in a spouse's relationship or name. Gender is deliberately not consulted.
func ParentRole(m models.Member, tree *models.Tree) Role {
	if role := roleIn(m.RelationshipToUser); role != RoleUnknown {
		return role
	}
	if role := roleIn(m.FullName); role != RoleUnknown {
		return role
	}

	if tree == nil {
		return RoleUnknown
	}
	for _, spouse := range SpousesOf(tree, m.ID) {
		role := roleIn(spouse.RelationshipToUser)
		if role == RoleUnknown {
			role = roleIn(spouse.FullName)
		}
		switch role {
		case RoleMother:
			return RoleFather
		case RoleFather:
			return RoleMother
		}
	}
	return RoleUnknown
}

// SpousesOf returns the members joined to id by a spouse edge in either
// direction, in edge order. Only spouse edges are read symmetrically.
func SpousesOf(tree *models.Tree, id string) []models.Member {
	var out []models.Member
	seen := make(map[string]bool)

	for _, e := range tree.Edges {
		if e.Relation != models.RelationSpouse {
			continue
		}
		var other string
		switch id {
		case e.FromID:
			other = e.ToID
		case e.ToID:
			other = e.FromID
		default:
			continue
		}
		if other == id || seen[other] {
			continue
		}
		if m, ok := tree.Member(other); ok {
			seen[other] = true
			out = append(out, m)
		}
	}
	return out
}
