package kinship

import (
	"sort"
	"strings"

	"kinship/internal/models"
)

// Groups are the display buckets produced by Classify
type Groups struct {
	Parents  []models.Member            `json:"parents"`
	Siblings []models.Member            `json:"siblings"`
	Other    map[string][]models.Member `json:"other"`
}

// OtherKeys returns the keys of Other in sorted order
func (g Groups) OtherKeys() []string {
	keys := make([]string, 0, len(g.Other))
	for k := range g.Other {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type bucket struct {
	members []models.Member
	seen    map[string]bool
}

func (b *bucket) add(m models.Member) {
	if b.seen == nil {
		b.seen = make(map[string]bool)
	}
	if b.seen[m.ID] {
		return
	}
	b.seen[m.ID] = true
	b.members = append(b.members, m)
}

// Classify sorts members into parents, siblings and other groups.
//
// A member's own relationshipToUser string wins. Members without one fall
// back to the edges that point at them: an incoming parent edge makes them a
// parent, sibling a sibling, and any other tag files them under that tag.
// Members without an id, or with nothing to go on, land in no group. Each
// group lists a member at most once, in member order.
func Classify(members []models.Member, edges []models.Edge) Groups {
	var parents, siblings bucket
	other := make(map[string]*bucket)
	var otherOrder []string

	addOther := func(key string, m models.Member) {
		b, ok := other[key]
		if !ok {
			b = &bucket{}
			other[key] = b
			otherOrder = append(otherOrder, key)
		}
		b.add(m)
	}

	linked := &models.Tree{Edges: edges}

	for _, m := range members {
		if m.ID == "" {
			continue
		}

		if rel := ParseRelation(m.RelationshipToUser); rel.Kind != KindNone {
			switch rel.Kind {
			case KindParent:
				parents.add(m)
			case KindSibling:
				siblings.add(m)
			default:
				addOther(rel.Literal, m)
			}
			continue
		}

		for _, e := range linked.EdgesTo(m.ID) {
			tag := strings.ToLower(strings.TrimSpace(string(e.Relation)))
			switch tag {
			case "":
			case string(models.RelationParent):
				parents.add(m)
			case string(models.RelationSibling):
				siblings.add(m)
			default:
				addOther(tag, m)
			}
		}
	}

	groups := Groups{
		Parents:  parents.members,
		Siblings: siblings.members,
		Other:    make(map[string][]models.Member, len(other)),
	}
	for _, key := range otherOrder {
		groups.Other[key] = other[key].members
	}
	if groups.Parents == nil {
		groups.Parents = []models.Member{}
	}
	if groups.Siblings == nil {
		groups.Siblings = []models.Member{}
	}
	return groups
}

// ClassifyTree classifies the members and edges of a tree
func ClassifyTree(tree *models.Tree) Groups {
	if tree == nil {
		return Classify(nil, nil)
	}
	return Classify(tree.Members, tree.Edges)
}
