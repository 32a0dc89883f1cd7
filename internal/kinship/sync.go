package kinship

import (
	"time"

	"kinship/internal/models"
)

// SyncFamilyData rebuilds a tree from the family-information form. Every
// head and member becomes a tree member; each member attached to a known
// head gets the edge {head -> member} typed by its relationship to the
// user, or by its relationship to the head when that is blank. Relations
// with no edge form produce no edge, and neither does a member that names
// itself as its head. Ids repeated across the form keep one member, the
// last one written. Canvas coordinates, photos and gender already on the
// previous tree survive for ids that still exist.
func SyncFamilyData(previous *models.Tree, ownerUserID string, data models.FamilyData) *models.Tree {
	prior := make(map[string]models.Member)
	if previous != nil {
		for _, m := range previous.Members {
			prior[m.ID] = m
		}
	}

	carry := func(m models.Member) models.Member {
		old, ok := prior[m.ID]
		if !ok {
			return m
		}
		m.X, m.Y = old.X, old.Y
		if m.PhotoURL == "" {
			m.PhotoURL = old.PhotoURL
		}
		if m.Gender == "" {
			m.Gender = old.Gender
		}
		return m
	}

	tree := &models.Tree{
		OwnerUserID: ownerUserID,
		Members:     make([]models.Member, 0, len(data.FamilyHeads)+len(data.FamilyMembers)),
		Edges:       []models.Edge{},
	}

	heads := make(map[string]bool, len(data.FamilyHeads))
	for _, h := range data.FamilyHeads {
		if h.ID == "" {
			continue
		}
		heads[h.ID] = true
		tree.UpsertMember(carry(models.Member{
			ID:                 h.ID,
			FullName:           h.Name,
			RelationshipToUser: h.Relationship,
		}))
	}

	for _, fm := range data.FamilyMembers {
		if fm.ID == "" {
			continue
		}
		tree.UpsertMember(carry(models.Member{
			ID:                 fm.ID,
			FullName:           fm.Name,
			BirthDate:          fm.BirthDate,
			BirthPlace:         fm.BirthPlace,
			Notes:              fm.Notes,
			RelationshipToUser: fm.RelationshipToUser,
		}))

		if fm.ConnectedTo == fm.ID || !heads[fm.ConnectedTo] {
			continue
		}
		label := fm.RelationshipToUser
		if ParseRelation(label).Kind == KindNone {
			label = fm.Relationship
		}
		if rel, ok := EdgeRelationFor(label); ok {
			tree.LinkRelation(models.Edge{FromID: fm.ConnectedTo, ToID: fm.ID, Relation: rel})
		}
	}

	tree.UpdatedAt = time.Now().UTC()
	return tree
}
