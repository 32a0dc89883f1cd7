package models

import (
	"fmt"
	"strings"
	"time"

	"kinship/internal/utils"
)

// FamilyHead is the anchor of a family branch in the family-information form
type FamilyHead struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
}

// FamilyMember is a relative entered in the family-information form.
// ConnectedTo holds the id of the FamilyHead the member hangs off.
type FamilyMember struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Relationship       string `json:"relationship"`
	RelationshipToUser string `json:"relationshipToUser"`
	ConnectedTo        string `json:"connectedTo"`
	BirthPlace         string `json:"birthPlace,omitempty"`
	BirthDate          string `json:"birthDate,omitempty"`
	Notes              string `json:"notes,omitempty"`
}

// FamilyData is the stored form document, one per user
type FamilyData struct {
	FamilyHeads   []FamilyHead   `json:"familyHeads"`
	FamilyMembers []FamilyMember `json:"familyMembers"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Validate requires a name on every head and member
func (d FamilyData) Validate() error {
	for i, h := range d.FamilyHeads {
		if strings.TrimSpace(h.Name) == "" {
			return utils.ValidationError{Field: fmt.Sprintf("familyHeads[%d].name", i), Message: "name is required"}
		}
	}
	for i, m := range d.FamilyMembers {
		if strings.TrimSpace(m.Name) == "" {
			return utils.ValidationError{Field: fmt.Sprintf("familyMembers[%d].name", i), Message: "name is required"}
		}
	}
	return nil
}
