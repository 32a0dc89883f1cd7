package models

import "time"

// UserProfile is the per-user document in the users collection
type UserProfile struct {
	UserID             string       `json:"userId"`
	FullName           string       `json:"fullName,omitempty"`
	Email              string       `json:"email,omitempty"`
	BirthDate          string       `json:"birthDate,omitempty"`
	BirthPlace         string       `json:"birthPlace,omitempty"`
	ClanOrCulturalInfo string       `json:"clanOrCulturalInfo,omitempty"`
	RelativesNames     []string     `json:"relativesNames,omitempty"`
	DNAData            string       `json:"dnaData,omitempty"`
	DNAFileName        string       `json:"dnaFileName,omitempty"`
	Analysis           *DNAAnalysis `json:"analysis,omitempty"`
	ProfileCompleted   bool         `json:"profileCompleted"`
	CreatedAt          *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time   `json:"updatedAt,omitempty"`
}

// HasDNA reports whether the user has uploaded DNA data
func (p UserProfile) HasDNA() bool {
	return p.DNAData != ""
}

// PredictedRelative is one relative match proposed by the model
type PredictedRelative struct {
	UserID                  string   `json:"userId"`
	PredictedRelationship   string   `json:"predictedRelationship"`
	RelationshipProbability float64  `json:"relationshipProbability"`
	CommonAncestors         []string `json:"commonAncestors,omitempty"`
	SharedCentimorgans      *float64 `json:"sharedCentimorgans,omitempty"`
}

// AncestryEstimate is the model's ethnicity report
type AncestryEstimate struct {
	EthnicityEstimates string `json:"ethnicityEstimates"`
}

// GenerationalInsights holds the model's health, trait and ancestry narratives
type GenerationalInsights struct {
	HealthInsights   string `json:"healthInsights"`
	TraitInsights    string `json:"traitInsights"`
	AncestryInsights string `json:"ancestryInsights"`
}

// DNAAnalysis combines the three model reports for one upload
type DNAAnalysis struct {
	Relatives   []PredictedRelative  `json:"relatives"`
	Ancestry    AncestryEstimate     `json:"ancestry"`
	Insights    GenerationalInsights `json:"insights"`
	CompletedAt time.Time            `json:"completedAt"`
}
