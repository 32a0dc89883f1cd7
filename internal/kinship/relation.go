// Package kinship turns loosely-typed family data into display groups and
// tree edges. Everything here is best-effort string matching over free text
// that users typed; results are deterministic but not authoritative.
package kinship

import (
	"strings"
	"unicode"

	"kinship/internal/models"
)

// Kind is the parsed category of a free-text relationship
type Kind int

const (
	KindNone Kind = iota
	KindParent
	KindSibling
	KindChild
	KindSpouse
	KindGrandparent
	KindGrandchild
	KindCousin
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindParent:
		return "parent"
	case KindSibling:
		return "sibling"
	case KindChild:
		return "child"
	case KindSpouse:
		return "spouse"
	case KindGrandparent:
		return "grandparent"
	case KindGrandchild:
		return "grandchild"
	case KindCousin:
		return "cousin"
	default:
		return "other"
	}
}

// Relation is a parsed relationship string. Literal is the trimmed,
// lower-cased input and is kept for every kind.
type Relation struct {
	Kind    Kind
	Literal string
}

var (
	parentWords     = []string{"father", "mother", "parent"}
	siblingWords    = []string{"brother", "sister", "sibling"}
	childWords      = map[string]bool{"son": true, "sons": true, "daughter": true, "daughters": true, "child": true, "children": true}
	childPrefixes   = []string{"great", "grand", "step", "god"}
	spouseWords     = []string{"wife", "husband", "spouse", "partner"}
	collateralWords = []string{"uncle", "aunt", "cousin", "nephew", "niece"}
)

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// hasChildWord matches child words as whole words, optionally prefixed as
// in "stepson" or "granddaughter", so "person" is not read as a son.
func hasChildWord(s string) bool {
	words := strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	for _, w := range words {
		for trimmed := true; trimmed; {
			trimmed = false
			for _, p := range childPrefixes {
				if rest := strings.TrimPrefix(w, p); rest != w && rest != "" {
					w, trimmed = rest, true
				}
			}
		}
		if childWords[w] {
			return true
		}
	}
	return false
}

// ParseRelation classifies a free-text relationship such as "Step-Sister"
// or "grandmother". Matching is case-insensitive by substring. Generational
// prefixes and in-law forms are tested before the plain parent and sibling
// words so "grandmother" is never read as a parent; a great-uncle or
// grand-aunt still collapses into cousin.
func ParseRelation(s string) Relation {
	lit := strings.ToLower(strings.TrimSpace(s))
	r := Relation{Literal: lit}

	switch {
	case lit == "":
		r.Kind = KindNone
	case strings.Contains(lit, "in-law") || strings.Contains(lit, "in law"):
		r.Kind = KindOther
	case strings.Contains(lit, "grand") || strings.Contains(lit, "great"):
		switch {
		case containsAny(lit, parentWords):
			r.Kind = KindGrandparent
		case hasChildWord(lit):
			r.Kind = KindGrandchild
		case containsAny(lit, collateralWords):
			r.Kind = KindCousin
		default:
			r.Kind = KindOther
		}
	case containsAny(lit, parentWords):
		r.Kind = KindParent
	case containsAny(lit, siblingWords):
		r.Kind = KindSibling
	case containsAny(lit, collateralWords):
		r.Kind = KindCousin
	case containsAny(lit, spouseWords):
		r.Kind = KindSpouse
	case hasChildWord(lit):
		r.Kind = KindChild
	default:
		r.Kind = KindOther
	}
	return r
}

// EdgeRelation maps the parsed relation onto the edge vocabulary. Aunts,
// uncles, nephews and nieces collapse into cousin. Other and empty
// relations have no edge form.
func (r Relation) EdgeRelation() (models.EdgeRelation, bool) {
	switch r.Kind {
	case KindParent:
		return models.RelationParent, true
	case KindSibling:
		return models.RelationSibling, true
	case KindChild:
		return models.RelationChild, true
	case KindSpouse:
		return models.RelationSpouse, true
	case KindGrandparent:
		return models.RelationGrandparent, true
	case KindGrandchild:
		return models.RelationGrandchild, true
	case KindCousin:
		return models.RelationCousin, true
	default:
		return "", false
	}
}

// EdgeRelationFor parses s and maps it onto the edge vocabulary
func EdgeRelationFor(s string) (models.EdgeRelation, bool) {
	return ParseRelation(s).EdgeRelation()
}

// Reciprocal returns the relation seen from the other endpoint of an edge
func Reciprocal(r models.EdgeRelation) models.EdgeRelation {
	switch r {
	case models.RelationParent:
		return models.RelationChild
	case models.RelationChild:
		return models.RelationParent
	case models.RelationGrandparent:
		return models.RelationGrandchild
	case models.RelationGrandchild:
		return models.RelationGrandparent
	default:
		return r
	}
}
