package kinship

import (
	"fmt"
	"strings"

	"kinship/internal/models"
)

// Summarize renders a tree as short plain text for model prompts. An empty
// tree yields "None".
func Summarize(tree *models.Tree) string {
	if tree == nil || len(tree.Members) == 0 {
		return "None"
	}

	var b strings.Builder
	groups := ClassifyTree(tree)

	writeGroup := func(label string, members []models.Member) {
		if len(members) == 0 {
			return
		}
		names := make([]string, 0, len(members))
		for _, m := range members {
			names = append(names, describe(m))
		}
		fmt.Fprintf(&b, "%s: %s\n", label, strings.Join(names, "; "))
	}

	writeGroup("Parents", groups.Parents)
	writeGroup("Siblings", groups.Siblings)
	for _, key := range groups.OtherKeys() {
		writeGroup(capitalize(key), groups.Other[key])
	}

	names := make(map[string]string, len(tree.Members))
	for _, m := range tree.Members {
		names[m.ID] = m.FullName
	}
	for _, e := range tree.Edges {
		from, okFrom := names[e.FromID]
		to, okTo := names[e.ToID]
		if !okFrom || !okTo {
			continue
		}
		fmt.Fprintf(&b, "%s is %s's %s\n", to, from, e.Relation)
	}

	return strings.TrimSpace(b.String())
}

func describe(m models.Member) string {
	var extra []string
	if m.BirthDate != "" {
		extra = append(extra, "born "+m.BirthDate)
	}
	if m.BirthPlace != "" {
		extra = append(extra, "in "+m.BirthPlace)
	}
	if len(extra) == 0 {
		return m.FullName
	}
	return fmt.Sprintf("%s (%s)", m.FullName, strings.Join(extra, " "))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
