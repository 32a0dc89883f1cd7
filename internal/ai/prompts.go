package ai

import (
	"fmt"
	"strings"
)

const genealogySystem = `You are an expert in genetic genealogy. You explain findings in plain language, never present health information as a diagnosis, and never reveal raw genetic data back to the user.`

func relativesPrompt(dna string, comparisons []Comparison, familyTree string) string {
	var others strings.Builder
	if len(comparisons) == 0 {
		others.WriteString("None\n")
	}
	for _, c := range comparisons {
		fmt.Fprintf(&others, "User %s: %s\n", c.UserID, c.DNA)
	}
	if strings.TrimSpace(familyTree) == "" {
		familyTree = "None"
	}

	return fmt.Sprintf(`Compare the user's DNA with the DNA of other consenting users and identify likely relatives.

User DNA Data:
%s

Other Users DNA Data:
%s
User Family Tree Data:
%s

Respond with a JSON array. Each element must have:
- "userId": the id of the other user exactly as given above
- "predictedRelationship": e.g. "parent", "2nd cousin"
- "relationshipProbability": a number between 0 and 1
- "commonAncestors": optional array of names
- "sharedCentimorgans": optional number

Return an empty array when no relative is likely. Return ONLY the JSON.`, dna, others.String(), familyTree)
}

func ancestryPrompt(snp string) string {
	return fmt.Sprintf(`Analyze the following SNP data and write an ancestry report with ethnicity estimates and a confidence interval for each estimate.

SNP Data:
%s

Respond with a JSON object {"ethnicityEstimates": "<the report as text>"}. Return ONLY the JSON.`, snp)
}

func insightsPrompt(markers string) string {
	return fmt.Sprintf(`Analyze the genetic marker data below and describe:
1. Health predispositions, with a clear note that this is not medical advice
2. Phenotypic traits such as eye colour or hair type
3. Ancestral origins and possible historical group connections

Genetic Marker Data:
%s

Respond with a JSON object with the string fields "healthInsights", "traitInsights" and "ancestryInsights". Return ONLY the JSON.`, markers)
}

const assistantSystem = `You are a genealogy assistant inside a family-tree application.

Kinship rules:
- Ancestors count up from parent (1 generation) through grandparent, great-grandparent and great-great-grandparent.
- Uncle/aunt is a parent's sibling, nephew/niece a sibling's child, cousin an uncle's or aunt's child. Second cousins share great-grandparents; "once removed" means one generation apart.
- Every relation has a reciprocal: parent/child, grandparent/grandchild, uncle-aunt/nephew-niece, while spouse, sibling and cousin are symmetric.
- Use the ungendered word when gender is unknown.

In this application a tree holds members (id, fullName, optional gender, birthDate, birthPlace, notes, relationshipToUser) and edges {fromId, toId, relation} where relation is one of parent, child, sibling, spouse, grandparent, grandchild, cousin. Family information is entered as family heads (usually a father or grandfather) with members connected to a head; each member records its relationship to the head and to the user. When users ask how to record relatives, walk them through adding a head, adding members connected to it, and setting both relationships before saving.

When suggesting possible relatives, weigh shared birth places, clan or cultural background, and overlapping relative names. Use the user context to personalise answers but summarise it rather than repeating it.`

func assistantPrompt(query, userContext string) string {
	if strings.TrimSpace(userContext) == "" {
		userContext = "{}"
	}
	return fmt.Sprintf(`User Context (JSON):
%s

Question:
%s`, userContext, query)
}
