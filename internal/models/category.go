package models

import "strings"

// Category is the routed intent label for a user question. The values are
// the wire labels used in the classification prompt, so the parser can
// match the completion model's reply directly against them.
type Category string

const (
	CategoryGreeting  Category = "SAUDACAO"
	CategoryThanks    Category = "AGRADECIMENTO"
	CategoryFeature   Category = "FUNCIONALIDADE"
	CategoryParameter Category = "PARAMETRO"
)

// IsConversational reports whether the category is answered with a canned
// reply instead of the retrieval pipeline.
func (c Category) IsConversational() bool {
	return c == CategoryGreeting || c == CategoryThanks
}

// ParseCategory matches a raw completion reply against the known labels.
// Matching is by containment, not equality: the model occasionally adds
// punctuation or extra words around the label, and a containment check
// tolerates that without a second parsing pass. Labels are checked in the
// given order, so callers list the most specific categories first. When
// nothing matches the fallback is returned.
func ParseCategory(raw string, ordered []Category, fallback Category) Category {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	for _, c := range ordered {
		if strings.Contains(normalized, string(c)) {
			return c
		}
	}
	return fallback
}
