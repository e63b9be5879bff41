package metric

import (
	"context"
	"regexp"
	"strings"
)

// Key-entity patterns: the hard facts a correct answer must carry over.
var entityPatterns = []*regexp.Regexp{
	// Calendar dates: "Oct 1", "October 1st"
	regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s\d{1,2}(?:st|nd|rd|th)?\b`),
	// Money: "$2,500", "$35.00"
	regexp.MustCompile(`\$\d+(?:,\d{3})*(?:\.\d{2})?`),
	// Fractions and ordinals: "1/60th", "30-40"
	regexp.MustCompile(`(?i)\b\d+[/-]\d+(?:th)?\b`),
	// Durations: "30 days", "24 hours", "6 months"
	regexp.MustCompile(`(?i)\b\d+\s(?:hour|day|week|month|year)s?\b`),
}

// EntityScorer measures recall of the reference's key entities in the
// candidate: dates, amounts, fractions, and durations found as literal
// case-insensitive substrings.
type EntityScorer struct{}

func (EntityScorer) Name() string { return NameEntity }

func (EntityScorer) Max() float64 { return 1 }

func (EntityScorer) Score(_ context.Context, reference, candidate string) float64 {
	entities := ExtractEntities(reference)
	if len(entities) == 0 {
		// Nothing to miss.
		return 1.0
	}

	lower := strings.ToLower(candidate)
	hits := 0
	for e := range entities {
		if strings.Contains(lower, e) {
			hits++
		}
	}
	return float64(hits) / float64(len(entities))
}

// ExtractEntities returns the lowercased key-entity set of a text.
func ExtractEntities(text string) map[string]struct{} {
	out := make(map[string]struct{})
	if strings.TrimSpace(text) == "" {
		return out
	}
	for _, p := range entityPatterns {
		for _, m := range p.FindAllString(text, -1) {
			out[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
		}
	}
	return out
}
