package metric

import (
	"context"
	"regexp"
	"strings"
)

// groundingNeutral is returned when the reference cites no law: with no
// basis to check, the candidate is neither rewarded nor penalized.
const groundingNeutral = 50.0

// Citation patterns: statute and section markers plus the instrument names
// and acronyms common in NY housing law.
var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)section \d+[-a-z0-9]*`),
	regexp.MustCompile(`(?i)§ ?\d+[-a-z0-9]*`),
	// Bare statute designators: "235-c", "27-2029"
	regexp.MustCompile(`(?i)\b\d+-[a-z0-9]+\b`),
	// Named instruments: "Real Property Law", "Rent Stabilization Code"
	regexp.MustCompile(`(?i)\b(?:[a-z]+ ){1,6}(?:law|act|code)\b`),
	regexp.MustCompile(`(?i)\bRPL\b`),
	regexp.MustCompile(`(?i)\bRPAPL\b`),
	regexp.MustCompile(`(?i)\bHSTPA\b`),
	regexp.MustCompile(`(?i)\bDHCR\b`),
}

// citationStopwords are leading words the instrument pattern drags in
// ("per Real Property Law") that are not part of the citation.
var citationStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "per": {}, "under": {},
	"of": {}, "this": {}, "that": {}, "by": {}, "in": {},
}

// citationAliases folds spelled-out instruments onto the acronyms the
// answer key tends to use, so "Real Property Law" matches "RPL".
var citationAliases = map[string]string{
	"real property law": "rpl",
	"real property actions and proceedings law": "rpapl",
	"housing stability and tenant protection act": "hstpa",
}

// GroundingScorer compares the legal citations of reference and candidate
// as sets: Jaccard similarity scaled to 0-100.
type GroundingScorer struct{}

func (GroundingScorer) Name() string { return NameGrounding }

func (GroundingScorer) Max() float64 { return 100 }

// BuildReference folds the answer key's citation field into the reference
// text, so a citation recorded next to the answer still counts.
func (GroundingScorer) BuildReference(groundTruth, citation string) string {
	return strings.TrimSpace(groundTruth + " " + citation)
}

func (GroundingScorer) Score(_ context.Context, reference, candidate string) float64 {
	refCites := ExtractCitations(reference)
	if len(refCites) == 0 {
		return groundingNeutral
	}

	candCites := ExtractCitations(candidate)

	intersection := 0
	for c := range refCites {
		if _, ok := candCites[c]; ok {
			intersection++
		}
	}
	union := len(refCites) + len(candCites) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union) * 100
}

// ExtractCitations returns the canonicalized citation set of a text.
func ExtractCitations(text string) map[string]struct{} {
	out := make(map[string]struct{})
	if strings.TrimSpace(text) == "" {
		return out
	}
	for _, p := range citationPatterns {
		for _, m := range p.FindAllString(text, -1) {
			c := canonicalizeCitation(m)
			if c != "" {
				out[c] = struct{}{}
			}
		}
	}
	return out
}

func canonicalizeCitation(raw string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	for len(words) > 0 {
		if _, stop := citationStopwords[words[0]]; !stop {
			break
		}
		words = words[1:]
	}
	c := strings.Join(words, " ")
	if alias, ok := citationAliases[c]; ok {
		return alias
	}
	return c
}
