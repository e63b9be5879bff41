package metric

import (
	"context"
	"strings"
)

// densityScale maps connective density to a 0-100 score: 5 connectives per
// 100 words reads as full rigor.
const densityScale = 20.0

// Logical and legal connectives, IRAC-style markers.
var logicWords = map[string]struct{}{
	"because":      {},
	"therefore":    {},
	"however":      {},
	"consequently": {},
	"furthermore":  {},
	"under":        {},
	"per":          {},
	"pursuant":     {},
	"unless":       {},
	"except":       {},
	"provided":     {},
	"statute":      {},
	"regulation":   {},
	"requirement":  {},
}

// ReasoningScorer measures the density of logical connectives in the
// candidate. The reference text is unused.
type ReasoningScorer struct{}

func (ReasoningScorer) Name() string { return NameReasoning }

func (ReasoningScorer) Max() float64 { return 100 }

func (ReasoningScorer) Score(_ context.Context, _, candidate string) float64 {
	words := strings.Fields(strings.ToLower(candidate))
	if len(words) == 0 {
		return 0
	}

	count := 0
	for _, w := range words {
		w = strings.Trim(w, `.,;:!?()"'`)
		if _, ok := logicWords[w]; ok {
			count++
		}
	}

	density := float64(count) / float64(len(words)) * 100
	return clamp(density*densityScale, 0, 100)
}
