// Package metric holds the independent text scorers. Every scorer is total:
// any input, including the empty string, maps to a defined score, never an
// error or NaN.
package metric

import "context"

// Metric names in the leaderboard's fixed column order.
const (
	NameSemantic  = "semantic"
	NameEntity    = "entity_recall"
	NameSafety    = "safety"
	NameGrounding = "grounding"
	NameReasoning = "reasoning"
)

// Names returns the declared metric order.
func Names() []string {
	return []string{NameSemantic, NameEntity, NameSafety, NameGrounding, NameReasoning}
}

// Scorer grades a candidate answer against a reference. Max is the scorer's
// native upper bound (1 or 100); the aggregator normalizes with it so the
// two ranges never mix in one leaderboard.
type Scorer interface {
	Name() string
	Max() float64
	Score(ctx context.Context, reference, candidate string) float64
}

// ReferenceBuilder is an optional capability for scorers whose reference
// text is more than the ground-truth answer alone.
type ReferenceBuilder interface {
	BuildReference(groundTruth, citation string) string
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
