// Package leaderboard reduces per-question metric scores into per-model
// summaries and a stable ranking.
package leaderboard

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/stellarlinkco/legal-bench/internal/bench"
	"github.com/stellarlinkco/legal-bench/internal/metric"
)

// ModelSummary is one leaderboard row: per-metric means normalized to
// 0-100, a combined total, and the raw per-question values for drill-down.
type ModelSummary struct {
	Model       string               `json:"model"`
	Total       float64              `json:"total"`
	Means       map[string]float64   `json:"metrics"`
	Answered    int                  `json:"answered"`
	Errors      int                  `json:"errors"`
	PerQuestion map[string][]float64 `json:"-"`
}

// Aggregator composes the configured scorers over a result set. Weights
// default to an equal split across metrics; they only shape the combined
// total, never the per-metric means.
type Aggregator struct {
	Scorers []metric.Scorer
	Weights map[string]float64
}

// Aggregate scores every (question, model) pair and reduces to one summary
// per model, ranked. Sentinel responses are never scored as content: they
// are counted as errors and excluded from every metric mean.
func (a *Aggregator) Aggregate(ctx context.Context, rows []bench.Row) ([]ModelSummary, error) {
	if a == nil || len(a.Scorers) == 0 {
		return nil, errors.New("leaderboard: no scorers configured")
	}
	if ctx == nil {
		return nil, errors.New("leaderboard: nil context")
	}
	if len(rows) == 0 {
		return nil, errors.New("leaderboard: empty result set")
	}

	acc := make(map[string]*ModelSummary)

	for _, row := range rows {
		for model, response := range row.Responses {
			s := acc[model]
			if s == nil {
				s = &ModelSummary{
					Model:       model,
					Means:       make(map[string]float64, len(a.Scorers)),
					PerQuestion: make(map[string][]float64, len(a.Scorers)),
				}
				acc[model] = s
			}

			if bench.IsSentinel(response) {
				s.Errors++
				continue
			}
			s.Answered++

			for _, sc := range a.Scorers {
				reference := row.GroundTruth
				if rb, ok := sc.(metric.ReferenceBuilder); ok {
					reference = rb.BuildReference(row.GroundTruth, row.Citation)
				}

				v := normalize(sc.Score(ctx, reference, response), sc.Max())
				s.Means[sc.Name()] += v
				s.PerQuestion[sc.Name()] = append(s.PerQuestion[sc.Name()], v)
			}
		}
	}

	out := make([]ModelSummary, 0, len(acc))
	for _, s := range acc {
		for name := range s.Means {
			if s.Answered > 0 {
				s.Means[name] /= float64(s.Answered)
			}
		}
		s.Total = a.total(s.Means)
		out = append(out, *s)
	}

	Rank(out)
	return out, nil
}

func (a *Aggregator) total(means map[string]float64) float64 {
	var sum, weightSum float64
	for name, v := range means {
		w := 1.0
		if a.Weights != nil {
			if ww, ok := a.Weights[name]; ok {
				w = ww
			}
		}
		sum += v * w
		weightSum += w
	}
	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}

// Rank orders summaries by total, breaking ties on grounding, safety, and
// reasoning in that declared priority, then model name. Input order never
// decides a rank.
func Rank(summaries []ModelSummary) {
	tieBreak := []string{metric.NameGrounding, metric.NameSafety, metric.NameReasoning}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Total != summaries[j].Total {
			return summaries[i].Total > summaries[j].Total
		}
		for _, name := range tieBreak {
			a, b := summaries[i].Means[name], summaries[j].Means[name]
			if a != b {
				return a > b
			}
		}
		return strings.Compare(summaries[i].Model, summaries[j].Model) < 0
	})
}

// normalize scales a scorer's native range onto 0-100 so the leaderboard
// never mixes 0-1 and 0-100 values.
func normalize(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	v = v / max * 100
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
