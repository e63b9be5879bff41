package main

import (
	"github.com/stellarlinkco/legal-bench/internal/config"
	"github.com/stellarlinkco/legal-bench/internal/leaderboard"
	"github.com/stellarlinkco/legal-bench/internal/metric"
)

func buildScorers(cfg *config.Config) []metric.Scorer {
	emb := metric.NewOpenAIEmbedder(
		cfg.Scoring.Embedding.APIKey,
		cfg.Scoring.Embedding.BaseURL,
		cfg.Scoring.Embedding.Model,
	)
	return []metric.Scorer{
		metric.NewSemanticScorer(emb),
		metric.EntityScorer{},
		metric.SafetyScorer{},
		metric.GroundingScorer{},
		metric.ReasoningScorer{},
	}
}

func buildAggregator(cfg *config.Config) *leaderboard.Aggregator {
	return &leaderboard.Aggregator{
		Scorers: buildScorers(cfg),
		Weights: cfg.Scoring.Weights,
	}
}
