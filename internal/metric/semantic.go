package metric

import (
	"context"
	"math"
	"strings"
	"sync"
)

// SemanticScorer embeds reference and candidate with the same model and
// scores their cosine similarity. Reference vectors are cached so a batch
// run embeds each reference once per question, not once per model.
type SemanticScorer struct {
	Embedder Embedder

	mu    sync.Mutex
	cache map[string][]float32
}

func NewSemanticScorer(e Embedder) *SemanticScorer {
	return &SemanticScorer{
		Embedder: e,
		cache:    make(map[string][]float32),
	}
}

func (*SemanticScorer) Name() string { return NameSemantic }

func (*SemanticScorer) Max() float64 { return 1 }

// Score degrades to 0 when either text cannot be embedded; scorers are
// total and an embedding outage must not abort scoring.
func (s *SemanticScorer) Score(ctx context.Context, reference, candidate string) float64 {
	if s == nil || s.Embedder == nil {
		return 0
	}
	if strings.TrimSpace(reference) == "" || strings.TrimSpace(candidate) == "" {
		return 0
	}

	ref, err := s.referenceVector(ctx, reference)
	if err != nil {
		return 0
	}
	cand, err := s.Embedder.Embed(ctx, candidate)
	if err != nil {
		return 0
	}
	return Cosine(ref, cand)
}

func (s *SemanticScorer) referenceVector(ctx context.Context, reference string) ([]float32, error) {
	s.mu.Lock()
	if v, ok := s.cache[reference]; ok {
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	v, err := s.Embedder.Embed(ctx, reference)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.cache == nil {
		s.cache = make(map[string][]float32)
	}
	s.cache[reference] = v
	s.mu.Unlock()
	return v, nil
}

// Cosine returns the cosine similarity of two vectors, 0 for mismatched or
// zero-magnitude input.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
