// Package generator extracts question/answer pairs from a source legal text
// by chunking it and asking a model for structured output per chunk.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stellarlinkco/legal-bench/internal/dataset"
	"github.com/stellarlinkco/legal-bench/internal/llm"
)

const (
	defaultChunkSize    = 1500
	defaultChunkOverlap = 150
)

const extractionSystem = `You are an expert data generator for a legal benchmark.
Extract 2-3 distinct "tenant question / answer" pairs from the provided text.

CRITICAL RULES:
1. Focus on HARD FACTS: dates (Oct 1 - May 31), temperatures (68 degrees), and deadlines (10 days).
2. Ignore general fluff. Find the "gotcha" details that an AI might hallucinate.
3. The question should sound natural (e.g., "My landlord won't turn on the heat, is that legal?").
4. The answer must include the specific numbers/facts from the text.

Output ONLY valid JSON in this exact format:
{"pairs": [{"question": "...", "ground_truth": "...", "citation": "<section title>", "category": "<Eviction|Repairs|Rent Control|Safety>"}]}`

// Generator turns a source document into benchmark questions.
type Generator struct {
	Provider llm.Provider
	Pacing   llm.Pacing

	ChunkSize    int
	ChunkOverlap int
	MaxChunks    int // 0 = all

	Out io.Writer
}

type extractionOutput struct {
	Pairs []struct {
		Question    string `json:"question"`
		GroundTruth string `json:"ground_truth"`
		Citation    string `json:"citation"`
		Category    string `json:"category"`
	} `json:"pairs"`
}

// Generate chunks the source file and collects QA pairs. Chunks whose
// output cannot be parsed are skipped; the run fails only if the source
// cannot be read or nothing at all was extracted.
func (g *Generator) Generate(ctx context.Context, sourcePath string) ([]dataset.Question, error) {
	if g == nil || g.Provider == nil {
		return nil, errors.New("generator: nil provider")
	}
	if ctx == nil {
		return nil, errors.New("generator: nil context")
	}

	b, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("generator: read %q: %w", sourcePath, err)
	}

	chunks := Chunk(string(b), g.ChunkSize, g.ChunkOverlap)
	if g.MaxChunks > 0 && len(chunks) > g.MaxChunks {
		chunks = chunks[:g.MaxChunks]
	}
	if g.Out != nil {
		fmt.Fprintf(g.Out, "generator: %d chunks from %s\n", len(chunks), sourcePath)
	}

	var qs []dataset.Question
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return qs, err
		}

		raw, err := llm.SendPaced(ctx, g.Provider, g.Pacing, "Text chunk:\n"+chunk, extractionSystem)
		if err != nil {
			if g.Out != nil {
				fmt.Fprintf(g.Out, "generator: chunk %d: %v (skipped)\n", i+1, err)
			}
			continue
		}

		var out extractionOutput
		if err := llm.ParseJSON(raw, &out); err != nil {
			if g.Out != nil {
				fmt.Fprintf(g.Out, "generator: chunk %d: parse: %v (skipped)\n", i+1, err)
			}
			continue
		}

		for _, p := range out.Pairs {
			q := strings.TrimSpace(p.Question)
			a := strings.TrimSpace(p.GroundTruth)
			if q == "" || a == "" {
				continue
			}

			citation := strings.TrimSpace(p.Citation)
			if citation == "" {
				citation = "Unknown"
			}

			qs = append(qs, dataset.Question{
				ID:          len(qs) + 1,
				Text:        q,
				GroundTruth: a,
				Citation:    fmt.Sprintf("%s (chunk %d)", citation, i+1),
				Category:    strings.TrimSpace(p.Category),
			})
		}
	}

	if len(qs) == 0 {
		return nil, errors.New("generator: no questions extracted")
	}
	return qs, nil
}

// Chunk splits text into overlapping windows. Overlap keeps a fact that
// straddles a boundary visible in at least one chunk.
func Chunk(text string, size, overlap int) []string {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = defaultChunkOverlap
		if overlap >= size {
			overlap = size / 10
		}
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var out []string
	step := size - overlap
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			out = append(out, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}
