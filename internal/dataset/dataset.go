// Package dataset loads the benchmark's question/reference-answer records.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Question pairs one benchmark question with its reference answer. Records
// are immutable once loaded.
type Question struct {
	ID          int    `json:"id"`
	Text        string `json:"text"`
	GroundTruth string `json:"ground_truth"`
	Citation    string `json:"citation,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Load reads an ordered question set from a JSON array. A missing or
// unreadable file is the run's only fatal input condition.
func Load(path string) ([]Question, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("dataset: empty path")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %q: %w", path, err)
	}

	var qs []Question
	if err := json.Unmarshal(b, &qs); err != nil {
		return nil, fmt.Errorf("dataset: parse %q: %w", path, err)
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("dataset: %q contains no questions", path)
	}

	for i := range qs {
		if qs[i].ID == 0 {
			qs[i].ID = i + 1
		}
		if strings.TrimSpace(qs[i].Category) == "" {
			qs[i].Category = "General"
		}
		if strings.TrimSpace(qs[i].Text) == "" {
			return nil, fmt.Errorf("dataset: question %d has empty text", qs[i].ID)
		}
	}
	return qs, nil
}

// Save writes a question set as an indented JSON array.
func Save(path string, qs []Question) error {
	b, err := json.MarshalIndent(qs, "", "  ")
	if err != nil {
		return fmt.Errorf("dataset: marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("dataset: write %q: %w", path, err)
	}
	return nil
}
