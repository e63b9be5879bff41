package leaderboard

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/stellarlinkco/legal-bench/internal/metric"
)

// reportRow fixes the JSON column order of the leaderboard artifact.
type reportRow struct {
	Model    string             `json:"model"`
	Total    float64            `json:"total"`
	Metrics  map[string]float64 `json:"metrics"`
	Answered int                `json:"answered"`
	Errors   int                `json:"errors"`
}

// WriteReport writes the ranked leaderboard as a JSON array, full overwrite.
func WriteReport(path string, summaries []ModelSummary) error {
	rows := make([]reportRow, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, reportRow{
			Model:    s.Model,
			Total:    s.Total,
			Metrics:  s.Means,
			Answered: s.Answered,
			Errors:   s.Errors,
		})
	}

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("leaderboard: marshal report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("leaderboard: create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("leaderboard: write report: %w", err)
	}
	return nil
}

// Render prints the ranked leaderboard as a markdown table with the
// declared metric column order.
func Render(w io.Writer, summaries []ModelSummary) {
	headers := append([]string{"Model", "Total"}, metric.Names()...)
	headers = append(headers, "Errors")

	table := newTable(headers, w)
	for _, s := range summaries {
		row := []string{s.Model, fmt.Sprintf("%.2f", s.Total)}
		for _, name := range metric.Names() {
			row = append(row, fmt.Sprintf("%.2f", s.Means[name]))
		}
		row = append(row, fmt.Sprintf("%d", s.Errors))
		_ = table.Append(row)
	}
	_ = table.Render()
}

func newTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		}),
	)
}
