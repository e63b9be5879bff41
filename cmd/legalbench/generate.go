package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/legal-bench/internal/config"
	"github.com/stellarlinkco/legal-bench/internal/dataset"
	"github.com/stellarlinkco/legal-bench/internal/generator"
	"github.com/stellarlinkco/legal-bench/internal/llm"
)

type generateOptions struct {
	sourcePath string
	outPath    string
	model      string
	maxChunks  int
}

func newGenerateCmd(st *cliState) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Extract a question set from a source legal text",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.sourcePath, "source", "", "source document path (required)")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "dataset output path (overrides config)")
	cmd.Flags().StringVar(&opts.model, "model", "", "extraction model (default: first local model)")
	cmd.Flags().IntVar(&opts.maxChunks, "max-chunks", 0, "limit processed chunks (0 = all)")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func runGenerate(cmd *cobra.Command, st *cliState, opts *generateOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("generate: missing config (internal error)")
	}

	outPath := strings.TrimSpace(opts.outPath)
	if outPath == "" {
		outPath = st.cfg.Paths.Dataset
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry, err := llm.NewRegistryFromConfig(ctx, st.cfg)
	if err != nil {
		return err
	}

	provider, group, err := resolveExtractionProvider(registry, opts.model)
	if err != nil {
		return err
	}

	gen := &generator.Generator{
		Provider:  provider,
		Pacing:    registry.GroupPacing(group),
		MaxChunks: opts.maxChunks,
		Out:       cmd.OutOrStdout(),
	}

	qs, err := gen.Generate(ctx, opts.sourcePath)
	if err != nil {
		return err
	}

	if err := dataset.Save(outPath, qs); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "generated %d questions to %s\n", len(qs), outPath)
	return nil
}

// resolveExtractionProvider prefers a named model, then a local model so
// generation does not burn gateway quota, then anything configured.
func resolveExtractionProvider(registry *llm.Registry, model string) (llm.Provider, string, error) {
	if model = strings.TrimSpace(model); model != "" {
		p, ok := registry.Get(model)
		if !ok {
			return nil, "", fmt.Errorf("generate: model %q not configured", model)
		}
		return p, p.Group(), nil
	}

	if local := registry.GroupProviders(config.GroupOllama); len(local) > 0 {
		return local[0], config.GroupOllama, nil
	}

	for _, name := range registry.Models() {
		if p, ok := registry.Get(name); ok {
			return p, p.Group(), nil
		}
	}
	return nil, "", fmt.Errorf("generate: no models configured")
}
