package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/legal-bench/internal/bench"
	"github.com/stellarlinkco/legal-bench/internal/dataset"
	"github.com/stellarlinkco/legal-bench/internal/llm"
)

type inferOptions struct {
	datasetPath string
	outPath     string
}

func newInferCmd(st *cliState) *cobra.Command {
	var opts inferOptions

	cmd := &cobra.Command{
		Use:   "infer",
		Short: "Run every configured model over the question set",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfer(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.datasetPath, "dataset", "", "question set path (overrides config)")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "results path (overrides config)")

	return cmd
}

func runInfer(cmd *cobra.Command, st *cliState, opts *inferOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("infer: missing config (internal error)")
	}

	datasetPath := strings.TrimSpace(opts.datasetPath)
	if datasetPath == "" {
		datasetPath = st.cfg.Paths.Dataset
	}
	outPath := strings.TrimSpace(opts.outPath)
	if outPath == "" {
		outPath = st.cfg.Paths.Results
	}

	qs, err := dataset.Load(datasetPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry, err := llm.NewRegistryFromConfig(ctx, st.cfg)
	if err != nil {
		return err
	}

	runner := &bench.Runner{
		Registry:        registry,
		System:          st.cfg.Inference.SystemPrompt,
		CheckpointPath:  outPath,
		CheckpointEvery: st.cfg.Inference.CheckpointEvery,
		Out:             cmd.OutOrStdout(),
	}

	rows, runErr := runner.Run(ctx, qs)
	fmt.Fprintf(cmd.OutOrStdout(), "infer: %d/%d questions recorded to %s\n", len(rows), len(qs), outPath)
	return runErr
}
