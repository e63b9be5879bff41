package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/legal-bench/internal/bench"
	"github.com/stellarlinkco/legal-bench/internal/leaderboard"
)

type scoreOptions struct {
	resultsPath string
	outPath     string
	noStore     bool
}

func newScoreCmd(st *cliState) *cobra.Command {
	var opts scoreOptions

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score benchmark results and print the leaderboard",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.resultsPath, "results", "", "results path (overrides config)")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "leaderboard path (overrides config)")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "skip persisting the run to the history store")

	return cmd
}

func runScore(cmd *cobra.Command, st *cliState, opts *scoreOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("score: missing config (internal error)")
	}

	resultsPath := strings.TrimSpace(opts.resultsPath)
	if resultsPath == "" {
		resultsPath = st.cfg.Paths.Results
	}
	outPath := strings.TrimSpace(opts.outPath)
	if outPath == "" {
		outPath = st.cfg.Paths.Leaderboard
	}

	rows, err := bench.LoadCheckpoint(resultsPath)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("score: %q has no results (run infer first)", resultsPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summaries, err := buildAggregator(st.cfg).Aggregate(ctx, rows)
	if err != nil {
		return err
	}

	if err := leaderboard.WriteReport(outPath, summaries); err != nil {
		return err
	}

	if !opts.noStore {
		store, err := leaderboard.NewStore(st.cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SaveRun(ctx, summaries); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scored %d questions across %d models\n\n", len(rows), len(summaries))
	leaderboard.Render(out, summaries)
	fmt.Fprintf(out, "\nleaderboard written to %s\n", outPath)
	return nil
}
