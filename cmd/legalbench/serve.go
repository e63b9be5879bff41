package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/legal-bench/api"
	"github.com/stellarlinkco/legal-bench/internal/bench"
	"github.com/stellarlinkco/legal-bench/internal/leaderboard"
	"github.com/stellarlinkco/legal-bench/internal/llm"
)

func newServeCmd(st *cliState) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, st, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, st *cliState, addr string) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("serve: missing config (internal error)")
	}

	registry, err := llm.NewRegistryFromConfig(context.Background(), st.cfg)
	if err != nil {
		return err
	}

	runner := &bench.Runner{
		Registry: registry,
		System:   st.cfg.Inference.SystemPrompt,
	}

	store, err := leaderboard.NewStore(st.cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	server, err := api.NewServer(runner, buildAggregator(st.cfg), store)
	if err != nil {
		return err
	}

	if strings.TrimSpace(addr) == "" {
		addr = st.cfg.Server.Addr
	}
	fmt.Fprintf(cmd.OutOrStdout(), "serving dashboard API on %s\n", addr)
	return server.Run(addr)
}
