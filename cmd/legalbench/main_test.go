package main

import (
	"bytes"
	"testing"
)

func TestRootCmdWiring(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	if root.Use != "legalbench" {
		t.Fatalf("use: %q", root.Use)
	}

	want := map[string]bool{"generate": false, "infer": false, "score": false, "serve": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("subcommand %q not registered", name)
		}
	}

	if root.PersistentFlags().Lookup("config") == nil {
		t.Fatal("--config flag missing")
	}
}

func TestUnknownCommandFails(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"bogus"})

	if err := root.Execute(); err == nil {
		t.Fatal("unknown subcommand must error")
	}
}

func TestInferFailsWithoutConfig(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"infer", "--config", "does/not/exist.yaml"})

	if err := root.Execute(); err == nil {
		t.Fatal("missing config must error")
	}
}
