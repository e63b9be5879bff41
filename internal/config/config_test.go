package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
providers:
  ollama:
    base_url: http://localhost:11434
    models: [llama3, mistral]
  gemini:
    models: [gemini-2.0-flash]
    delay_seconds: 15
    cooldown_seconds: 60
    max_retries: 3
inference:
  system_prompt: "Answer as a NYC housing lawyer."
  checkpoint_every: 5
scoring:
  weights:
    grounding: 2
paths:
  dataset: data/custom.json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := cfg.ModelCount(); got != 3 {
		t.Fatalf("model count: got %d, want 3", got)
	}
	if cfg.Providers["gemini"].DelaySeconds != 15 || cfg.Providers["gemini"].MaxRetries != 3 {
		t.Fatalf("gemini pacing: %+v", cfg.Providers["gemini"])
	}
	if cfg.Inference.SystemPrompt != "Answer as a NYC housing lawyer." {
		t.Fatalf("system prompt: %q", cfg.Inference.SystemPrompt)
	}
	if cfg.Inference.CheckpointEvery != 5 {
		t.Fatalf("checkpoint every: %d", cfg.Inference.CheckpointEvery)
	}
	if cfg.Scoring.Weights["grounding"] != 2 {
		t.Fatalf("weights: %+v", cfg.Scoring.Weights)
	}
	if cfg.Paths.Dataset != "data/custom.json" {
		t.Fatalf("dataset path: %q", cfg.Paths.Dataset)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
providers:
  ollama:
    models: [llama3]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Inference.MaxTokens != 1024 {
		t.Fatalf("max tokens default: %d", cfg.Inference.MaxTokens)
	}
	if cfg.Inference.CheckpointEvery != 2 {
		t.Fatalf("checkpoint default: %d", cfg.Inference.CheckpointEvery)
	}
	if cfg.Inference.SystemPrompt == "" {
		t.Fatal("system prompt default missing")
	}
	if cfg.Paths.Results == "" || cfg.Paths.Leaderboard == "" || cfg.Storage.Path == "" {
		t.Fatalf("path defaults missing: %+v", cfg.Paths)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr default: %q", cfg.Server.Addr)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("EMBEDDING_API_KEY", "embed-key")

	path := writeConfig(t, `
providers:
  gemini:
    api_key: file-key
    models: [gemini-2.0-flash]
scoring:
  embedding:
    model: text-embedding-3-small
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Providers["gemini"].APIKey != "env-key" {
		t.Fatalf("env must override file key, got %q", cfg.Providers["gemini"].APIKey)
	}
	if cfg.Scoring.Embedding.APIKey != "embed-key" {
		t.Fatalf("embedding key: %q", cfg.Scoring.Embedding.APIKey)
	}
}

func TestLoadErrors(t *testing.T) {
	{
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatal("missing file must error")
		}
	}
	{
		if _, err := Load(writeConfig(t, "providers: [not a map")); err == nil {
			t.Fatal("malformed yaml must error")
		}
	}
	{
		path := writeConfig(t, `
providers:
  mystery:
    models: [m]
`)
		if _, err := Load(path); err == nil {
			t.Fatal("unknown provider group must error")
		}
	}
	{
		path := writeConfig(t, `
providers:
  ollama:
    models: []
`)
		if _, err := Load(path); err == nil {
			t.Fatal("provider without models must error")
		}
	}
	{
		path := writeConfig(t, `
providers:
  ollama:
    models: [llama3]
    delay_seconds: -1
`)
		if _, err := Load(path); err == nil {
			t.Fatal("negative pacing must error")
		}
	}
}
