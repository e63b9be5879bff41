package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

// Provider group names recognized by the llm registry.
const (
	GroupGateway = "gateway"
	GroupGemini  = "gemini"
	GroupOllama  = "ollama"
	GroupClaude  = "claude"
)

type Config struct {
	Providers map[string]ProviderConfig `yaml:"providers"`
	Inference InferenceConfig           `yaml:"inference"`
	Scoring   ScoringConfig             `yaml:"scoring"`
	Paths     PathsConfig               `yaml:"paths"`
	Storage   StorageConfig             `yaml:"storage"`
	Server    ServerConfig              `yaml:"server"`
}

// ProviderConfig describes one provider group and the models served through it.
type ProviderConfig struct {
	APIKey  string   `yaml:"api_key,omitempty"`
	BaseURL string   `yaml:"base_url,omitempty"`
	Models  []string `yaml:"models"`

	// Pacing: fixed delay after every call, longer cooldown after a
	// rate-limit response, bounded retries of the same request.
	DelaySeconds    int `yaml:"delay_seconds,omitempty"`
	CooldownSeconds int `yaml:"cooldown_seconds,omitempty"`
	MaxRetries      int `yaml:"max_retries,omitempty"`
}

type InferenceConfig struct {
	SystemPrompt    string  `yaml:"system_prompt,omitempty"`
	MaxTokens       int     `yaml:"max_tokens,omitempty"`
	Temperature     float64 `yaml:"temperature"`
	CheckpointEvery int     `yaml:"checkpoint_every,omitempty"`
}

type ScoringConfig struct {
	Embedding EmbeddingConfig    `yaml:"embedding"`
	Weights   map[string]float64 `yaml:"weights,omitempty"`
}

// EmbeddingConfig points the semantic scorer at an OpenAI-compatible
// embeddings endpoint.
type EmbeddingConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type PathsConfig struct {
	Dataset     string `yaml:"dataset,omitempty"`
	Results     string `yaml:"results,omitempty"`
	Leaderboard string `yaml:"leaderboard,omitempty"`
}

type StorageConfig struct {
	Path string `yaml:"path,omitempty"` // SQLite file path
}

type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	if cfg.Inference.MaxTokens <= 0 {
		cfg.Inference.MaxTokens = 1024
	}
	if cfg.Inference.CheckpointEvery <= 0 {
		cfg.Inference.CheckpointEvery = 2
	}
	if strings.TrimSpace(cfg.Inference.SystemPrompt) == "" {
		cfg.Inference.SystemPrompt = "You are a helpful housing law assistant. Answer accurately based on NYC law."
	}
	if strings.TrimSpace(cfg.Paths.Dataset) == "" {
		cfg.Paths.Dataset = "data/legal_benchmark.json"
	}
	if strings.TrimSpace(cfg.Paths.Results) == "" {
		cfg.Paths.Results = "results/benchmark.json"
	}
	if strings.TrimSpace(cfg.Paths.Leaderboard) == "" {
		cfg.Paths.Leaderboard = "results/leaderboard.json"
	}
	if strings.TrimSpace(cfg.Storage.Path) == "" {
		cfg.Storage.Path = "data/leaderboard.db"
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = ":8080"
	}
}

func applyEnv(cfg *Config) {
	setKey := func(group, envKey string) {
		v := strings.TrimSpace(os.Getenv(envKey))
		if v == "" {
			return
		}
		p, ok := cfg.Providers[group]
		if !ok {
			return
		}
		p.APIKey = v
		cfg.Providers[group] = p
	}

	setKey(GroupGateway, "GATEWAY_API_KEY")
	setKey(GroupGemini, "GEMINI_API_KEY")
	setKey(GroupClaude, "ANTHROPIC_API_KEY")

	if v := strings.TrimSpace(os.Getenv("EMBEDDING_API_KEY")); v != "" {
		cfg.Scoring.Embedding.APIKey = v
	}
}

// Validate rejects configurations the run loop cannot work with.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	for name, p := range cfg.Providers {
		key := strings.ToLower(strings.TrimSpace(name))
		switch key {
		case GroupGateway, GroupGemini, GroupOllama, GroupClaude:
		default:
			return fmt.Errorf("config: unknown provider group %q", name)
		}
		if len(p.Models) == 0 {
			return fmt.Errorf("config: provider %q has no models", name)
		}
		if p.DelaySeconds < 0 || p.CooldownSeconds < 0 || p.MaxRetries < 0 {
			return fmt.Errorf("config: provider %q has negative pacing values", name)
		}
	}
	return nil
}

// ModelCount returns the total number of configured models across all groups.
func (cfg *Config) ModelCount() int {
	if cfg == nil {
		return 0
	}
	n := 0
	for _, p := range cfg.Providers {
		n += len(p.Models)
	}
	return n
}
