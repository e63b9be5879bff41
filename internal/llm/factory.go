package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/stellarlinkco/legal-bench/internal/config"
)

// NewRegistryFromConfig builds one provider per configured model and attaches
// each group's pacing. Groups are visited in sorted order so registration
// order, and therefore output column order, is deterministic.
func NewRegistryFromConfig(ctx context.Context, cfg *config.Config) (*Registry, error) {
	if cfg == nil {
		return nil, errors.New("llm: nil config")
	}

	groups := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		groups = append(groups, name)
	}
	sort.Strings(groups)

	r := NewRegistry()
	for _, name := range groups {
		pcfg := cfg.Providers[name]
		key := strings.ToLower(strings.TrimSpace(name))

		for _, model := range pcfg.Models {
			model = strings.TrimSpace(model)
			if model == "" {
				continue
			}

			var p Provider
			switch key {
			case config.GroupGateway:
				p = NewGatewayProvider(pcfg.APIKey, pcfg.BaseURL, model)
			case config.GroupGemini:
				gp, err := NewGeminiProvider(ctx, pcfg.APIKey, model)
				if err != nil {
					return nil, err
				}
				p = gp
			case config.GroupOllama:
				p = NewOllamaProvider(pcfg.BaseURL, model)
			case config.GroupClaude:
				p = NewClaudeProvider(pcfg.APIKey, pcfg.BaseURL, model)
			default:
				return nil, fmt.Errorf("llm: unknown provider group %q", name)
			}
			r.Register(p)
		}

		r.SetPacing(key, Pacing{
			Delay:      time.Duration(pcfg.DelaySeconds) * time.Second,
			Cooldown:   time.Duration(pcfg.CooldownSeconds) * time.Second,
			MaxRetries: pcfg.MaxRetries,
		})
	}

	if r.Len() == 0 {
		return nil, errors.New("llm: no models configured")
	}
	return r, nil
}
