package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider calls the Gemini API through Google's native SDK. Safety
// thresholds are relaxed to BLOCK_ONLY_HIGH because legal topics (evictions,
// harassment complaints) otherwise trip the default filters.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: gemini: new client: %w", err)
	}
	return &GeminiProvider{
		client: client,
		model:  strings.TrimSpace(model),
	}, nil
}

func (p *GeminiProvider) Name() string {
	return p.model
}

func (p *GeminiProvider) Group() string {
	return "gemini"
}

func (p *GeminiProvider) Send(ctx context.Context, question, system string) (string, error) {
	if p == nil || p.client == nil {
		return "", Permanent(errors.New("llm: gemini: nil client"))
	}
	if ctx == nil {
		return "", Permanent(errors.New("llm: gemini: nil context"))
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:    genai.Ptr[float32](0),
		SafetySettings: relaxedSafetySettings(),
	}
	if s := strings.TrimSpace(system); s != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: s}},
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(question), cfg)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		// The safety filter returns a candidate with no parts. Surface it
		// through the permanent channel, never as an empty answer.
		return "", Permanent(errors.New("llm: gemini: safety filter produced no content"))
	}
	return text, nil
}

func relaxedSafetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	out := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		out = append(out, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockOnlyHigh,
		})
	}
	return out
}

func classifyGeminiError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "Resource exhausted") ||
		strings.Contains(strings.ToLower(msg), "rate limit") {
		return RateLimited(err)
	}
	return Permanent(err)
}
