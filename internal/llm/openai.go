package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// GatewayProvider talks to any OpenAI-compatible chat endpoint, including
// LiteLLM-style university gateways that front many models behind one URL.
type GatewayProvider struct {
	client *openai.Client
	model  string
}

func NewGatewayProvider(apiKey, baseURL, model string) *GatewayProvider {
	cfg := openai.DefaultConfig(strings.TrimSpace(apiKey))
	if v := strings.TrimSpace(baseURL); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}

	return &GatewayProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  strings.TrimSpace(model),
	}
}

func (p *GatewayProvider) Name() string {
	return p.model
}

func (p *GatewayProvider) Group() string {
	return "gateway"
}

func (p *GatewayProvider) Send(ctx context.Context, question, system string) (string, error) {
	if p == nil || p.client == nil {
		return "", Permanent(errors.New("llm: gateway: nil client"))
	}
	if ctx == nil {
		return "", Permanent(errors.New("llm: gateway: nil context"))
	}

	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if s := strings.TrimSpace(system); s != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: s,
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: question,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    msgs,
		Temperature: 0,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", Permanent(errors.New("llm: gateway: empty choices"))
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		// A blank completion carries no signal; treat it like a filtered
		// response rather than letting it score as a real answer.
		return "", Permanent(fmt.Errorf("llm: gateway: empty completion (finish_reason=%s)", resp.Choices[0].FinishReason))
	}
	return text, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return RateLimited(err)
	}
	if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "rate limit") {
		return RateLimited(err)
	}
	return Permanent(err)
}
