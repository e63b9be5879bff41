package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// ClaudeProvider calls the Anthropic Messages API for one model.
type ClaudeProvider struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

func NewClaudeProvider(apiKey, baseURL, model string) *ClaudeProvider {
	opts := make([]option.RequestOption, 0, 3)
	if v := strings.TrimSpace(apiKey); v != "" {
		opts = append(opts, option.WithAPIKey(v))
	}
	if v := strings.TrimSpace(baseURL); v != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(v, "/")))
	}
	// Retries are the rate policy's job, not the SDK's.
	opts = append(opts, option.WithMaxRetries(0))

	client := anthropic.NewClient(opts...)
	return &ClaudeProvider{
		client:    &client,
		model:     strings.TrimSpace(model),
		maxTokens: 1024,
	}
}

func (p *ClaudeProvider) Name() string {
	return p.model
}

func (p *ClaudeProvider) Group() string {
	return "claude"
}

func (p *ClaudeProvider) Send(ctx context.Context, question, system string) (string, error) {
	if p == nil || p.client == nil {
		return "", Permanent(errors.New("llm: claude: nil client"))
	}
	if ctx == nil {
		return "", Permanent(errors.New("llm: claude: nil context"))
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   p.maxTokens,
		Temperature: param.NewOpt(0.0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(question)),
		},
	}
	if s := strings.TrimSpace(system); s != "" {
		params.System = []anthropic.TextBlockParam{{Text: s, Type: "text"}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", classifyClaudeError(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", Permanent(errors.New("llm: claude: no text content"))
	}
	return sb.String(), nil
}

func classifyClaudeError(err error) error {
	var sdkErr *anthropic.Error
	if errors.As(err, &sdkErr) {
		if sdkErr.StatusCode == http.StatusTooManyRequests || sdkErr.StatusCode == 529 {
			return RateLimited(err)
		}
		return Permanent(err)
	}
	if strings.Contains(err.Error(), "429") {
		return RateLimited(err)
	}
	return Permanent(err)
}
