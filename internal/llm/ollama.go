package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaProvider hits a self-hosted Ollama chat endpoint. No auth; any
// non-200 status or connection failure maps to the permanent channel since a
// local runtime has no quota to wait out.
type OllamaProvider struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if u == "" {
		u = defaultOllamaURL
	}
	return &OllamaProvider{
		httpClient: &http.Client{},
		baseURL:    u,
		model:      strings.TrimSpace(model),
	}
}

func (p *OllamaProvider) Name() string {
	return p.model
}

func (p *OllamaProvider) Group() string {
	return "ollama"
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

func (p *OllamaProvider) Send(ctx context.Context, question, system string) (string, error) {
	if p == nil || p.httpClient == nil {
		return "", Permanent(errors.New("llm: ollama: nil client"))
	}
	if ctx == nil {
		return "", Permanent(errors.New("llm: ollama: nil context"))
	}

	msgs := make([]ollamaMessage, 0, 2)
	if s := strings.TrimSpace(system); s != "" {
		msgs = append(msgs, ollamaMessage{Role: "system", Content: s})
	}
	msgs = append(msgs, ollamaMessage{Role: "user", Content: question})

	body, err := json.Marshal(ollamaChatRequest{
		Model:    p.model,
		Messages: msgs,
		Stream:   false,
	})
	if err != nil {
		return "", Permanent(fmt.Errorf("llm: ollama: marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", Permanent(fmt.Errorf("llm: ollama: new request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", Permanent(fmt.Errorf("llm: ollama: connect: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", Permanent(fmt.Errorf("llm: ollama: status %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Permanent(fmt.Errorf("llm: ollama: read body: %w", err))
	}

	var out ollamaChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", Permanent(fmt.Errorf("llm: ollama: decode body: %w", err))
	}
	if strings.TrimSpace(out.Message.Content) == "" {
		return "", Permanent(errors.New("llm: ollama: empty message content"))
	}
	return out.Message.Content, nil
}
