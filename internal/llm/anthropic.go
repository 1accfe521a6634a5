package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// AnthropicClient calls the Anthropic Messages API over plain HTTP and
// expects the model to answer with a single JSON document in its first
// text block.
type AnthropicClient struct {
	http    *http.Client
	apiKey  string
	model   string
	baseURL string
	meter   *CostMeter
}

// NewAnthropicClient creates a client. If apiKey is empty it falls back
// to the ANTHROPIC_API_KEY env var.
func NewAnthropicClient(apiKey, model string, meter *CostMeter) (*AnthropicClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	return &AnthropicClient{
		http:    &http.Client{Timeout: 120 * time.Second},
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.anthropic.com/v1/messages",
		meter:   meter,
	}, nil
}

func (a *AnthropicClient) Name() string                { return "Claude:" + a.model }
func (a *AnthropicClient) Close() error                { return nil }
func (a *AnthropicClient) CountTokens(text string) int { return len(text) / 4 }

type anthropicReq struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResp struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int64 `json:"input_tokens"`
		OutputTokens int64 `json:"output_tokens"`
	} `json:"usage"`
}

// GenerateJSON assembles a single user message from prompt + input and
// parses JSON out of the first text block.
func (a *AnthropicClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	full := joinPromptInput(prompt, input)

	reqBody := anthropicReq{
		Model:     a.model,
		MaxTokens: 8192,
		Messages:  []anthropicMessage{{Role: "user", Content: full}},
	}
	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, Permanent(fmt.Errorf("anthropic: status %s: %s", resp.Status, body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("anthropic: unexpected status %s", resp.Status)
	}

	var out anthropicResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	a.meter.Add(a.model, out.Usage.InputTokens, out.Usage.OutputTokens)

	for _, c := range out.Content {
		if c.Type == "text" && c.Text != "" {
			return CleanModelJSON([]byte(c.Text))
		}
	}
	return nil, ErrInvalidJSON
}
