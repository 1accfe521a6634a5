package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
// Usage metadata from every call feeds the attached cost meter.
type GeminiClient struct {
	cli   *genai.Client
	model string
	meter *CostMeter
}

func NewGeminiClient(ctx context.Context, apiKey, model string, meter *CostMeter) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiClient{cli: cli, model: model, meter: meter}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// CountTokens is a local estimate; good enough for ledger bookkeeping.
func (g *GeminiClient) CountTokens(text string) int { return len(text) / 4 }

// GenerateJSON sends the concatenated prompt/input and requests application/json.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	full := joinPromptInput(prompt, input)

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if resp.UsageMetadata != nil {
		g.meter.Add(g.model,
			int64(resp.UsageMetadata.PromptTokenCount),
			int64(resp.UsageMetadata.CandidatesTokenCount))
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrInvalidJSON
	}
	txt := resp.Candidates[0].Content.Parts[0].Text
	raw, err := CleanModelJSON([]byte(txt))
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// joinPromptInput renders the prompt plus the input payload as one text part.
func joinPromptInput(prompt string, input any) string {
	if input == nil {
		return prompt
	}
	switch v := input.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return prompt
		}
		return prompt + "\n\n" + v
	default:
		in, _ := json.MarshalIndent(input, "", "  ")
		return prompt + "\n\n[INPUT JSON]\n" + string(in)
	}
}
