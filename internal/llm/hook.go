package llm

import (
	"context"
	"encoding/json"
)

// PromptHook observes prompts and responses around GenerateJSON.
type PromptHook interface {
	Before(ctx context.Context, stage, prompt string, input any)
	After(ctx context.Context, stage string, raw json.RawMessage, err error)
}

type ctxKeyHook struct{}
type ctxKeyStage struct{}

// WithHookContext attaches a PromptHook to the context used by GenerateJSON.
func WithHookContext(ctx context.Context, hook PromptHook) context.Context {
	return context.WithValue(ctx, ctxKeyHook{}, hook)
}

// WithStage labels the context with the pipeline stage issuing the call.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, ctxKeyStage{}, stage)
}

// HookFrom returns the hook stored in the context.
func HookFrom(ctx context.Context) PromptHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(PromptHook); ok {
			return h
		}
	}
	return nil
}

// StageFrom returns the stage string stored in the context.
func StageFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyStage{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}
