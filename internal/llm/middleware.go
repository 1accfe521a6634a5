package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Middleware decorates an LLMClient to inject cross-cutting concerns
// (rate limiting, retries, logging, hooks, etc.).
type Middleware func(LLMClient) LLMClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner LLMClient, mws ...Middleware) LLMClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Rate Limiting --------

// RateLimit limits request rate using the token-bucket limiter.
// If rps <= 0, the limiter is effectively disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next LLMClient) LLMClient {
		rl := newRPSLimiter(rps, burst) // nil when disabled
		return &rateLimited{next: next, rl: rl}
	}
}

type rateLimited struct {
	next LLMClient
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }

// Close stops the limiter's refill goroutine before closing the client.
func (c *rateLimited) Close() error {
	c.rl.Stop()
	return c.next.Close()
}

func (c *rateLimited) CountTokens(text string) int { return c.next.CountTokens(text) }
func (c *rateLimited) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if c.rl != nil {
		// Prefer reserved credits embedded in the context.
		if !TakeCredit(ctx) {
			if err := c.rl.Acquire(ctx); err != nil {
				return nil, err
			}
		}
	}
	return c.next.GenerateJSON(ctx, prompt, input)
}

// RateLimitFromEnv reads RPS/BURST from environment variables with the
// given prefixes in priority order. For example, ("LLM","GEMINI")
// checks LLM_RPS/LLM_BURST first, then GEMINI_RPS/GEMINI_BURST.
func RateLimitFromEnv(prefixes ...string) Middleware {
	return func(next LLMClient) LLMClient {
		rps, burst := limitsFromEnv(prefixes)
		rl := newRPSLimiter(rps, burst) // nil when disabled
		return &rateLimited{next: next, rl: rl}
	}
}

// LimiterFromEnv builds a standalone Limiter from the same _RPS/_BURST
// variables RateLimitFromEnv reads. Brokers reserving permits up-front
// share the configuration this way.
func LimiterFromEnv(prefixes ...string) Limiter {
	rps, burst := limitsFromEnv(prefixes)
	return NewLimiter(rps, burst)
}

func limitsFromEnv(prefixes []string) (float64, int) {
	find := func(suffix string) string {
		for _, p := range prefixes {
			if p == "" {
				continue
			}
			if v := os.Getenv(p + suffix); v != "" {
				return v
			}
		}
		return ""
	}
	rps, _ := strconv.ParseFloat(find("_RPS"), 64)
	burst, _ := strconv.Atoi(find("_BURST"))
	return rps, burst
}

// -------- Retry with exponential backoff --------

// Retry retries GenerateJSON up to maxAttempts with exponential backoff
// starting at baseDelay. Permanent errors are returned immediately, and
// quota errors (429 / RESOURCE_EXHAUSTED) wait on a longer schedule.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next LLMClient) LLMClient {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next LLMClient
	max  int
	base time.Duration
}

func (r *retrying) Name() string                { return r.next.Name() }
func (r *retrying) Close() error                { return r.next.Close() }
func (r *retrying) CountTokens(text string) int { return r.next.CountTokens(text) }
func (r *retrying) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	var last error
	for i := 0; i < r.max; i++ {
		resp, err := r.next.GenerateJSON(ctx, prompt, input)
		if err == nil {
			return resp, nil
		}
		var pErr *PermanentError
		if errors.As(err, &pErr) {
			return nil, err
		}
		last = err
		// Stop immediately if the context is canceled.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		delay := r.base * time.Duration(1<<i)
		if isQuotaError(err) {
			delay = 10 * time.Second * time.Duration(i+1)
		}
		time.Sleep(delay)
	}
	return nil, last
}

func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "429") || strings.Contains(s, "RESOURCE_EXHAUSTED")
}

// -------- Logging & Hooks --------

// WithLogging logs request size and errors. Provide a custom logger or nil
// to use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next LLMClient) LLMClient {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next LLMClient
	log  *log.Logger
}

func (l *logging) Name() string                { return l.next.Name() }
func (l *logging) Close() error                { return l.next.Close() }
func (l *logging) CountTokens(text string) int { return l.next.CountTokens(text) }
func (l *logging) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	in, _ := json.Marshal(input)
	l.log.Printf("LLM request (%s, %s): %d bytes", l.next.Name(), StageFrom(ctx), len(prompt)+len(in))
	raw, err := l.next.GenerateJSON(ctx, prompt, input)
	if err != nil {
		l.log.Printf("LLM error (%s, %s): %v", l.next.Name(), StageFrom(ctx), err)
	}
	return raw, err
}

// WithHooks calls HookFrom(ctx).Before/After around GenerateJSON.
// If no hook is present in the context, it is a no-op.
func WithHooks() Middleware {
	return func(next LLMClient) LLMClient {
		return &hooked{next: next}
	}
}

type hooked struct{ next LLMClient }

func (h *hooked) Name() string                { return h.next.Name() }
func (h *hooked) Close() error                { return h.next.Close() }
func (h *hooked) CountTokens(text string) int { return h.next.CountTokens(text) }
func (h *hooked) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if hook := HookFrom(ctx); hook != nil {
		hook.Before(ctx, StageFrom(ctx), prompt, input)
	}
	raw, err := h.next.GenerateJSON(ctx, prompt, input)
	if hook := HookFrom(ctx); hook != nil {
		hook.After(ctx, StageFrom(ctx), raw, err)
	}
	return raw, err
}
