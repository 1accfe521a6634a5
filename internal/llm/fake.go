package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// FakeClient returns canned JSON payloads for offline runs and tests.
// Responses are keyed by stage; unknown stages get the fallback.
type FakeClient struct {
	mu        sync.Mutex
	name      string
	responses map[string]json.RawMessage
	fallback  json.RawMessage
	err       error
	calls     []string
}

func NewFakeClient(name string) *FakeClient {
	if name == "" {
		name = "FakeLLM"
	}
	return &FakeClient{
		name:      name,
		responses: make(map[string]json.RawMessage),
		fallback:  json.RawMessage(`{}`),
	}
}

// Respond registers the payload returned for a stage.
func (f *FakeClient) Respond(stage string, payload string) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[stage] = json.RawMessage(payload)
	return f
}

// RespondAll sets the fallback payload for unregistered stages.
func (f *FakeClient) RespondAll(payload string) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallback = json.RawMessage(payload)
	return f
}

// Fail makes every call return err.
func (f *FakeClient) Fail(err error) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
	return f
}

// Calls returns the stages seen so far.
func (f *FakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeClient) Name() string                { return f.name }
func (f *FakeClient) Close() error                { return nil }
func (f *FakeClient) CountTokens(text string) int { return len(text) / 4 }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	stage := StageFrom(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, stage)
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.responses[stage]; ok {
		return r, nil
	}
	return f.fallback, nil
}
