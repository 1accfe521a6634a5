package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidJSON signals a model response that could not be parsed as JSON.
var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

// LLMClient is the narrow surface every model provider implements.
type LLMClient interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	CountTokens(text string) int
	Close() error
}

// PermanentError wraps an error that retrying cannot fix (bad request,
// auth failure, safety block). Retry middleware passes it through.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return fmt.Sprintf("permanent: %v", e.Err) }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent marks err as non-retryable. Returns nil for a nil err.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}
