package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by the Absent provider.
var ErrNotConfigured = errors.New("llm provider not configured")

// Provider defines the interface for interacting with LLM backends.
// Implementations handle protocol-specific details such as request formatting,
// authentication, and response parsing.
type Provider interface {
	// Configured reports whether the provider can reach a real backend.
	// Callers use it to pick their local fallback behavior.
	Configured() bool

	// Complete sends a chat completion request and returns the full response.
	Complete(ctx context.Context, messages []Message, opts Options) (*Response, error)

	// Stream sends a chat completion request and returns a channel of incremental deltas.
	// The channel is closed when the provider ends the stream or ctx is cancelled.
	// A delta carrying Err is always the last one delivered.
	Stream(ctx context.Context, messages []Message, opts Options) (<-chan Delta, error)
}

// Config holds common configuration for LLM providers.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Options are per-call settings. A zero Model means the provider default.
type Options struct {
	Model       string
	Temperature float32
}

// Absent stands in for a provider when no credential was configured at startup.
type Absent struct{}

func (Absent) Configured() bool { return false }

func (Absent) Complete(context.Context, []Message, Options) (*Response, error) {
	return nil, ErrNotConfigured
}

func (Absent) Stream(context.Context, []Message, Options) (<-chan Delta, error) {
	return nil, ErrNotConfigured
}
