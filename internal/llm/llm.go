package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for resume text generation.
type Client interface {
	// Complete returns plain text for the given system and user messages.
	Complete(ctx context.Context, system, user string) (string, error)
	// CompleteJSON returns a valid JSON object for the given messages.
	CompleteJSON(ctx context.Context, system, user string) (json.RawMessage, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM not configured")

// PlaceholderClient stands in when no provider credentials are set, so the
// rest of the service still boots in development.
type PlaceholderClient struct{}

func (PlaceholderClient) Complete(ctx context.Context, system, user string) (string, error) {
	_ = ctx
	_ = system
	_ = user
	return "", ErrNotConfigured
}

func (PlaceholderClient) CompleteJSON(ctx context.Context, system, user string) (json.RawMessage, error) {
	_ = ctx
	_ = system
	_ = user
	return nil, ErrNotConfigured
}
