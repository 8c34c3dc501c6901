// Package llm adapts hosted language models to a single prompt-in, text-out
// capability and decodes structured model output against JSON schemas.
package llm

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnavailable covers network, quota and non-2xx failures of the model endpoint.
	ErrUnavailable = errors.New("language model unavailable")
	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("language model returned an empty response")
	// ErrMalformed is returned when model output does not match the expected schema.
	ErrMalformed = errors.New("malformed language model output")
)

// Generator produces text for a prompt. Implementations make exactly one call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config selects and configures a provider
type Config struct {
	Provider string // "gemini", "openai" or "none"
	APIKey   string
	Model    string
	BaseURL  string // OpenAI-compatible endpoints only
	Timeout  time.Duration
}

// Disabled is the generator used when no provider is configured.
// Every call fails, so each stage runs its local fallback.
type Disabled struct{}

// Generate always returns ErrUnavailable
func (Disabled) Generate(context.Context, string) (string, error) {
	return "", ErrUnavailable
}

// New builds the generator for cfg.Provider. The returned closer releases
// provider resources and is never nil.
func New(ctx context.Context, cfg Config) (Generator, func() error, error) {
	switch cfg.Provider {
	case "gemini":
		g, err := NewGemini(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	case "openai":
		return NewOpenAI(cfg), noopClose, nil
	case "", "none":
		return Disabled{}, noopClose, nil
	default:
		return nil, nil, errors.New("unknown llm provider " + cfg.Provider)
	}
}

func noopClose() error { return nil }

// withTimeout bounds one model call when a timeout is configured
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
