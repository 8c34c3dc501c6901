package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/botkyrka/assist/metrics"
)

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini generates text with Google's Gemini API
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini creates a Gemini client authenticated with an API key.
// opts are appended to the client options, e.g. to override the endpoint.
func NewGemini(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	opts = append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{client: client, model: model, timeout: cfg.Timeout}, nil
}

// Generate sends the prompt as a single text part and returns the text of the first candidate
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	res, err := g.client.GenerativeModel(g.model).GenerateContent(ctx, genai.Text(prompt))
	metrics.LLMRequestDuration.WithLabelValues("gemini", g.model).Observe(time.Since(start).Seconds())

	if err != nil {
		observeError("gemini", g.model, "api_error")
		return "", fmt.Errorf("gemini generate: %v: %w", err, ErrUnavailable)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		observeError("gemini", g.model, "empty_response")
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		observeError("gemini", g.model, "empty_response")
		return "", ErrEmptyResponse
	}

	metrics.LLMRequestsTotal.WithLabelValues("gemini", g.model, "success").Inc()
	return b.String(), nil
}

// Close releases the underlying client
func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func observeError(provider, model, errType string) {
	metrics.LLMRequestsTotal.WithLabelValues(provider, model, "error").Inc()
	metrics.LLMErrorsTotal.WithLabelValues(provider, model, errType).Inc()
}
