package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/botkyrka/assist/metrics"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI generates text with any OpenAI-compatible chat completion endpoint
type OpenAI struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAI creates an OpenAI-compatible client. An empty BaseURL keeps the public endpoint.
func NewOpenAI(cfg Config) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAI{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: cfg.Timeout,
	}
}

// Generate sends the prompt as one user message and returns the first choice
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, o.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, req)
	metrics.LLMRequestDuration.WithLabelValues("openai", o.model).Observe(time.Since(start).Seconds())

	if err != nil {
		observeError("openai", o.model, "api_error")
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		observeError("openai", o.model, "empty_response")
		return "", ErrEmptyResponse
	}

	metrics.LLMRequestsTotal.WithLabelValues("openai", o.model, "success").Inc()
	return resp.Choices[0].Message.Content, nil
}

// parseAPIError extracts a readable error from the API response.
// All errors wrap ErrUnavailable so callers route to their fallback.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("llm API error %d: %s: %w", reqErr.HTTPStatusCode, detail, ErrUnavailable)
		}
		return fmt.Errorf("llm API error %d: %w", reqErr.HTTPStatusCode, ErrUnavailable)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("llm API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, ErrUnavailable)
	}

	return fmt.Errorf("llm request failed: %v: %w", err, ErrUnavailable)
}

// extractDetail reads the "detail" field some compatible providers use for errors
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
