// Package synth builds the grounded answer prompt and makes the single
// language model call that produces the answer text.
package synth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/botkyrka/assist/language"
	"github.com/botkyrka/assist/llm"
	"github.com/botkyrka/assist/metrics"
)

// Synthesizer turns a Context into answer text
type Synthesizer struct {
	gen     llm.Generator
	logger  *zap.Logger
	timeout time.Duration
}

// New creates a synthesizer. A zero timeout leaves the call bounded only by ctx.
func New(gen llm.Generator, logger *zap.Logger, timeout time.Duration) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{gen: gen, logger: logger, timeout: timeout}
}

// Synthesize makes one model call with the assembled prompt and returns the raw
// model text. Callers answer with Fallback when it fails.
func (s *Synthesizer) Synthesize(ctx context.Context, c Context) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.gen.Generate(ctx, Prompt(c))
	metrics.StageDuration.WithLabelValues("synthesis").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StageOutcomesTotal.WithLabelValues("synthesis", "failed").Inc()
		return "", fmt.Errorf("synthesize answer: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		metrics.StageOutcomesTotal.WithLabelValues("synthesis", "failed").Inc()
		return "", fmt.Errorf("synthesize answer: %w", llm.ErrEmptyResponse)
	}

	metrics.StageOutcomesTotal.WithLabelValues("synthesis", "model").Inc()
	s.logger.Debug("answer synthesized", zap.Int("chars", len(text)))
	return text, nil
}

// Fallback is the canned text used when synthesis fails, in the detected language
func Fallback(c Context) string {
	code := c.Language.Code
	switch {
	case c.Greeting:
		return language.Greeting(code)
	case c.NoResults:
		return language.NoResults(code)
	default:
		return language.Apology(code)
	}
}
