// Package language detects the language of a user message and holds the
// localized canned messages of the assistant.
package language

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/botkyrka/assist/chain"
	"github.com/botkyrka/assist/llm"
	"github.com/botkyrka/assist/metrics"
	"github.com/botkyrka/assist/models"
)

var detectionSchema = llm.MustSchema(`{
	"type": "object",
	"required": ["language", "languageCode", "confidence"],
	"properties": {
		"language": {"type": "string", "minLength": 1},
		"languageCode": {"type": "string", "enum": ["sv", "en", "fi", "so", "ar", "tr"]},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1}
	}
}`)

type modelDetection struct {
	Language     string  `json:"language"`
	LanguageCode string  `json:"languageCode"`
	Confidence   float64 `json:"confidence"`
}

// Detector asks the language model for the language and falls back to Heuristic
type Detector struct {
	gen     llm.Generator
	logger  *zap.Logger
	timeout time.Duration
}

// NewDetector creates a detector. A zero timeout leaves the model call unbounded
// beyond the caller's context.
func NewDetector(gen llm.Generator, logger *zap.Logger, timeout time.Duration) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{gen: gen, logger: logger, timeout: timeout}
}

// Detect never fails: any model error or schema mismatch yields the heuristic result
func (d *Detector) Detect(ctx context.Context, text string) models.LanguageDetection {
	res, _ := chain.Run(ctx,
		chain.Strategy[models.LanguageDetection]{Name: models.SourceModel, Run: func(ctx context.Context) (models.LanguageDetection, error) {
			return d.detectWithModel(ctx, text)
		}},
		chain.Static(models.SourceHeuristic, func() models.LanguageDetection { return Heuristic(text) }),
	)

	for _, msg := range res.Errors() {
		d.logger.Warn("language detection fallback", zap.String("attempt", msg))
	}
	metrics.StageOutcomesTotal.WithLabelValues("language", res.Strategy).Inc()
	return res.Value
}

func (d *Detector) detectWithModel(ctx context.Context, text string) (models.LanguageDetection, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	raw, err := d.gen.Generate(ctx, detectionPrompt(text))
	if err != nil {
		return models.LanguageDetection{}, fmt.Errorf("detect language: %w", err)
	}

	var out modelDetection
	if err := llm.DecodeJSON(raw, detectionSchema, &out); err != nil {
		return models.LanguageDetection{}, fmt.Errorf("detect language: %w", err)
	}

	l, _ := Lookup(out.LanguageCode)
	return models.LanguageDetection{
		Language:   l.Name,
		Code:       out.LanguageCode,
		Confidence: out.Confidence,
		Source:     models.SourceModel,
	}, nil
}

func detectionPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Detect the language of this text and provide the ISO language code.\n\n")
	fmt.Fprintf(&b, "Text: %q\n\n", text)
	b.WriteString("Supported languages:\n")
	for _, l := range supported {
		fmt.Fprintf(&b, "- %s (%s)\n", l.Name, l.Code)
	}
	b.WriteString(`
Respond ONLY with this JSON format:
{
  "language": "language_name",
  "languageCode": "iso_code",
  "confidence": 0.95
}
`)
	return b.String()
}
