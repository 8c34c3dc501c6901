// Package translate reduces a user question to compact Swedish search keywords
// tagged with a service category.
package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/botkyrka/assist/chain"
	"github.com/botkyrka/assist/intent"
	"github.com/botkyrka/assist/llm"
	"github.com/botkyrka/assist/metrics"
	"github.com/botkyrka/assist/models"
	"github.com/botkyrka/assist/slug"
)

// DefaultTarget is the language of the municipal site
const DefaultTarget = "sv"

// maxKeywordWords is the longest translated query still treated as keywords
// rather than a restated sentence.
const maxKeywordWords = 6

// localConfidence is reported for keyword-table translations
const localConfidence = 0.5

var translationSchema = llm.MustSchema(`{
	"type": "object",
	"required": ["translatedQuery", "intent", "confidence"],
	"properties": {
		"originalQuery": {"type": "string"},
		"translatedQuery": {"type": "string", "minLength": 1, "maxLength": 120},
		"originalLanguage": {"type": "string"},
		"targetLanguage": {"type": "string"},
		"intent": {"type": "string"},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1}
	}
}`)

type modelTranslation struct {
	TranslatedQuery string  `json:"translatedQuery"`
	Intent          string  `json:"intent"`
	Confidence      float64 `json:"confidence"`
}

// Translator asks the language model for search keywords and falls back to LocalKeywords
type Translator struct {
	gen     llm.Generator
	logger  *zap.Logger
	timeout time.Duration
}

// New creates a translator
func New(gen llm.Generator, logger *zap.Logger, timeout time.Duration) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{gen: gen, logger: logger, timeout: timeout}
}

// Translate never fails and always returns a non-empty TranslatedQuery.
// A query already in the target language is reduced locally without a model call.
func (t *Translator) Translate(ctx context.Context, query, source, target string) models.IntentTranslation {
	if target == "" {
		target = DefaultTarget
	}

	if source == target {
		metrics.StageOutcomesTotal.WithLabelValues("translate", "skipped").Inc()
		return models.IntentTranslation{
			OriginalQuery:    query,
			TranslatedQuery:  SwedishKeywords(query),
			OriginalLanguage: source,
			TargetLanguage:   target,
			Intent:           intent.Classify(query).Category,
			Confidence:       localConfidence,
			Source:           models.SourceLocal,
		}
	}

	res, _ := chain.Run(ctx,
		chain.Strategy[models.IntentTranslation]{
			Name: models.SourceModel,
			Run: func(ctx context.Context) (models.IntentTranslation, error) {
				return t.translateWithModel(ctx, query, source, target)
			},
			Accept: func(tr models.IntentTranslation) bool { return IsCompact(tr.TranslatedQuery) },
		},
		chain.Static(models.SourceLocal, func() models.IntentTranslation {
			return Local(query, source, target)
		}),
	)

	for _, msg := range res.Errors() {
		t.logger.Warn("translation fallback", zap.String("attempt", msg))
	}
	metrics.StageOutcomesTotal.WithLabelValues("translate", res.Strategy).Inc()
	return res.Value
}

// Local is the deterministic translation used when the model is unavailable
func Local(query, source, target string) models.IntentTranslation {
	if target == "" {
		target = DefaultTarget
	}

	keywords := LocalKeywords(query)
	category := models.CategoryGeneral
	if strings.Contains(keywords, "rektor") {
		category = "Grundskola"
	}

	return models.IntentTranslation{
		OriginalQuery:    query,
		TranslatedQuery:  keywords,
		OriginalLanguage: source,
		TargetLanguage:   target,
		Intent:           category,
		Confidence:       localConfidence,
		Source:           models.SourceLocal,
	}
}

// IsCompact reports whether q reads as search keywords rather than a sentence
func IsCompact(q string) bool {
	q = strings.TrimSpace(q)
	if q == "" || strings.ContainsAny(q, "?!\n") || strings.HasSuffix(q, ".") {
		return false
	}
	return len(strings.Fields(q)) <= maxKeywordWords
}

func (t *Translator) translateWithModel(ctx context.Context, query, source, target string) (models.IntentTranslation, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	raw, err := t.gen.Generate(ctx, translationPrompt(query, source, target))
	if err != nil {
		return models.IntentTranslation{}, fmt.Errorf("translate: %w", err)
	}

	var out modelTranslation
	if err := llm.DecodeJSON(raw, translationSchema, &out); err != nil {
		return models.IntentTranslation{}, fmt.Errorf("translate: %w", err)
	}

	return models.IntentTranslation{
		OriginalQuery:    query,
		TranslatedQuery:  strings.ToLower(strings.TrimSpace(out.TranslatedQuery)),
		OriginalLanguage: source,
		TargetLanguage:   target,
		Intent:           NormalizeCategory(out.Intent),
		Confidence:       out.Confidence,
		Source:           models.SourceModel,
	}, nil
}

// NormalizeCategory maps a free-form category label ("Boende och miljö",
// "Utbildning för vuxna") to a known category name, or "general".
func NormalizeCategory(label string) string {
	want := slug.Generate(label)
	if want == "" {
		return models.CategoryGeneral
	}
	wantHead := strings.SplitN(want, "-", 2)[0]

	for _, name := range intent.Categories() {
		have := slug.Generate(name)
		if have == want || strings.SplitN(have, "-", 2)[0] == wantHead {
			return name
		}
	}
	return models.CategoryGeneral
}

func translationPrompt(query, source, target string) string {
	var b strings.Builder
	b.WriteString("You are an expert in Swedish municipality services. Analyze this user query and:\n")
	b.WriteString("1. Detect the intent/category\n")
	b.WriteString("2. Extract the KEY SEARCH TERMS that would work best on a Swedish municipality website\n\n")
	fmt.Fprintf(&b, "User query (in %s): %q\n\n", source, query)
	b.WriteString("Municipality service categories:\n")
	for _, name := range intent.Categories() {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	b.WriteString(`
IMPORTANT: For "translatedQuery", provide ONLY the key search terms in Swedish that would work best in a search engine, NOT a full sentence.

Examples:
- "How do I register my child for preschool?" -> "förskola ansökan"
- "Which schools are available?" -> "grundskolor"
- "How to apply for building permit?" -> "bygglov ansökan"
- "Where can I recycle?" -> "återvinning"

Respond ONLY with this JSON format:
`)
	fmt.Fprintf(&b, `{
  "originalQuery": %q,
  "translatedQuery": "key_search_terms_in_swedish",
  "originalLanguage": %q,
  "targetLanguage": %q,
  "intent": "detected_category",
  "confidence": 0.85
}
`, query, source, target)
	return b.String()
}
