package language

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/botkyrka/assist/llm"
	"github.com/botkyrka/assist/models"
)

type stubGenerator struct {
	out    string
	err    error
	prompt string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.out, s.err
}

func TestDetectUsesModel(t *testing.T) {
	gen := &stubGenerator{out: "```json\n{\"language\": \"Somali\", \"languageCode\": \"so\", \"confidence\": 0.93}\n```"}
	d := NewDetector(gen, zaptest.NewLogger(t), 0)

	got := d.Detect(context.Background(), "Sidee baan u codsadaa dugsiga?")

	assert.Equal(t, models.LanguageDetection{Language: "Somali", Code: "so", Confidence: 0.93, Source: models.SourceModel}, got)
	assert.Contains(t, gen.prompt, `"Sidee baan u codsadaa dugsiga?"`)
	assert.Contains(t, gen.prompt, "- Turkish (tr)")
}

func TestDetectFallsBackToHeuristic(t *testing.T) {
	tests := []struct {
		name string
		gen  llm.Generator
	}{
		{"model unavailable", &stubGenerator{err: llm.ErrUnavailable}},
		{"prose instead of json", &stubGenerator{out: "The text is English."}},
		{"unsupported code", &stubGenerator{out: `{"language": "German", "languageCode": "de", "confidence": 0.9}`}},
		{"confidence out of range", &stubGenerator{out: `{"language": "English", "languageCode": "en", "confidence": 95}`}},
		{"disabled provider", llm.Disabled{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(tt.gen, zaptest.NewLogger(t), 0)

			got := d.Detect(context.Background(), "Where is the school?")

			assert.Equal(t, "en", got.Code)
			assert.Equal(t, models.SourceHeuristic, got.Source)
		})
	}
}

func TestDetectCancelledContextStillAnswers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDetector(&stubGenerator{err: errors.New("context canceled")}, nil, 0)
	got := d.Detect(ctx, "Hej")

	assert.Equal(t, Default, got.Code)
}

func TestHeuristic(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		code       string
		confidence float64
	}{
		{"arabic script", "أين المدرسة؟", "ar", 0.8},
		{"arabic beats latin markers", "school مدرسة", "ar", 0.8},
		{"english", "What is the best school?", "en", 0.7},
		{"swedish", "Vilka skolor finns i kommunen?", "sv", 0.7},
		{"turkish", "Anaokulu nerede?", "tr", 0.7},
		{"turkish inflected", "Çocuklar için okulu nasıl bulurum", "tr", 0.7},
		{"no signal", "Hej", "sv", 0.6},
		{"tie", "skola school", "sv", 0.6},
		{"empty", "", "sv", 0.6},
		{"substring is not a word", "isolation variable", "sv", 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Heuristic(tt.text)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.confidence, got.Confidence)
			assert.Equal(t, models.SourceHeuristic, got.Source)
			assert.NotEmpty(t, got.Language)
		})
	}
}

func TestMessagesFallBackToSwedish(t *testing.T) {
	assert.Equal(t, "Hello! How can I help you today?", Greeting("en"))
	assert.Equal(t, Greeting("sv"), Greeting("xx"))
	assert.Equal(t, Apology("sv"), Apology(""))
	assert.Contains(t, Apology("fi"), "Botkyrkan")
	assert.Equal(t, NoResults("sv"), NoResults("de"))
	assert.Contains(t, FallbackConfirmation("en"), "2-3 business days")
	assert.Contains(t, FeedbackThanks("sv"), "Tack för din feedback")
}

func TestSupported(t *testing.T) {
	langs := Supported()
	assert.Len(t, langs, 6)
	assert.Equal(t, "sv", langs[0].Code)

	langs[0].Code = "xx"
	assert.Equal(t, "sv", Supported()[0].Code, "callers must not mutate the table")
	assert.Equal(t, "Türkçe", NativeName("tr"))
	assert.Equal(t, "Svenska", NativeName("de"))
}
