package synth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/botkyrka/assist/intent"
	"github.com/botkyrka/assist/language"
	"github.com/botkyrka/assist/llm"
	"github.com/botkyrka/assist/models"
)

type stubGenerator struct {
	out    string
	err    error
	delay  time.Duration
	prompt string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.out, s.err
}

func schoolContext() Context {
	msg := "Vem är rektor på Hammerstaskolan?"
	return Context{
		Message: msg,
		History: []models.Turn{
			{Role: models.RoleUser, Text: "Hej"},
			{Role: models.RoleAssistant, Text: "Hej! Hur kan jag hjälpa dig idag?"},
		},
		Intent:      intent.Classify(msg),
		Language:    models.LanguageDetection{Language: "Swedish", Code: "sv", Confidence: 0.9, Source: models.SourceModel},
		SearchQuery: "hammerstaskolan",
		Results: []models.SearchResult{
			{Title: "Hammerstaskolan", Description: "Grundskola i Hallunda", Link: "https://www.botkyrka.se/hammerstaskolan", RelevanceScore: 35},
			{Title: "Skolval", Link: "https://www.botkyrka.se/skolval", RelevanceScore: 15},
			{Title: "Grundskolor i Botkyrka", Link: "https://www.botkyrka.se/grundskolor-i-botkyrka", RelevanceScore: 10},
			{Title: "Fjärde träffen", Link: "https://www.botkyrka.se/fjarde", RelevanceScore: 5},
		},
		Links: []models.SearchResult{
			{Title: "Hammerstaskolan", Link: "https://www.botkyrka.se/hammerstaskolan", RelevanceScore: 17},
		},
		Page: &models.ScrapedPage{
			URL:     "https://www.botkyrka.se/hammerstaskolan",
			Title:   "Hammerstaskolan",
			Content: "**Hammerstaskolan**\nEn grundskola i Hallunda.",
			Contacts: []models.Contact{
				{Role: "Rektor", Name: "Anna Andersson", Email: "anna.andersson@botkyrka.se", Phone: "08-530 610 00"},
				{Role: "Biträdande rektor åk F-3", Name: "Bertil Berg"},
			},
			Success: true,
		},
	}
}

func TestPromptOrdering(t *testing.T) {
	prompt := Prompt(schoolContext())

	sections := []string{
		"You are Botkyrka Assist",
		"INTENT ANALYSIS:",
		"**COMPLETE PAGE CONTENT FROM BOTKYRKA WEBSITE**",
		"**FULL SCRAPED CONTENT FROM: https://www.botkyrka.se/hammerstaskolan**",
		"**OFFICIAL CONTACT INFORMATION (from Kontakt section):**",
		"**SEARCH RESULTS FOR REFERENCE:**",
		"Additional context and relevant pages:",
		"User's original language: Swedish (sv)",
		"Previous conversation:",
		"User: Hej\n",
		"Assistant: Hej! Hur kan jag hjälpa dig idag?",
		"\nCurrent User: Vem är rektor på Hammerstaskolan?",
	}

	last := -1
	for _, s := range sections {
		idx := strings.Index(prompt, s)
		require.NotEqual(t, -1, idx, "missing section %q", s)
		assert.Greater(t, idx, last, "section %q out of order", s)
		last = idx
	}
	assert.True(t, strings.HasSuffix(prompt, "Current User: Vem är rektor på Hammerstaskolan?"))
}

func TestPromptGroundingContent(t *testing.T) {
	prompt := Prompt(schoolContext())

	assert.Contains(t, prompt, "• Rektor: Anna Andersson (anna.andersson@botkyrka.se) - 08-530 610 00\n")
	assert.Contains(t, prompt, "• Biträdande rektor åk F-3: Bertil Berg\n")
	assert.Contains(t, prompt, "1. Hammerstaskolan\n   Grundskola i Hallunda\n   Link: https://www.botkyrka.se/hammerstaskolan\n   Relevance: 35/20")
	assert.Contains(t, prompt, "3. Grundskolor i Botkyrka")
	assert.NotContains(t, prompt, "Fjärde träffen", "only the top three results are shown")
	assert.Contains(t, prompt, "- Hammerstaskolan (Score: 17): https://www.botkyrka.se/hammerstaskolan\n")
	assert.Contains(t, prompt, "DO NOT use outside knowledge")
	assert.Contains(t, prompt, "DO NOT USE: ---, ###, multiple **, mixed symbols")
}

func TestPromptWithoutScrapedPage(t *testing.T) {
	c := schoolContext()
	c.Page = nil
	c.History = nil

	prompt := Prompt(c)

	assert.Contains(t, prompt, "No page content could be scraped.")
	assert.NotContains(t, prompt, "OFFICIAL CONTACT INFORMATION")
	assert.NotContains(t, prompt, "Previous conversation:")
}

func TestPromptNoResults(t *testing.T) {
	c := Context{
		Message:     "Var kan jag köpa en elefant?",
		Intent:      intent.Classify("Var kan jag köpa en elefant?"),
		Language:    models.LanguageDetection{Code: "sv"},
		SearchQuery: "elefant",
		NoResults:   true,
	}

	prompt := Prompt(c)

	assert.Contains(t, prompt, `found nothing for "elefant"`)
	assert.NotContains(t, prompt, "SEARCH RESULTS FOR REFERENCE")
	assert.Contains(t, prompt, "User's original language: Swedish (sv)")
}

func TestPromptGreeting(t *testing.T) {
	c := Context{Message: "Hello", Intent: intent.Classify("Hello"), Language: models.LanguageDetection{Language: "English", Code: "en"}, Greeting: true}

	prompt := Prompt(c)

	assert.Contains(t, prompt, "The user only greeted you.")
	assert.Contains(t, prompt, "User's original language: English (en)")
}

func TestPromptShortensLongLinkTitles(t *testing.T) {
	c := schoolContext()
	c.Links = []models.SearchResult{{Title: strings.Repeat("å", 80), Link: "https://www.botkyrka.se/x", RelevanceScore: 9}}

	prompt := Prompt(c)

	assert.Contains(t, prompt, "- "+strings.Repeat("å", 57)+"... (Score: 9)")
}

func TestSynthesize(t *testing.T) {
	gen := &stubGenerator{out: "  **Rektor:** Anna Andersson\n"}
	s := New(gen, zaptest.NewLogger(t), time.Second)

	got, err := s.Synthesize(context.Background(), schoolContext())

	require.NoError(t, err)
	assert.Equal(t, "**Rektor:** Anna Andersson", got)
	assert.Contains(t, gen.prompt, "Current User: Vem är rektor på Hammerstaskolan?")
}

func TestSynthesizeFailures(t *testing.T) {
	tests := []struct {
		name    string
		gen     llm.Generator
		timeout time.Duration
		wantErr error
	}{
		{"unavailable", &stubGenerator{err: llm.ErrUnavailable}, time.Second, llm.ErrUnavailable},
		{"empty", &stubGenerator{out: " \n "}, time.Second, llm.ErrEmptyResponse},
		{"disabled", llm.Disabled{}, time.Second, llm.ErrUnavailable},
		{"timeout", &stubGenerator{out: "late", delay: time.Second}, 20 * time.Millisecond, context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.gen, zaptest.NewLogger(t), tt.timeout)

			got, err := s.Synthesize(context.Background(), schoolContext())

			assert.Empty(t, got)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestFallback(t *testing.T) {
	assert.Equal(t, language.Apology("en"), Fallback(Context{Language: models.LanguageDetection{Code: "en"}}))
	assert.Equal(t, language.Greeting("ar"), Fallback(Context{Language: models.LanguageDetection{Code: "ar"}, Greeting: true}))
	assert.Equal(t, language.NoResults("sv"), Fallback(Context{Language: models.LanguageDetection{Code: "sv"}, NoResults: true}))
	assert.Equal(t, language.Apology("sv"), Fallback(Context{}))
}
