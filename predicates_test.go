package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/botkyrka/assist/intent"
	"github.com/botkyrka/assist/models"
	"github.com/botkyrka/assist/rank"
)

func TestIsGreeting(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Hej", true},
		{"hej!", true},
		{"  Hello ", true},
		{"God morgon!", true},
		{"Merhaba", true},
		{"مرحبا", true},
		{"Hej, vad kostar förskola?", false},
		{"Tack", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsGreeting(tt.text), tt.text)
	}
}

func TestShouldScrape(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		category string
		want     bool
	}{
		{"question word", "Vem är rektor på Hammerstaskolan?", "Grundskola", true},
		{"english question word", "When does the library open?", "Sport-och-kultur", true},
		{"inflected detail word", "Vilka avgifter gäller?", "Förskola", true},
		{"application", "Ansöka om bygglov", "Bygglov", true},
		{"bare greeting", "Hej", models.CategoryGeneral, false},
		{"thanks", "Tack!", models.CategoryGeneral, false},
		{"bare category name", "Bygglov", "Bygglov", false},
		{"no detail words", "Parkeringstillstånd Tumba", "Trafik-och-parkering", false},
		{"short detail word needs whole word", "Tidning", models.CategoryGeneral, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldScrape(tt.text, tt.category))
		})
	}
}

func TestScrapeTarget(t *testing.T) {
	strongLink := models.SearchResult{Title: "Grundskolor i Botkyrka", Link: "https://www.botkyrka.se/grundskolor-i-botkyrka", RelevanceScore: rank.ScrapeThreshold}
	weakLink := models.SearchResult{Title: "Skolval", Link: "https://www.botkyrka.se/skolval", RelevanceScore: rank.ScrapeThreshold - 1}
	strongHit := models.SearchResult{Title: "Skolval", Link: "https://www.botkyrka.se/skolval", RelevanceScore: minScrapeScore + 1}
	weakHit := models.SearchResult{Title: "Start", Link: "https://www.botkyrka.se/", RelevanceScore: minScrapeScore}

	tests := []struct {
		name   string
		text   string
		ranked []models.SearchResult
		links  []models.SearchResult
		want   string
	}{
		{"strong discovered link", "Hur söker jag skola?", []models.SearchResult{strongHit}, []models.SearchResult{strongLink}, strongLink.Link},
		{"weak link falls back to ranked hit", "Hur söker jag skola?", []models.SearchResult{strongHit}, []models.SearchResult{weakLink}, strongHit.Link},
		{"listing falls back to info page", "Vilka skolor finns?", []models.SearchResult{weakHit}, nil, intent.InfoURL("Grundskola")},
		{"nothing worth scraping", "Hur söker jag skola?", []models.SearchResult{weakHit}, []models.SearchResult{weakLink}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scrapeTarget(tt.text, "Grundskola", tt.ranked, tt.links))
		})
	}
}
