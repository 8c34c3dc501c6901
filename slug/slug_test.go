package slug

import (
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "basic ascii",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "with punctuation",
			input:    "Vilka grundskolor finns?",
			expected: "vilka-grundskolor-finns",
		},
		{
			name:     "swedish letters",
			input:    "Förskola i Botkyrka",
			expected: "forskola-i-botkyrka",
		},
		{
			name:     "with multiple spaces",
			input:    "Bygglov   och   tillstånd",
			expected: "bygglov-och-tillstand",
		},
		{
			name:     "with underscores",
			input:    "skola_och_forskola",
			expected: "skola-och-forskola",
		},
		{
			name:     "very long string",
			input:    "This is a very long title that should be truncated to one hundred characters maximum for SEO purposes and URL readability",
			expected: "this-is-a-very-long-title-that-should-be-truncated-to-one-hundred-characters-maximum-for-seo-purpose",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "arabic only",
			input:    "روضة",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Generate(tt.input)
			if result != tt.expected {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Förskoleansökan", "forskoleansokan"},
		{"Återvinning", "atervinning"},
		{"Grundskolor i Botkyrka", "grundskolor i botkyrka"},
		{"Türkçe", "turkce"},
		{"مدرسة", "مدرسة"},
	}

	for _, tt := range tests {
		if got := Fold(tt.input); got != tt.expected {
			t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFromQuery(t *testing.T) {
	if got := FromQuery("förskola ansökan"); got != "forskola-ansokan" {
		t.Errorf("FromQuery = %q, want %q", got, "forskola-ansokan")
	}
	if got := FromQuery("???"); got != "empty-query" {
		t.Errorf("FromQuery = %q, want %q", got, "empty-query")
	}
}
