package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars = regexp.MustCompile("[^a-z0-9-]+")
	hyphenRuns   = regexp.MustCompile("-+")
)

// Generate creates a URL-friendly slug from a string, the same way the
// municipality site builds its page paths ("Förskola i Botkyrka" -> "forskola-i-botkyrka")
func Generate(s string) string {
	if s == "" {
		return ""
	}

	s = Fold(s)

	// Replace spaces and underscores with hyphens
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	s = nonSlugChars.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	// Limit length to 100 characters
	if len(s) > 100 {
		s = s[:100]
		s = strings.TrimRight(s, "-")
	}

	return s
}

// GenerateWithFallback generates a slug, falling back to a default if the input produces an empty slug
func GenerateWithFallback(s, fallback string) string {
	slug := Generate(s)
	if slug == "" {
		return Generate(fallback)
	}
	return slug
}

// Fold lowercases s and strips diacritics, leaving spacing and punctuation alone.
// Non-Latin scripts pass through unchanged.
func Fold(s string) string {
	return transliterate(strings.ToLower(s))
}

// transliterate converts unicode characters to ASCII equivalents
func transliterate(s string) string {
	// Normalize unicode characters to NFD form (decomposed)
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// isMn checks if a rune is a nonspacing mark (accents, diacritics)
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// FromQuery names a stored search snapshot after its query
func FromQuery(query string) string {
	return GenerateWithFallback(query, "empty-query")
}
