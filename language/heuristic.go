package language

import (
	"strings"
	"unicode"

	"github.com/botkyrka/assist/models"
)

var markers = []struct {
	code  string
	words []string
}{
	{"sv", []string{"vem", "är", "vad", "var", "hur", "när", "vilka", "skola", "förskola", "kommun", "ansökan"}},
	{"en", []string{"who", "is", "what", "where", "how", "when", "which", "school", "preschool"}},
	{"tr", []string{"kim", "nedir", "nerede", "nasıl", "okul", "anaokulu", "çocuk"}},
}

// Heuristic detects the language from script and marker words. It never fails.
// Arabic script wins outright; otherwise the language with strictly the most
// marker words wins, and ties or no signal fall back to Swedish.
func Heuristic(text string) models.LanguageDetection {
	if hasArabicScript(text) {
		return detection("ar", 0.8)
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	bestCode, bestCount, tie := "", 0, false
	for _, m := range markers {
		n := countMarkers(words, m.words)
		switch {
		case n > bestCount:
			bestCode, bestCount, tie = m.code, n, false
		case n == bestCount && n > 0:
			tie = true
		}
	}

	if bestCount == 0 || tie {
		return detection(Default, 0.6)
	}
	return detection(bestCode, 0.7)
}

// countMarkers counts words equal to a marker; markers longer than three
// letters also match as a prefix so inflected forms like "skolan" count.
func countMarkers(words, markerWords []string) int {
	n := 0
	for _, w := range words {
		for _, m := range markerWords {
			if w == m || (len([]rune(m)) > 3 && strings.HasPrefix(w, m)) {
				n++
				break
			}
		}
	}
	return n
}

func hasArabicScript(text string) bool {
	for _, r := range text {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}

func detection(code string, confidence float64) models.LanguageDetection {
	l, _ := Lookup(code)
	return models.LanguageDetection{
		Language:   l.Name,
		Code:       code,
		Confidence: confidence,
		Source:     models.SourceHeuristic,
	}
}
