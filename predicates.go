package assist

import (
	"strings"
	"unicode/utf8"

	"github.com/botkyrka/assist/intent"
)

// detailWords mark a question that needs page content rather than just links
var detailWords = []string{
	"hur", "vad", "när", "vilka", "vem", "var", "varför",
	"how", "what", "when", "which", "who", "where", "why",
	"ansök", "avgift", "kostnad", "tid", "krav", "process", "steg",
}

// noScrapeMessages never trigger a scrape on their own
var noScrapeMessages = map[string]bool{"hej": true, "hello": true, "tack": true, "thanks": true}

var greetingMessages = map[string]bool{
	"hej": true, "hejsan": true, "hallå": true, "tjena": true, "god morgon": true, "god dag": true,
	"hi": true, "hello": true, "hey": true, "good morning": true,
	"merhaba": true, "selam": true,
	"salaam": true, "ma nabad baa": true,
	"مرحبا": true, "السلام عليكم": true,
	"hei": true, "moi": true,
}

// IsGreeting reports whether the message is nothing but a greeting
func IsGreeting(text string) bool {
	return greetingMessages[normalizeMessage(text)]
}

// shouldScrape reports whether a question asks for details worth a page fetch
func shouldScrape(text, category string) bool {
	msg := normalizeMessage(text)
	if noScrapeMessages[msg] || msg == strings.ToLower(category) {
		return false
	}

	for _, w := range intent.Words(msg) {
		for _, d := range detailWords {
			// longer detail words also match inflections: ansöka, avgifter
			if w == d || (utf8.RuneCountInString(d) > 4 && strings.HasPrefix(w, d)) {
				return true
			}
		}
	}
	return false
}

func normalizeMessage(text string) string {
	text = strings.ToLower(text)
	text = strings.TrimFunc(text, func(r rune) bool {
		return strings.ContainsRune(" \t\n!?.,;:؟،¡¿", r)
	})
	return strings.Join(strings.Fields(text), " ")
}
