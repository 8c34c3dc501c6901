package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEveryLanguageHasItsOwnMessages(t *testing.T) {
	tables := map[string]map[string]string{
		"apology":               apologies,
		"greeting":              greetings,
		"no results":            noResults,
		"feedback thanks":       feedbackThanks,
		"fallback confirmation": fallbackConfirmations,
	}

	for name, table := range tables {
		for _, l := range Supported() {
			msg, ok := table[l.Code]
			if assert.True(t, ok, "%s has no %s entry", name, l.Code) {
				assert.NotEmpty(t, msg)
			}
			if l.Code != Default {
				assert.NotEqual(t, table[Default], msg, "%s for %s is the Swedish text", name, l.Code)
			}
		}
	}
}

func TestNoResultsInDetectedLanguage(t *testing.T) {
	assert.Contains(t, NoResults("ar"), "لم أتمكن")
	assert.Contains(t, NoResults("so"), "Ma heli karo")
	assert.Contains(t, NoResults("tr"), "bilgi bulamadım")
	assert.Contains(t, NoResults("fi"), "En löytänyt")
	assert.Contains(t, FeedbackThanks("so"), "Mahadsanid")
	assert.Contains(t, FallbackConfirmation("tr"), "2-3 iş günü")
}
