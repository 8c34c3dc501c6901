// Package postprocess normalizes model output into the markup the chat UI
// renders: **Heading:** lines, • bullets, **Label:** Value contact lines and
// numbered steps.
package postprocess

import (
	"regexp"
	"strings"
)

type rule struct {
	re   *regexp.Regexp
	repl string
}

// rules run in order. Every rule's output is a fixed point of itself and of
// the rules before it, which keeps Clean idempotent.
var rules = []rule{
	// "--- ### Title" puts a heading on its own line
	{regexp.MustCompile(`\s*-{3,}[ \t]*(#{1,6})[ \t]*`), "\n\n$1 "},
	// remaining horizontal rules become paragraph breaks
	{regexp.MustCompile(`\s*-{3,}\s*`), "\n\n"},
	{regexp.MustCompile(`\*{3,}`), "**"},

	// "### **Title** body" splits into a bold heading and its body
	{regexp.MustCompile(`(?m)^[ \t]*(?:#{1,6}[ \t]+)+\*\*([^*\n]+?)\*\*[ \t]*([^\s*][^\n]*)$`), "**$1**\n\n$2"},
	// "### Title" and "### **Title**" become a bold heading line
	{regexp.MustCompile(`(?m)^[ \t]*(?:#{1,6}[ \t]+)+\**[ \t]*([^*\n]*[^*\s])[ \t]*\**[ \t]*$`), "**$1**"},
	// any hash marker left over is dropped
	{regexp.MustCompile(`(?m)^[ \t]*(?:#{1,6}[ \t]+)+`), ""},

	// "** Telefon : **" becomes "**Telefon:**"
	{regexp.MustCompile(`(?i)\*\*[ \t]*([^*\n]*?(?:telefon|phone|e-post|email|adress)[^*:\n]*?)[ \t]*:[ \t]*\*\*`), "**$1:**"},

	// every bullet glyph becomes •
	{regexp.MustCompile(`(?m)^[ \t]*[-*•·▪◦‣][ \t]+`), "• "},
	// a bullet that is entirely bold loses the bold
	{regexp.MustCompile(`(?m)^• \*\*([^*\n]+)\*\*[ \t]*$`), "• $1"},

	{regexp.MustCompile(`[ \t]+`), " "},
	{regexp.MustCompile(`(?m)^ | $`), ""},

	// a heading line is followed by exactly one blank line
	{regexp.MustCompile(`(?m)^(\*\*[^*\n]+\*\*)\n+`), "$1\n\n"},
	// at most two blank lines in a row
	{regexp.MustCompile(`\n{4,}`), "\n\n\n"},
}

// Clean normalizes raw model text for display. Clean(Clean(s)) == Clean(s).
func Clean(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	for _, r := range rules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return strings.TrimSpace(s)
}
