// Package intent maps free text to a municipal service category and query type
// using static keyword tables. Classification is pure and never fails.
package intent

import (
	"fmt"
	"strings"

	"github.com/botkyrka/assist/models"
)

// maxHints caps the response hints attached to an intent
const maxHints = 4

// highConfidence is the score above which the prompt asks the model to focus on the category
const highConfidence = 3

// Classify returns the best matching category, its score and the query type.
// The worst case is category "general" with confidence 0.
func Classify(text string) models.Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))
	queryType := DetermineQueryType(text)
	words := Words(normalized)

	best := models.Intent{
		Category: models.CategoryGeneral,
		Keywords: []string{},
	}

	for _, c := range categories {
		score, matched := scoreCategory(c, normalized, words, queryType)
		// Strictly greater: on a tie the earlier category keeps the win.
		if score > best.Confidence {
			best.Category = c.Name
			best.Confidence = score
			best.Keywords = matched
		}
	}

	best.QueryType = queryType
	best.SuggestedLinks = SuggestedLinks(best.Category, queryType)
	best.Hints = ResponseHints(best.Category, queryType)
	return best
}

func scoreCategory(c category, normalized string, words []string, queryType models.QueryType) (float64, []string) {
	var score float64
	matched := []string{}

	for _, kw := range c.Keywords {
		if !strings.Contains(normalized, kw) {
			continue
		}
		score += 2
		matched = append(matched, kw)
		if containsWord(words, kw) {
			score++
		}
	}

	switch queryType {
	case models.QueryUrgent:
		for _, kw := range c.Urgent {
			if strings.Contains(normalized, kw) {
				score += 3
				matched = append(matched, kw)
			}
		}
	case models.QueryProcedural:
		for _, kw := range c.Procedural {
			if strings.Contains(normalized, kw) {
				score += 1.5
				matched = append(matched, kw)
			}
		}
	}

	return score, matched
}

// Words splits text on whitespace and trims surrounding punctuation from each word
func Words(text string) []string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if w := strings.Trim(f, punctuation); w != "" {
			words = append(words, w)
		}
	}
	return words
}

const punctuation = `?!.,;:"'()[]«»¿¡؟،`

// containsWord reports whether kw equals one of the whitespace-separated words
func containsWord(words []string, kw string) bool {
	for _, w := range words {
		if w == kw {
			return true
		}
	}
	return false
}

// DetermineQueryType classifies the communicative goal of the text.
// Checks run in priority order: urgent, procedural, contact, then length.
func DetermineQueryType(text string) models.QueryType {
	normalized := strings.ToLower(text)

	if containsAny(normalized, urgentMarkers) {
		return models.QueryUrgent
	}
	if containsAny(normalized, proceduralMarkers) {
		return models.QueryProcedural
	}
	if containsAny(normalized, contactMarkers) {
		return models.QueryContact
	}
	if len(strings.Fields(text)) <= 2 {
		return models.QueryGeneral
	}
	return models.QuerySpecific
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Categories returns the category names in canonical order
func Categories() []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

// IsCategory reports whether name is a known category or "general"
func IsCategory(name string) bool {
	if name == models.CategoryGeneral {
		return true
	}
	for _, c := range categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// InfoURL returns the information page of a category, or "" for general
func InfoURL(categoryName string) string {
	return infoURLs[categoryName]
}

// SearchTerms returns the Swedish search terms for a category, primary term first
func SearchTerms(categoryName string) []string {
	return searchTerms[categoryName]
}

func displayName(categoryName string) string {
	return strings.Replace(categoryName, "-", " och ", 1)
}

func eServiceURL(q string) string {
	return eServiceBase + "?query=*%3A*&q=" + q + "#eservice"
}

// SuggestedLinks builds the static links for a category, ordered by priority.
// Procedural queries put the e-service first, contact and urgent queries the service group.
func SuggestedLinks(categoryName string, queryType models.QueryType) []models.SuggestedLink {
	if categoryName == models.CategoryGeneral || !IsCategory(categoryName) {
		return []models.SuggestedLink{{
			URL:         eServiceBase,
			DisplayName: "E-tjänster och blanketter",
			Type:        models.LinkEService,
			Priority:    1,
		}}
	}

	name := displayName(categoryName)
	var eservice, service, info *models.SuggestedLink
	if q, ok := eServiceQueries[categoryName]; ok {
		eservice = &models.SuggestedLink{URL: eServiceURL(q), DisplayName: "E-tjänster: " + name, Type: models.LinkEService}
	}
	if g, ok := serviceGroups[categoryName]; ok {
		service = &models.SuggestedLink{URL: fmt.Sprintf(serviceGroupFn, g.ID), DisplayName: "Servicegrupp: " + g.Name, Type: models.LinkService}
	}
	if u, ok := infoURLs[categoryName]; ok {
		info = &models.SuggestedLink{URL: u, DisplayName: "Information: " + name, Type: models.LinkInfo}
	}

	var order []*models.SuggestedLink
	switch queryType {
	case models.QueryProcedural:
		order = []*models.SuggestedLink{eservice, info}
	case models.QueryContact, models.QueryUrgent:
		order = []*models.SuggestedLink{service, eservice}
	default:
		order = []*models.SuggestedLink{info, eservice, service}
	}

	links := make([]models.SuggestedLink, 0, len(order))
	for _, l := range order {
		if l == nil {
			continue
		}
		l.Priority = len(links) + 1
		links = append(links, *l)
	}
	return links
}

// ResponseHints returns up to four topic hints, query-type hints first
func ResponseHints(categoryName string, queryType models.QueryType) []string {
	var hints []string
	switch queryType {
	case models.QueryUrgent:
		hints = append(hints, "Akut hjälp", "Kontakt direkt")
	case models.QueryProcedural:
		hints = append(hints, "Steg-för-steg guide", "Ansökningsprocess")
	case models.QueryContact:
		hints = append(hints, "Kontaktinformation", "Personlig service")
	}

	categoryHints := defaultHints
	for _, c := range categories {
		if c.Name == categoryName && len(c.Hints) > 0 {
			categoryHints = c.Hints
			break
		}
	}
	hints = append(hints, categoryHints...)

	if len(hints) > maxHints {
		hints = hints[:maxHints]
	}
	return hints
}

// PromptHints renders the intent analysis block given to the answer model
func PromptHints(in models.Intent) string {
	var b strings.Builder
	b.WriteString("INTENT ANALYSIS:\n")
	fmt.Fprintf(&b, "- Category: %s\n", in.Category)
	fmt.Fprintf(&b, "- Confidence: %g\n", in.Confidence)
	fmt.Fprintf(&b, "- Query Type: %s\n", in.QueryType)
	fmt.Fprintf(&b, "- Matched Keywords: %s\n", strings.Join(in.Keywords, ", "))
	fmt.Fprintf(&b, "- Response Hints: %s\n", strings.Join(in.Hints, ", "))

	switch in.QueryType {
	case models.QueryUrgent:
		b.WriteString("\nURGENT QUERY DETECTED: Prioritize immediate help and contact information. Provide emergency contacts if relevant.\n")
	case models.QueryProcedural:
		b.WriteString("\nPROCEDURAL QUERY DETECTED: Focus on step-by-step instructions and application processes.\n")
	case models.QueryContact:
		b.WriteString("\nCONTACT QUERY DETECTED: Emphasize service groups and direct communication channels.\n")
	}

	if in.Confidence > highConfidence {
		fmt.Fprintf(&b, "\nHIGH CONFIDENCE MATCH: Focus specifically on %s services.\n", in.Category)
	}

	urls := make([]string, 0, len(in.SuggestedLinks))
	for _, l := range in.SuggestedLinks {
		urls = append(urls, l.URL)
	}
	fmt.Fprintf(&b, "\nPRIORITIZED LINKS TO INCLUDE: %s\n", strings.Join(urls, ", "))
	return b.String()
}
