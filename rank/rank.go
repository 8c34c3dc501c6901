// Package rank scores search hits against the user's query. Results orders the
// primary search listing; Links scores the same hits as candidate sub-pages
// and drops weak ones. Both are pure and deterministic for identical input.
package rank

import (
	"net/url"
	"sort"
	"strings"

	"github.com/botkyrka/assist/models"
	"github.com/botkyrka/assist/slug"
)

const (
	// MaxResults caps the ranked search listing
	MaxResults = 8
	// MaxLinks caps the discovered sub-pages
	MaxLinks = 5
	// ScrapeThreshold is the discovered-link score at which the page is worth scraping
	ScrapeThreshold = 8

	// minLinkScore is exclusive: a link must score above it to be kept
	minLinkScore = 3
)

// Weights for Results. The phrase bonus beats any combination of two single-word hits.
const (
	phraseBonus      = 25
	titleWordBonus   = 10
	descWordBonus    = 5
	servicePathBonus = 15
	listingBonus     = 10
	complaintPenalty = 3
	genericPenalty   = 2
)

var servicePaths = []string{"/sjalvservice-och-blanketter", "/skola-och-forskola", "/bo-och-leva"}

var listingWords = []string{"vilka", "which", "lista", "list", "alla"}

var listingHints = []string{"-i-botkyrka", " i botkyrka", "lista", "hitta", "alla", "oversikt-over"}

var complaintWords = []string{"synpunkt", "klagomal", "complaint", "feedback", "felanmalan", "lamna-synpunkter"}

// genericTitles are whole folded words that make a title sound like a hub page
var genericTitles = map[string]bool{
	"kontakt": true, "kontakta": true, "hem": true, "start": true, "startsida": true, "oversikt": true,
}

// listingSlugs are the directory pages of categories that have one
var listingSlugs = map[string]string{
	"Förskola":   "forskolor-i-botkyrka",
	"Grundskola": "grundskolor-i-botkyrka",
}

// Options carries the intent context a ranking can use
type Options struct {
	Category  string
	QueryType models.QueryType
	// UserQuery is the user's own message; listing detection looks at it as
	// well as the search query.
	UserQuery string
}

// IsListing reports whether the text asks for an enumeration ("vilka", "which", "lista")
func IsListing(text string) bool {
	for _, w := range queryWords(text, 0) {
		for _, lw := range listingWords {
			if w == lw {
				return true
			}
		}
	}
	return false
}

// Results scores each hit against the query and returns them best first,
// capped at MaxResults. Zero-score hits are kept.
func Results(results []models.SearchResult, query string, opts Options) []models.SearchResult {
	words := queryWords(query, 2)
	phrase := strings.ToLower(strings.TrimSpace(query))
	listing := IsListing(query) || IsListing(opts.UserQuery)

	scored := make([]models.SearchResult, len(results))
	for i, r := range results {
		title := strings.ToLower(r.Title)
		desc := strings.ToLower(r.Description)
		path := linkPath(r.Link)
		score := 0

		if phrase != "" && strings.Contains(title, phrase) {
			score += phraseBonus
		}
		for _, w := range words {
			if strings.Contains(title, w) {
				score += titleWordBonus
			}
			if strings.Contains(desc, w) {
				score += descWordBonus
			}
		}
		for _, p := range servicePaths {
			if strings.Contains(path, p) {
				score += servicePathBonus
				break
			}
		}

		folded := slug.Fold(r.Title) + " " + path
		if listing {
			if containsAny(folded, listingHints) || hasListingSlug(path, opts.Category) {
				score += listingBonus
			}
			if containsAny(folded, complaintWords) {
				score -= complaintPenalty
			}
		}
		if isGenericTitle(r.Title) {
			score -= genericPenalty
		}

		r.RelevanceScore = max(score, 0)
		scored[i] = r
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})
	if len(scored) > MaxResults {
		scored = scored[:MaxResults]
	}
	return scored
}

// Weights for Links
const (
	linkBase            = 5
	linkListingSlug     = 15
	linkInMunicipality  = 10
	linkListingText     = 8
	linkSearchWordText  = 3
	linkSearchWordHref  = 2
	linkUserWordLong    = 4
	linkUserWordShort   = 3
	linkActionWord      = 3
	linkContactPenalty  = 2
	linkOverviewPenalty = 1
	linkLongTextPenalty = 2
	longTextRunes       = 100
)

var actionWords = []string{"ansök", "ansok", "apply", "hitta", "find", "alla", "list", "directory"}

// Links scores search hits as candidate sub-pages for the user's question.
// Every hit starts at a base score; only those scoring above the threshold are
// kept, best first, capped at MaxLinks.
func Links(results []models.SearchResult, searchQuery, userQuery, category string) []models.SearchResult {
	user := strings.ToLower(userQuery)
	searchWords := queryWords(searchQuery, 2)
	userWords := queryWords(userQuery, 2)
	listing := IsListing(userQuery)
	listingSlug := listingSlugs[category]

	var kept []models.SearchResult
	for _, r := range results {
		text := strings.ToLower(r.Title)
		foldedText := slug.Fold(r.Title)
		href := strings.ToLower(linkPath(r.Link))
		score := linkBase

		if listing {
			if listingSlug != "" && (strings.Contains(href, listingSlug) ||
				strings.Contains(foldedText, strings.ReplaceAll(listingSlug, "-", " "))) {
				score += linkListingSlug
			}
			if strings.Contains(href, "-i-botkyrka") || strings.Contains(text, " i botkyrka") {
				score += linkInMunicipality
			}
			if containsAny(text, []string{"lista", "hitta", "alla"}) {
				score += linkListingText
			}
		}

		for _, w := range searchWords {
			if strings.Contains(text, w) {
				score += linkSearchWordText
			}
			if strings.Contains(href, slug.Fold(w)) {
				score += linkSearchWordHref
			}
		}

		for _, w := range userWords {
			if strings.Contains(text, w) || strings.Contains(href, slug.Fold(w)) {
				if len([]rune(w)) > 4 {
					score += linkUserWordLong
				} else {
					score += linkUserWordShort
				}
			}
		}

		for _, a := range actionWords {
			if strings.Contains(text, a) || strings.Contains(href, a) {
				score += linkActionWord
			}
		}

		if strings.Contains(text, "kontakt") && !strings.Contains(user, "kontakt") {
			score -= linkContactPenalty
		}
		if strings.Contains(text, "allmän information") || strings.Contains(text, "översikt") {
			score -= linkOverviewPenalty
		}
		if len([]rune(text)) > longTextRunes && !containsAny(text, searchWords) {
			score -= linkLongTextPenalty
		}

		if score > minLinkScore {
			r.RelevanceScore = score
			kept = append(kept, r)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].RelevanceScore > kept[j].RelevanceScore
	})
	if len(kept) > MaxLinks {
		kept = kept[:MaxLinks]
	}
	return kept
}

// queryWords lowercases text and returns its words longer than minRunes,
// with surrounding punctuation trimmed
func queryWords(text string, minRunes int) []string {
	var words []string
	for _, f := range strings.Fields(strings.ToLower(text)) {
		w := strings.Trim(f, `?!.,;:"'()`)
		if len([]rune(w)) > minRunes {
			words = append(words, w)
		}
	}
	return words
}

// linkPath returns the lowercased path of link, or the whole link when it does not parse
func linkPath(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return strings.ToLower(link)
	}
	return strings.ToLower(u.Path)
}

func hasListingSlug(path, category string) bool {
	s, ok := listingSlugs[category]
	return ok && strings.Contains(path, s)
}

func isGenericTitle(title string) bool {
	for _, w := range strings.Fields(slug.Fold(title)) {
		if genericTitles[strings.Trim(w, `?!.,;:"'()`)] {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
