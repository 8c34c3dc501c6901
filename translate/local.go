package translate

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/botkyrka/assist/chain"
	"github.com/botkyrka/assist/intent"
)

// DefaultKeyword is the search term used when nothing usable is left of a query
const DefaultKeyword = "grundskola"

type matchMode int

const (
	matchWord      matchMode = iota // whole word
	matchPrefix                     // word starts with the term, for inflecting languages
	matchSubstring                  // anywhere in the text, for scripts with attached particles
)

type substitution struct {
	from string
	to   string
	mode matchMode
}

// substitutions maps foreign (and plural Swedish) terms to Swedish search keywords.
// Order is the order keywords appear in the result.
var substitutions = []substitution{
	// English
	{"preschool", "förskola", matchWord},
	{"daycare", "förskola", matchWord},
	{"kindergarten", "förskola", matchWord},
	{"school", "skola", matchWord},
	{"schools", "skolor", matchWord},
	{"elementary", "grundskola", matchWord},
	{"building", "bygglov", matchWord},
	{"permit", "tillstånd", matchWord},
	{"construction", "bygglov", matchWord},
	{"housing", "boende", matchWord},
	{"recycling", "återvinning", matchWord},
	{"recycle", "återvinning", matchWord},
	{"waste", "avfall", matchWord},
	{"job", "jobb", matchWord},
	{"jobs", "jobb", matchWord},
	{"employment", "arbete", matchWord},
	{"parking", "parkering", matchWord},

	// Swedish
	{"skolor", "grundskolor", matchWord},
	{"skola", "grundskola", matchWord},
	{"förskolor", "förskola", matchWord},

	// Turkish
	{"anaokul", "förskola", matchPrefix},
	{"okul", "skola", matchPrefix},
	{"çocuk", "barn", matchPrefix},
	{"kayıt", "ansökan", matchPrefix},
	{"başvuru", "ansökan", matchPrefix},

	// Arabic
	{"روضة", "förskola", matchSubstring},
	{"مدرسة", "skola", matchSubstring},
	{"طفل", "barn", matchSubstring},
	{"تسجيل", "ansökan", matchSubstring},

	// Somali
	{"dugsiga", "förskola", matchPrefix},
	{"iskuul", "skola", matchPrefix},
	{"caruur", "barn", matchPrefix},
	{"qorista", "ansökan", matchPrefix},
}

// conceptRules add a keyword when any of the markers appears anywhere in the query
var conceptRules = []struct {
	markers []string
	keyword string
}{
	{[]string{"child", "kid", "barn"}, "barn"},
	{[]string{"register", "apply", "ansök"}, "ansökan"},
	{[]string{"contact", "kontakt"}, "kontakt"},
}

var stopwords = toSet(
	"vem", "är", "på", "vilka", "vad", "hur", "var", "när", "som", "finns", "i",
	"the", "is", "are", "in", "on", "at", "what", "who", "where", "when", "how",
)

// swedishStopwords extends stopwords for queries that are already Swedish
var swedishStopwords = toSet(
	"jag", "du", "vi", "ni", "mig", "min", "mitt", "mina", "det", "den", "de", "en", "ett",
	"och", "att", "om", "för", "med", "till", "av", "kan", "ska", "vill", "får", "har",
	"behöver", "någon", "något", "man", "finns", "botkyrka", "kommun", "kommunen", "tack",
	"prata", "veta", "fråga",
)

var (
	principalMarkers = []string{"rektor", "principal", "headmaster"}
	schoolPatterns   = []*regexp.Regexp{
		regexp.MustCompile(`(?i)[\p{L}\d]+skolan?`),
		regexp.MustCompile(`(?i)[\p{L}\d]+\s+international\s+school`),
		regexp.MustCompile(`(?i)[\p{L}\d]+\s+school`),
		regexp.MustCompile(`(?i)hammerstaskolan|karsby|alby|fittja`),
	}
)

// maxSwedishKeywords bounds the keyword string built from a Swedish query
const maxSwedishKeywords = 4

// errNoKeywords marks a local link that found nothing usable in the query
var errNoKeywords = errors.New("no keywords")

// Names of the local keyword links, in chain order
const (
	linkRole       = "role"
	linkDictionary = "dictionary"
	linkContent    = "content"
	linkSwedish    = "swedish"
	linkDefault    = "default"
)

// LocalKeywords reduces a query in any language to Swedish search keywords
// without calling a model. The result is never empty.
func LocalKeywords(query string) string {
	res, _ := chain.Run(context.Background(), localStrategies(query)...)
	return res.Value
}

// SwedishKeywords reduces a Swedish question to its content words. The result is never empty.
func SwedishKeywords(query string) string {
	res, _ := chain.Run(context.Background(), swedishStrategies(query)...)
	return res.Value
}

// localStrategies tries a staff question first ("who is the principal of X"
// becomes "rektor <school>"), then dictionary and concept matches, then the
// query's content words, then DefaultKeyword.
func localStrategies(query string) []chain.Strategy[string] {
	return []chain.Strategy[string]{
		keywordLink(linkRole, query, roleKeywords),
		keywordLink(linkDictionary, query, dictionaryKeywords),
		keywordLink(linkContent, query, contentKeywords),
		chain.Static(linkDefault, func() string { return DefaultKeyword }),
	}
}

// swedishStrategies keeps at most maxSwedishKeywords content words of an
// already Swedish query and falls back to the general local chain.
func swedishStrategies(query string) []chain.Strategy[string] {
	return []chain.Strategy[string]{
		keywordLink(linkRole, query, roleKeywords),
		keywordLink(linkSwedish, query, swedishContentKeywords),
		chain.Static(linkDefault, func() string { return LocalKeywords(query) }),
	}
}

func keywordLink(name, query string, fn func(string) (string, error)) chain.Strategy[string] {
	return chain.Strategy[string]{
		Name: name,
		Run: func(context.Context) (string, error) {
			return fn(query)
		},
	}
}

// roleKeywords turns a question about a school principal into "rektor <school>"
func roleKeywords(query string) (string, error) {
	lower := strings.ToLower(query)
	asked := false
	for _, m := range principalMarkers {
		if strings.Contains(lower, m) {
			asked = true
			break
		}
	}
	if !asked {
		return "", errNoKeywords
	}

	for _, p := range schoolPatterns {
		if m := p.FindString(query); m != "" {
			return "rektor " + strings.ToLower(m), nil
		}
	}
	return "rektor grundskola", nil
}

// dictionaryKeywords joins substitution and concept matches in table order
func dictionaryKeywords(query string) (string, error) {
	lower := strings.ToLower(query)
	words := intent.Words(lower)

	found := newKeywordSet()
	for _, s := range substitutions {
		if matches(s, lower, words) {
			found.add(s.to)
		}
	}
	for _, rule := range conceptRules {
		for _, m := range rule.markers {
			if strings.Contains(lower, m) {
				found.add(rule.keyword)
				break
			}
		}
	}
	if found.empty() {
		return "", errNoKeywords
	}
	return found.String(), nil
}

// contentKeywords keeps every word that is not a stopword
func contentKeywords(query string) (string, error) {
	content := contentWords(intent.Words(strings.ToLower(query)), stopwords, 0)
	if len(content) == 0 {
		return "", errNoKeywords
	}
	return strings.Join(content, " "), nil
}

func swedishContentKeywords(query string) (string, error) {
	content := contentWords(intent.Words(strings.ToLower(query)), stopwords, maxSwedishKeywords, swedishStopwords)
	if len(content) == 0 {
		return "", errNoKeywords
	}
	return strings.Join(content, " "), nil
}

func matches(s substitution, lower string, words []string) bool {
	switch s.mode {
	case matchSubstring:
		return strings.Contains(lower, s.from)
	case matchPrefix:
		for _, w := range words {
			if strings.HasPrefix(w, s.from) {
				return true
			}
		}
	default:
		for _, w := range words {
			if w == s.from {
				return true
			}
		}
	}
	return false
}

// contentWords drops stopwords and words of two letters or fewer. limit <= 0 keeps all.
func contentWords(words []string, stop map[string]bool, limit int, extra ...map[string]bool) []string {
	var out []string
	seen := map[string]bool{}
	for _, w := range words {
		if stop[w] || utf8.RuneCountInString(w) <= 2 || seen[w] {
			continue
		}
		skip := false
		for _, e := range extra {
			if e[w] {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

type keywordSet struct {
	order []string
	seen  map[string]bool
}

func newKeywordSet() *keywordSet {
	return &keywordSet{seen: map[string]bool{}}
}

func (k *keywordSet) add(w string) {
	if !k.seen[w] {
		k.seen[w] = true
		k.order = append(k.order, w)
	}
}

func (k *keywordSet) empty() bool { return len(k.order) == 0 }

func (k *keywordSet) String() string { return strings.Join(k.order, " ") }

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
