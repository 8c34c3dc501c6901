package search

import (
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/botkyrka/assist/models"
)

// Strategy extracts results from one known shape of result markup
type Strategy struct {
	Name        string
	Item        cascadia.Matcher // one result
	Title       cascadia.Matcher // first match inside an item is the title link
	Description cascadia.Matcher // first match inside an item is the description
	// RelativeOnly keeps only site-relative links, for selectors broad enough
	// to catch unrelated anchors.
	RelativeOnly bool
}

// Strategies are tried in order; the first that yields results wins.
var Strategies = []Strategy{
	{
		Name:        "primary",
		Item:        cascadia.MustCompile("ol.sv-search-result > li.sv-search-hit"),
		Title:       cascadia.MustCompile("h2 a"),
		Description: cascadia.MustCompile("p.normal"),
	},
	{
		Name:        "broad",
		Item:        cascadia.MustCompile("li.sv-search-hit"),
		Title:       cascadia.MustCompile("h2 a, h3 a, .title a, a[href]"),
		Description: cascadia.MustCompile("p, .description, .excerpt"),
	},
	{
		Name:         "generic",
		Item:         cascadia.MustCompile(".search-result, .search-hit, .result-item"),
		Title:        cascadia.MustCompile("a[href]"),
		Description:  cascadia.MustCompile("p, .snippet, .summary"),
		RelativeOnly: true,
	},
}

// Parse runs the strategies in order and returns the results of the first
// one that finds any, with its name. Links are resolved against base.
func Parse(doc *html.Node, base *url.URL) ([]models.SearchResult, string, error) {
	for _, s := range Strategies {
		if results := s.Extract(doc, base); len(results) > 0 {
			return results, s.Name, nil
		}
	}
	return nil, "", ErrNoResults
}

// Extract applies one strategy. Items without a title or link are skipped.
func (s Strategy) Extract(doc *html.Node, base *url.URL) []models.SearchResult {
	var results []models.SearchResult
	for _, item := range cascadia.QueryAll(doc, s.Item) {
		a := cascadia.Query(item, s.Title)
		if a == nil {
			continue
		}

		title := extractTextFromNode(a)
		href := strings.TrimSpace(attr(a, "href"))
		if title == "" || href == "" {
			continue
		}
		if s.RelativeOnly && (!strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//")) {
			continue
		}

		link, err := resolveURL(base, href)
		if err != nil {
			continue
		}

		var description string
		if p := cascadia.Query(item, s.Description); p != nil {
			description = extractTextFromNode(p)
		}

		results = append(results, models.SearchResult{
			Title:       title,
			Description: description,
			Link:        link,
		})
	}
	return results
}

// extractTextFromNode extracts all text content from a single node and its children
func extractTextFromNode(n *html.Node) string {
	var parts []string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(parts, " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// resolveURL resolves a potentially relative URL against a base URL
func resolveURL(base *url.URL, href string) (string, error) {
	parsed, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(parsed).String(), nil
}
