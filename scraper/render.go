package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	noiseSelector = cascadia.MustCompile("script, style, nav, header, footer, .cookie-banner, .navigation, .breadcrumb")
	mainSelector  = cascadia.MustCompile("main, .main-content, .page-content, #content, .sv-layout")
	bodySelector  = cascadia.MustCompile("body")

	spaceRuns = regexp.MustCompile(`[ \t\r\f\v]+`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// MainContent strips page chrome from doc and returns the main content
// container, or the body when the page has none. doc is modified.
func MainContent(doc *html.Node) *html.Node {
	for _, n := range cascadia.QueryAll(doc, noiseSelector) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}

	if main := cascadia.Query(doc, mainSelector); main != nil {
		return main
	}
	if body := cascadia.Query(doc, bodySelector); body != nil {
		return body
	}
	return doc
}

// Render converts n to plain text. Headings become **bold** lines, list items
// get a bullet, mailto and tel links become Email: and Telefon: lines, and
// other links an inline [Länk: url] reference resolved against base.
func Render(n *html.Node, base *url.URL) string {
	var b strings.Builder
	render(&b, n, base)
	return normalize(b.String())
}

func render(b *strings.Builder, n *html.Node, base *url.URL) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
		return
	case html.ElementNode:
	default:
		renderChildren(b, n, base)
		return
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		b.WriteString("\n\n**")
		b.WriteString(extractTextFromNode(n))
		b.WriteString("**\n")
		return
	case "p":
		b.WriteString("\n")
		renderChildren(b, n, base)
		b.WriteString("\n")
	case "br":
		b.WriteString("\n")
	case "strong", "b":
		b.WriteString("**")
		renderChildren(b, n, base)
		b.WriteString("**")
	case "em", "i":
		b.WriteString("*")
		renderChildren(b, n, base)
		b.WriteString("*")
	case "li":
		b.WriteString("\n• ")
		renderChildren(b, n, base)
	case "ul", "ol":
		b.WriteString("\n")
		renderChildren(b, n, base)
		b.WriteString("\n")
	case "a":
		renderLink(b, n, base)
	case "div":
		if strings.Contains(strings.ToLower(attr(n, "class")), "contact") {
			b.WriteString("\n\n**KONTAKT:**\n")
		} else {
			b.WriteString(" ")
		}
		renderChildren(b, n, base)
		b.WriteString(" ")
	default:
		b.WriteString(" ")
		renderChildren(b, n, base)
		b.WriteString(" ")
	}
}

func renderChildren(b *strings.Builder, n *html.Node, base *url.URL) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		render(b, c, base)
	}
}

func renderLink(b *strings.Builder, n *html.Node, base *url.URL) {
	href := strings.TrimSpace(attr(n, "href"))
	lower := strings.ToLower(href)

	switch {
	case strings.HasPrefix(lower, "mailto:"):
		b.WriteString("\nEmail: " + strings.TrimSpace(href[len("mailto:"):]) + " ")
		return
	case strings.HasPrefix(lower, "tel:"):
		b.WriteString("\nTelefon: " + strings.TrimSpace(href[len("tel:"):]) + " ")
		return
	case href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(lower, "javascript:"):
		renderChildren(b, n, base)
		return
	}

	if ref, err := url.Parse(href); err == nil && base != nil {
		href = base.ResolveReference(ref).String()
	}
	renderChildren(b, n, base)
	b.WriteString(" [Länk: " + href + "] ")
}

// normalize collapses runs of spaces, trims every line and keeps at most one
// blank line between blocks
func normalize(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
