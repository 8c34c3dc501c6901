package scraper

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/botkyrka/assist/models"
)

const contactHeadingID = "h-Kontakt"

// token is one piece of text in a contact section, in document order
type token struct {
	text   string
	strong bool
	link   bool
}

// ExtractContacts finds the page's "Kontakt" section and reads role and name
// pairs out of it. The principal gets the section's first email and phone.
// Pages without a contact section yield nil.
func ExtractContacts(doc *html.Node) []models.Contact {
	heading := findContactHeading(doc)
	if heading == nil {
		return nil
	}

	var tokens []token
	var email, phone string
	for n := heading.NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.Data == "h2" {
			break
		}
		collectTokens(n, false, false, &tokens, &email, &phone)
	}

	var contacts []models.Contact
	havePrincipal := false
	for i, t := range tokens {
		if !t.strong {
			continue
		}
		role := strings.TrimSpace(strings.TrimSuffix(t.text, ":"))
		lower := strings.ToLower(role)

		switch {
		case strings.HasPrefix(lower, "biträdande rektor"):
			if name := nextName(tokens[i+1:]); name != "" {
				contacts = append(contacts, models.Contact{Role: role, Name: name})
			}
		case strings.Contains(lower, "rektor") && !havePrincipal:
			if name := nextName(tokens[i+1:]); name != "" {
				contacts = append(contacts, models.Contact{Role: "Rektor", Name: name, Email: email, Phone: phone})
				havePrincipal = true
			}
		}
	}
	return contacts
}

func findContactHeading(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "h2" {
		if attr(n, "id") == contactHeadingID || strings.EqualFold(extractTextFromNode(n), "Kontakt") {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findContactHeading(c); found != nil {
			return found
		}
	}
	return nil
}

// collectTokens flattens n into text tokens. Consecutive text inside one
// strong element is joined. The first mailto and tel hrefs are recorded.
func collectTokens(n *html.Node, inStrong, inLink bool, tokens *[]token, email, phone *string) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			*tokens = append(*tokens, token{text: text, strong: inStrong, link: inLink})
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	switch n.Data {
	case "strong", "b":
		if !inStrong {
			*tokens = append(*tokens, token{text: extractTextFromNode(n), strong: true})
			return
		}
	case "a":
		href := strings.TrimSpace(attr(n, "href"))
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "mailto:") && *email == "" {
			*email = strings.TrimSpace(href[len("mailto:"):])
		}
		if strings.HasPrefix(lower, "tel:") && *phone == "" {
			*phone = strings.TrimSpace(href[len("tel:"):])
		}
		inLink = true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectTokens(c, inStrong, inLink, tokens, email, phone)
	}
}

// nextName returns the first plain text after a role label, or "" when the
// next label comes first
func nextName(rest []token) string {
	for _, t := range rest {
		if t.strong {
			return ""
		}
		if t.link {
			continue
		}
		if name := strings.TrimSpace(strings.TrimLeft(t.text, ":-– ")); name != "" {
			return name
		}
	}
	return ""
}
