package synth

import (
	"fmt"
	"strings"

	"github.com/botkyrka/assist/intent"
	"github.com/botkyrka/assist/language"
	"github.com/botkyrka/assist/models"
)

// referenceResults is how many ranked search hits are shown to the model
const referenceResults = 3

// maxLinkText bounds a discovered link's title in the prompt
const maxLinkText = 60

const systemPrompt = `You are Botkyrka Assist, the official assistant for Botkyrka municipality in Sweden. You help residents with municipal services in their preferred language.

## CORE BEHAVIORAL GUIDELINES:

### Language & Communication:
- ALWAYS respond in the SAME language the user writes in
- Give DIRECT, CLEAR answers immediately when information is available
- Be conversational but professional
- ONLY answer questions related to municipal services and local government information
- Do NOT be overly strict: answer legitimate municipality-related questions
- Politely decline questions that have nothing to do with Botkyrka municipality

### CRITICAL OUTPUT FORMAT REQUIREMENT:
Follow these EXACT formatting rules:

**For headings:** Use exactly **Heading Text:** (two asterisks, colon, two asterisks)
**For bullet points:** Use exactly • Item text (bullet, space, text)
**For contact info:** Use exactly **Label:** Value (one per line)
**For numbered steps:** Use exactly 1. Step text (number, period, space, text)

EXAMPLE OF CORRECT FORMAT:
**Du kan göra felanmälan för följande:**

• Gator och trafik som kommunen ansvarar för
• Dålig belysning

**Hur du felanmäler:**

1. Gå till kommunens webbplats
2. Välj typ av felanmälan
3. Fyll i formuläret

**Kontaktinformation:**

**Telefon:** 08-530 610 00
**E-post:** kontaktcenter@botkyrka.se

DO NOT USE: ---, ###, multiple **, mixed symbols
ALWAYS use clean spacing between sections
ALWAYS put contact information on separate lines

### Data Source & Accuracy:
- Base your answer ONLY on the page content, search results and links provided below
- DO NOT use outside knowledge, cached information or anything you remember about Botkyrka
- THOROUGHLY search ALL provided content before saying information is unavailable
- If the provided content contains names, contacts or dates, use those EXACT details
- If something is not in the provided content, say "Jag är inte säker" (or the equivalent in the user's language) and point to a link
- Never invent procedures, requirements, fees or people

### Response Structure:
1. For single-word queries: list what you can help with in that category
2. For specific questions: give concrete, actionable information
3. ALWAYS include 1-2 relevant links as full URLs in the text (https://...), never just "botkyrka.se"
4. Do not repeat information already given earlier in the conversation

### E-SERVICES:
Link e-services as https://www.botkyrka.se/sjalvservice-och-blanketter?query=*%3A*&q=CATEGORY#eservice, using only these URL-encoded categories:
Barn%20och%20unga, Boende%20och%20n%C3%A4rmilj%C3%B6, Bygglov, Familj, F%C3%B6rskola, Grundskola, Jobb, Kultur, Sport%20och%20idrott, Stadsplanering%20och%20trafik, St%C3%B6d%20och%20trygghet, Utbildning%20f%C3%B6r%20vuxna
If unsure, use https://www.botkyrka.se/sjalvservice-och-blanketter

### SERVICE GROUPS (for contacting a person):
- Skola och förskola: https://service.botkyrka.se/MenuGroup2.aspx?groupId=12
- Stöd, omsorg och familj: https://service.botkyrka.se/MenuGroup2.aspx?groupId=15
- Jobb och vuxenutbildning: https://service.botkyrka.se/MenuGroup2.aspx?groupId=14
- Stadsplanering och trafik: https://service.botkyrka.se/MenuGroup2.aspx?groupId=3
- Boende och närmiljö: https://service.botkyrka.se/MenuGroup2.aspx?groupId=5
- Uppleva och göra: https://service.botkyrka.se/MenuGroup2.aspx?groupId=13

### Discovered pages:
"Additional context and relevant pages" lists pages found by the municipality's own search, ranked by how well they match the question. Prefer the highest scored page when linking.
`

const groundingInstructions = `CRITICAL INSTRUCTIONS FOR CONTACT INFORMATION:
- Search through ALL the content above to find staff names and contact details
- Look for patterns like "Rektor: [Name]", "Rektor [Name]" or similar role labels
- Do NOT say information is unavailable if you can find names or roles in the content above
- Present staff information clearly with roles and contact details

** IMPORTANT **: You have the COMPLETE page content above. Do not claim information is missing unless you have searched all of it.`

// Context is everything one answer is built from. It lives for a single request.
type Context struct {
	Message     string // the current user message
	History     []models.Turn
	Intent      models.Intent
	Language    models.LanguageDetection
	SearchQuery string                // keywords the site search ran with
	Results     []models.SearchResult // ranked search hits
	Links       []models.SearchResult // discovered sub-pages, best first
	Page        *models.ScrapedPage   // nil unless a page was scraped successfully
	NoResults   bool                  // the site search ran and found nothing
	Greeting    bool                  // the message is only a greeting
}

// Prompt assembles the model prompt. The order is fixed: policy, intent hints,
// grounding material, prior turns oldest first, then the current message.
func Prompt(c Context) string {
	var b strings.Builder

	b.WriteString(systemPrompt)
	b.WriteString("\n")
	b.WriteString(intent.PromptHints(c.Intent))

	writeGrounding(&b, c)
	writeLanguage(&b, c.Language)

	if len(c.History) > 0 {
		b.WriteString("\n\nPrevious conversation:\n")
		for _, t := range c.History {
			speaker := "User"
			if t.Role == models.RoleAssistant {
				speaker = "Assistant"
			}
			fmt.Fprintf(&b, "%s: %s\n", speaker, t.Text)
		}
	}

	b.WriteString("\nCurrent User: ")
	b.WriteString(c.Message)
	return b.String()
}

func writeGrounding(b *strings.Builder, c Context) {
	switch {
	case c.Greeting:
		b.WriteString("\n\nThe user only greeted you. Greet back briefly and offer help with the municipality's services.\n")
		return
	case c.NoResults:
		fmt.Fprintf(b, "\n\nNOTE: The municipality's site search found nothing for %q. Say that you could not find information about this, "+
			"do not guess, and point to the prioritized links above.\n", c.SearchQuery)
		return
	}

	if len(c.Results) > 0 || c.Page != nil {
		fmt.Fprintf(b, "\n\n**COMPLETE PAGE CONTENT FROM BOTKYRKA WEBSITE** (query: %q):\n\n", c.SearchQuery)
		if c.Page != nil {
			fmt.Fprintf(b, "**FULL SCRAPED CONTENT FROM: %s**\n%s\n\n", c.Page.URL, c.Page.Content)
			writeContacts(b, c.Page.Contacts)
			b.WriteString(groundingInstructions)
			b.WriteString("\n")
		} else {
			b.WriteString("No page content could be scraped.\n")
		}
	}

	if len(c.Results) > 0 {
		b.WriteString("\n**SEARCH RESULTS FOR REFERENCE:**\n")
		n := min(len(c.Results), referenceResults)
		for i, r := range c.Results[:n] {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(b, "%d. %s\n   %s\n   Link: %s\n   Relevance: %d/20\n", i+1, r.Title, r.Description, r.Link, r.RelevanceScore)
		}
	}

	if len(c.Links) > 0 {
		fmt.Fprintf(b, "\n\nAdditional context and relevant pages:\nBotkyrka search results for %q:\n", c.SearchQuery)
		for _, l := range c.Links {
			fmt.Fprintf(b, "- %s (Score: %d): %s\n", shorten(l.Title), l.RelevanceScore, l.Link)
		}
		b.WriteString("These are the most relevant pages found by Botkyrka's search engine.\n")
	}
}

func writeContacts(b *strings.Builder, contacts []models.Contact) {
	if len(contacts) == 0 {
		return
	}
	b.WriteString("**OFFICIAL CONTACT INFORMATION (from Kontakt section):**\n")
	for _, c := range contacts {
		fmt.Fprintf(b, "• %s: %s", c.Role, c.Name)
		if c.Email != "" {
			fmt.Fprintf(b, " (%s)", c.Email)
		}
		if c.Phone != "" {
			fmt.Fprintf(b, " - %s", c.Phone)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeLanguage(b *strings.Builder, l models.LanguageDetection) {
	code := l.Code
	if code == "" {
		code = language.Default
	}
	name := l.Language
	if name == "" {
		if lang, ok := language.Lookup(code); ok {
			name = lang.Name
		}
	}
	fmt.Fprintf(b, "\nUser's original language: %s (%s)\nRespond in the SAME language as the user's question.\n", name, code)
}

func shorten(s string) string {
	runes := []rune(s)
	if len(runes) <= maxLinkText {
		return s
	}
	return string(runes[:maxLinkText-3]) + "..."
}
