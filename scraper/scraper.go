// Package scraper fetches single pages from the municipality's site and renders
// them as plain text with a small markup vocabulary a language model can read.
// Only hosts on the allow-list are ever fetched.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/botkyrka/assist/metrics"
	"github.com/botkyrka/assist/models"
)

var (
	// ErrDomainNotAllowed is returned for URLs outside the allow-list. No request is made.
	ErrDomainNotAllowed = errors.New("domain not allowed")
	// ErrInvalidURL is returned for URLs that do not parse or are not http(s)
	ErrInvalidURL = errors.New("invalid URL")
)

const maxBodyBytes = 5 << 20

// Config contains scraper configuration
type Config struct {
	HTTPTimeout     time.Duration
	MaxContentChars int      // rendered text is cut to this many characters
	AllowedDomains  []string // a host matches a domain or any of its subdomains
	UserAgent       string
}

// DefaultConfig returns default scraper configuration
func DefaultConfig() Config {
	return Config{
		HTTPTimeout:     8 * time.Second,
		MaxContentChars: 8000,
		AllowedDomains:  []string{"botkyrka.se"},
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// Scraper handles page fetches
type Scraper struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a new Scraper instance
func New(config Config, logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultConfig()
	if config.MaxContentChars <= 0 {
		config.MaxContentChars = defaults.MaxContentChars
	}
	if len(config.AllowedDomains) == 0 {
		config.AllowedDomains = defaults.AllowedDomains
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}

	return &Scraper{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.HTTPTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// Allowed validates targetURL against the allow-list
func (s *Scraper) Allowed(targetURL string) (*url.URL, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: URL must be http or https", ErrInvalidURL)
	}

	host := strings.TrimSuffix(strings.ToLower(parsed.Hostname()), ".")
	for _, d := range s.config.AllowedDomains {
		d = strings.ToLower(d)
		if host == d || strings.HasSuffix(host, "."+d) {
			return parsed, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDomainNotAllowed, host)
}

// Scrape fetches and renders one page. It never returns an error: refusals and
// failures come back as Success=false with the reason in Error.
func (s *Scraper) Scrape(ctx context.Context, targetURL string) models.ScrapedPage {
	page := models.ScrapedPage{URL: targetURL}

	parsedURL, err := s.Allowed(targetURL)
	if err != nil {
		metrics.FetchesTotal.WithLabelValues("scrape", "rejected").Inc()
		s.logger.Info("refusing to scrape", zap.String("url", targetURL), zap.Error(err))
		page.Error = err.Error()
		return page
	}

	doc, err := s.fetch(ctx, targetURL)
	if err != nil {
		metrics.FetchesTotal.WithLabelValues("scrape", "error").Inc()
		s.logger.Warn("scrape failed", zap.String("url", targetURL), zap.Error(err))
		page.Error = err.Error()
		return page
	}
	metrics.FetchesTotal.WithLabelValues("scrape", "ok").Inc()

	page.Title = extractTitle(doc)
	if page.Title == "" {
		page.Title = targetURL
	}
	page.Contacts = ExtractContacts(doc)
	page.Content = truncate(Render(MainContent(doc), parsedURL), s.config.MaxContentChars)
	page.Success = true

	s.logger.Debug("scraped page",
		zap.String("url", targetURL),
		zap.Int("chars", len([]rune(page.Content))),
		zap.Int("contacts", len(page.Contacts)))
	return page
}

func (s *Scraper) fetch(ctx context.Context, targetURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}
	doc, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// extractTitle extracts the page title from the HTML
// Priority: og:title > h1 > title tag
func extractTitle(n *html.Node) string {
	var ogTitle, h1Title, htmlTitle string

	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				if strings.EqualFold(attr(n, "property"), "og:title") && ogTitle == "" {
					ogTitle = attr(n, "content")
				}
			case "h1":
				if h1Title == "" && n.FirstChild != nil {
					h1Title = extractTextFromNode(n)
				}
			case "title":
				if htmlTitle == "" && n.FirstChild != nil {
					htmlTitle = n.FirstChild.Data
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)

	if ogTitle != "" {
		return strings.TrimSpace(ogTitle)
	}
	if h1Title != "" {
		return strings.TrimSpace(h1Title)
	}
	return strings.TrimSpace(htmlTitle)
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

// truncate cuts s to at most n characters
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}
