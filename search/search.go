// Package search queries the municipality's public site search and parses the
// result listing out of its HTML.
package search

import (
	"bytes"
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

	"github.com/botkyrka/assist/metrics"
	"github.com/botkyrka/assist/models"
)

// ErrNoResults is returned by Parse when no strategy found any result
var ErrNoResults = errors.New("no search results")

// maxBodyBytes bounds how much of a result page is read
const maxBodyBytes = 5 << 20

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config contains search client configuration
type Config struct {
	BaseURL     string // site origin, results are resolved against it
	HTTPTimeout time.Duration
	UserAgent   string
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:     "https://www.botkyrka.se",
		HTTPTimeout: 9 * time.Second,
		UserAgent:   browserUserAgent,
	}
}

// Client runs site searches
type Client struct {
	config     Config
	base       *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a search client. An unparseable BaseURL falls back to the default origin.
func New(config Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.UserAgent == "" {
		config.UserAgent = browserUserAgent
	}

	base, err := url.Parse(config.BaseURL)
	if err != nil || base.Host == "" {
		base, _ = url.Parse(DefaultConfig().BaseURL)
	}

	return &Client{
		config: config,
		base:   base,
		httpClient: &http.Client{
			Timeout:   config.HTTPTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// URL returns the search page address for the keywords
func (c *Client) URL(keywords string) string {
	q := strings.ReplaceAll(url.QueryEscape(keywords), "+", "%20")
	return c.base.ResolveReference(&url.URL{Path: "/sokresultat"}).String() +
		"?query=" + q + "&submitButton=" + url.QueryEscape("Sök")
}

// Search performs one GET against the search page. It never returns an error:
// transport failures and non-2xx responses yield Success=false with the error captured.
func (c *Client) Search(ctx context.Context, keywords string) models.SearchResponse {
	resp := models.SearchResponse{Query: keywords, Results: []models.SearchResult{}}

	doc, err := c.fetch(ctx, c.URL(keywords))
	if err != nil {
		metrics.FetchesTotal.WithLabelValues("search", "error").Inc()
		c.logger.Warn("site search failed", zap.String("query", keywords), zap.Error(err))
		resp.Error = err.Error()
		return resp
	}
	metrics.FetchesTotal.WithLabelValues("search", "ok").Inc()

	resp.Success = true
	results, strategy, err := Parse(doc, c.base)
	if err != nil {
		c.logger.Info("site search found nothing", zap.String("query", keywords))
		return resp
	}

	resp.Results = results
	resp.Strategy = strategy
	if strategy != Strategies[0].Name {
		c.logger.Warn("search markup drift, used fallback parser",
			zap.String("strategy", strategy), zap.Int("results", len(results)))
	}
	return resp
}

// Raw fetches the unparsed search page for the keywords
func (c *Client) Raw(ctx context.Context, keywords string) ([]byte, error) {
	return c.fetchRaw(ctx, c.URL(keywords))
}

// ParsePage extracts results from a previously fetched search page
func (c *Client) ParsePage(page []byte) ([]models.SearchResult, string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	return Parse(doc, c.base)
}

func (c *Client) fetch(ctx context.Context, target string) (*html.Node, error) {
	body, err := c.fetchRaw(ctx, target)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

func (c *Client) fetchRaw(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "sv-SE,sv;q=0.9,en;q=0.8")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search page: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %s", res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read search page: %w", err)
	}
	return body, nil
}
