package research

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// SearchClient finds candidate links for a search query.
type SearchClient interface {
	Search(ctx context.Context, query string, maxResults int) ([]Link, error)
}

// DuckDuckGoClient implements SearchClient against the DuckDuckGo HTML
// endpoint, which needs no API key.
type DuckDuckGoClient struct {
	Client  *http.Client
	BaseURL string
}

var _ SearchClient = &DuckDuckGoClient{}

func NewDuckDuckGoClient() *DuckDuckGoClient {
	return &DuckDuckGoClient{
		Client: &http.Client{
			Timeout: 20 * time.Second,
		},
		BaseURL: "https://html.duckduckgo.com/html/",
	}
}

func (c *DuckDuckGoClient) Search(ctx context.Context, query string, maxResults int) ([]Link, error) {
	endpoint := fmt.Sprintf("%s?q=%s", c.BaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search error: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	var links []Link
	doc.Find("a.result__a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			return true
		}

		target := resolveRedirect(href)
		if target == "" {
			return true
		}

		links = append(links, Link{
			URL:   target,
			Title: strings.TrimSpace(s.Text()),
		})
		return len(links) < maxResults
	})

	return links, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=<url> redirect links.
func resolveRedirect(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	if uddg := parsed.Query().Get("uddg"); uddg != "" {
		return uddg
	}

	if parsed.Scheme == "http" || parsed.Scheme == "https" {
		return href
	}

	return ""
}

// DedupeLinks drops repeated URLs, keeping first occurrence order.
func DedupeLinks(links []Link) []Link {
	seen := make(map[string]bool, len(links))
	var unique []Link
	for _, link := range links {
		if seen[link.URL] {
			continue
		}
		seen[link.URL] = true
		unique = append(unique, link)
	}
	return unique
}
