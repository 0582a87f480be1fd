package research

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"golang.org/x/sync/errgroup"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; DecipherResearch/1.0)"

// maxBodyBytes caps how much of a page we read. Pages past this size are
// truncated, not rejected.
const maxBodyBytes = 2 << 20

// PageFetcher downloads pages and converts them to markdown.
type PageFetcher struct {
	client    *http.Client
	converter *md.Converter
}

func NewPageFetcher() *PageFetcher {
	return &PageFetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		converter: md.NewConverter("", true, nil),
	}
}

// Fetch downloads one link and returns its markdown content.
func (f *PageFetcher) Fetch(ctx context.Context, link Link) (*Visit, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", link.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", link.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", link.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", link.URL, err)
	}

	markdown, err := f.converter.ConvertString(string(body))
	if err != nil {
		return nil, fmt.Errorf("converting %s to markdown: %w", link.URL, err)
	}

	return &Visit{
		URL:       link.URL,
		PageTitle: link.Title,
		Content:   markdown,
	}, nil
}

// FetchAll downloads links concurrently, at most 'parallel' at a time.
// Failed pages are skipped; an error is returned only when every fetch
// failed.
func (f *PageFetcher) FetchAll(ctx context.Context, links []Link, parallel int) ([]Visit, error) {
	if len(links) == 0 {
		return nil, nil
	}
	if parallel <= 0 {
		parallel = 1
	}

	results := make([]*Visit, len(links))
	var mu sync.Mutex
	var lastErr error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, link := range links {
		g.Go(func() error {
			visit, err := f.Fetch(gctx, link)
			if err != nil {
				mu.Lock()
				lastErr = err
				mu.Unlock()
				return nil // skip, don't sink the whole batch
			}
			results[i] = visit
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var visits []Visit
	for _, visit := range results {
		if visit != nil {
			visits = append(visits, *visit)
		}
	}

	if len(visits) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all fetches failed, last error: %w", lastErr)
	}

	return visits, nil
}
