package research

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PipelineConfig controls the breadth of a research run.
type PipelineConfig struct {
	MaxQueries      int // search queries planned per topic
	ResultsPerQuery int // links kept per search query
	FetchParallel   int // concurrent page downloads
}

func (c PipelineConfig) withDefaults() PipelineConfig {
	if c.MaxQueries <= 0 {
		c.MaxQueries = 5
	}
	if c.ResultsPerQuery <= 0 {
		c.ResultsPerQuery = 5
	}
	if c.FetchParallel <= 0 {
		c.FetchParallel = 4
	}
	return c
}

// Pipeline runs the full research flow for a topic: plan search queries,
// collect links, scrape pages, then compose a titled document.
type Pipeline struct {
	planner  *Planner
	search   SearchClient
	fetcher  *PageFetcher
	composer *Composer
	cfg      PipelineConfig
}

func NewPipeline(planner *Planner, search SearchClient, fetcher *PageFetcher, composer *Composer, cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		planner:  planner,
		search:   search,
		fetcher:  fetcher,
		composer: composer,
		cfg:      cfg.withDefaults(),
	}
}

func (p *Pipeline) Run(ctx context.Context, topic string) (*Report, error) {
	queries, err := p.planner.PlanQueries(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("planning: %w", err)
	}
	log.Printf("[RESEARCH] planned %d queries for topic %q", len(queries), topic)

	links, err := p.collectLinks(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("collecting links: %w", err)
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("no links found for topic %q", topic)
	}
	log.Printf("[RESEARCH] collected %d unique links", len(links))

	visits, err := p.fetcher.FetchAll(ctx, links, p.cfg.FetchParallel)
	if err != nil {
		return nil, fmt.Errorf("scraping: %w", err)
	}
	log.Printf("[RESEARCH] scraped %d of %d pages", len(visits), len(links))

	title, document, err := p.composer.Compose(ctx, topic, visits)
	if err != nil {
		return nil, fmt.Errorf("composing: %w", err)
	}

	return &Report{
		Title:    title,
		Document: document,
		Links:    links,
		Visits:   visits,
	}, nil
}

// collectLinks runs every search query concurrently and merges the results,
// dropping duplicate URLs. A query that fails is skipped, it only becomes an
// error when no query produced links.
func (p *Pipeline) collectLinks(ctx context.Context, queries []string) ([]Link, error) {
	perQuery := make([][]Link, len(queries))
	var mu sync.Mutex
	var lastErr error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.FetchParallel)

	for i, query := range queries {
		g.Go(func() error {
			found, err := p.search.Search(gctx, query, p.cfg.ResultsPerQuery)
			if err != nil {
				log.Printf("[RESEARCH] search failed for %q: %v", query, err)
				mu.Lock()
				lastErr = err
				mu.Unlock()
				return nil
			}
			perQuery[i] = found
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Link
	for _, found := range perQuery {
		all = append(all, found...)
	}

	unique := DedupeLinks(all)
	if len(unique) == 0 && lastErr != nil {
		return nil, lastErr
	}

	return unique, nil
}
