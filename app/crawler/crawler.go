// Package crawler drives the per-site breadth-first traversals and forwards
// qualifying pages to the storage collaborator.
package crawler

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	slogctx "github.com/veqryn/slog-context"

	"github.com/hamptonroads/devtracker/app/config"
	"github.com/hamptonroads/devtracker/app/document"
	"github.com/hamptonroads/devtracker/app/extractor"
	"github.com/hamptonroads/devtracker/app/gazetteer"
	"github.com/hamptonroads/devtracker/app/llm"
	"github.com/hamptonroads/devtracker/app/location"
	"github.com/hamptonroads/devtracker/app/storage"
)

// File extensions that never hold crawlable page content.
var skipExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".ico",
	".zip", ".gz", ".tar", ".mp3", ".mp4", ".avi", ".mov",
	".css", ".js",
}

// Engine runs crawl runs over the configured targets. Sites are traversed
// sequentially, but the run-global visited set is mutex-guarded so concurrent
// site traversals stay a safe extension.
type Engine struct {
	config     *config.Config
	gaz        *gazetteer.Gazetteer
	store      storage.Storage
	model      llm.Model // nil when the language model is disabled
	resolver   *location.Resolver
	dispatcher *extractor.Dispatcher

	mu            sync.Mutex
	globalVisited map[string]struct{}
}

func New(cfg *config.Config, gaz *gazetteer.Gazetteer, store storage.Storage, model llm.Model, resolver *location.Resolver, dispatcher *extractor.Dispatcher) *Engine {
	return &Engine{
		config:        cfg,
		gaz:           gaz,
		store:         store,
		model:         model,
		resolver:      resolver,
		dispatcher:    dispatcher,
		globalVisited: map[string]struct{}{},
	}
}

// Run crawls every configured target once, in order.
func (e *Engine) Run(ctx context.Context) {
	runID := uuid.NewString()[:8]

	e.mu.Lock()
	e.globalVisited = map[string]struct{}{}
	e.mu.Unlock()

	fmt.Printf("Starting crawl run %v over %v targets\n", runID, len(e.config.Targets))

	for _, target := range e.config.Targets {
		if ctx.Err() != nil {
			return
		}
		e.CrawlSite(slogctx.Append(ctx, "run", runID, "target", target.URL), target)
	}

	fmt.Printf("Finished crawl run %v\n", runID)
}

// CrawlSite runs one bounded breadth-first traversal from the target's seed
// URL. The frontier is a FIFO queue: newly discovered links are appended, so
// pages are processed in discovery order.
func (e *Engine) CrawlSite(ctx context.Context, target config.Target) {
	seed, err := url.Parse(target.URL)
	if err != nil {
		slogctx.Error(ctx, "Invalid seed URL", "error", err)
		return
	}
	origin := seed.Scheme + "://" + seed.Host

	queue := []string{target.URL}
	visited := map[string]struct{}{}

	for len(queue) > 0 && len(visited) < e.config.Crawl.MaxPagesPerSite {
		if ctx.Err() != nil {
			return
		}

		current := queue[0]
		queue = queue[1:]

		if _, ok := visited[current]; ok {
			continue
		}
		// Mark both sets before fetching so a URL is never fetched twice in
		// a run, even when the fetch fails.
		if !e.markVisited(current) {
			continue
		}
		visited[current] = struct{}{}

		if shouldSkipURL(current) {
			continue
		}

		// Cross-run dedup: the store already has this page.
		exists, err := e.store.Exists(ctx, current)
		if err != nil {
			slogctx.Error(ctx, "Failed to check for existing document", "url", current, "error", err)
		} else if exists {
			fmt.Printf("Document already exists for %v, skipping\n", current)
			continue
		}

		links, err := e.visit(ctx, target, origin, current)
		if err != nil {
			// A single page's failure never aborts the site traversal.
			slogctx.Error(ctx, "Error crawling page", "url", current, "error", err)
			e.pause(ctx, e.config.Crawl.Delay)
			continue
		}

		for _, link := range links {
			if _, ok := visited[link]; ok {
				continue
			}
			if e.isVisited(link) || shouldSkipURL(link) || !sameHost(seed, link) {
				continue
			}
			queue = append(queue, link)
		}

		e.pause(ctx, e.config.Crawl.Delay+rand.Float64())
	}

	fmt.Printf("Finished crawl of %v: visited %v pages\n", target.URL, len(visited))
}

// visit fetches one page, extracts it, stores a qualifying result, and returns
// the links to enqueue. A nil extraction result is a skip, not an error; links
// are still returned so discovery continues past out-of-scope pages.
func (e *Engine) visit(ctx context.Context, target config.Target, origin string, pageURL string) ([]string, error) {
	page, err := e.fetch(pageURL)
	if err != nil {
		return nil, err
	}

	contentType := page.contentType
	switch {
	case strings.HasPrefix(contentType, "application/xml"), strings.HasPrefix(contentType, "text/xml"):
		// Sitemaps contribute links but no document.
		return sitemapLinks(page.body), nil
	case strings.HasPrefix(contentType, "application/rss+xml"),
		strings.HasPrefix(contentType, "application/atom+xml"),
		strings.HasPrefix(contentType, "application/feed+json"):
		return feedLinks(page.body)
	}

	if !strings.HasPrefix(contentType, "text/html") {
		return nil, nil
	}

	doc, err := parseHTML(page.body)
	if err != nil {
		return nil, err
	}

	var result *extractor.Result
	var links []string

	if ext := e.dispatcher.Select(pageURL); ext != nil {
		fmt.Printf("Using %v extractor for %v\n", ext.SourceType(), pageURL)
		result = ext.Extract(ctx, pageURL, doc)
		links = ext.LinksToFollow(pageURL, doc)
	} else {
		links = extractor.SameDomainLinks(pageURL, doc)
		result = e.extractGeneric(ctx, pageURL, doc, page.body)
	}

	if result == nil {
		return links, nil
	}

	// A record without coordinates can't be mapped, so geocode the city as a
	// last resort.
	if result.Location.Coordinates == nil && result.Location.City != "" {
		if point := e.resolver.GeocodeAddress(ctx, result.Location.City); point != nil {
			withCoords := result.Location
			withCoords.Coordinates = point
			result.Location = withCoords
		}
	}

	record := document.New(result, pageURL, origin, target.Category)
	if err := e.store.Store(ctx, record); err != nil {
		slogctx.Error(ctx, "Failed to store document", "url", pageURL, "error", err)
	} else {
		fmt.Printf("Stored document %v (%v)\n", record.ID, record.Title)
	}

	return links, nil
}

// markVisited adds the URL to the run-global visited set, reporting whether it
// was absent.
func (e *Engine) markVisited(pageURL string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.globalVisited[pageURL]; ok {
		return false
	}
	e.globalVisited[pageURL] = struct{}{}
	return true
}

func (e *Engine) isVisited(pageURL string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.globalVisited[pageURL]
	return ok
}

func (e *Engine) pause(ctx context.Context, seconds float64) {
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(seconds * float64(time.Second))):
	}
}

func shouldSkipURL(pageURL string) bool {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return true
	}

	path := strings.ToLower(parsed.Path)
	for _, ext := range skipExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func sameHost(seed *url.URL, link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	return parsed.Host == seed.Host
}
