package crawler

import (
	"bytes"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/mmcdole/gofeed"
	sitemap "github.com/oxffaa/gopher-parse-sitemap"
	"golang.org/x/exp/maps"
)

type page struct {
	body        []byte
	contentType string
}

// fetch downloads one URL through a fresh collector. Redirects are followed;
// non-2xx statuses surface as errors from Visit.
func (e *Engine) fetch(pageURL string) (*page, error) {
	collector := colly.NewCollector()
	collector.UserAgent = e.config.Crawl.UserAgent
	collector.IgnoreRobotsTxt = true
	collector.SetRequestTimeout(time.Duration(e.config.Crawl.FetchTimeout) * time.Second)

	var fetched *page
	collector.OnResponse(func(resp *colly.Response) {
		fetched = &page{
			body:        resp.Body,
			contentType: resp.Headers.Get("Content-Type"),
		}
	})

	if err := collector.Visit(pageURL); err != nil {
		return nil, err
	}
	collector.Wait()

	if fetched == nil {
		return nil, fmt.Errorf("no response received for %v", pageURL)
	}
	return fetched, nil
}

func parseHTML(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// sitemapLinks parses the body as a sitemap or sitemap index and returns every
// listed location. Parse errors yield an empty slice; a sitemap that doesn't
// parse simply contributes no links.
func sitemapLinks(body []byte) []string {
	links := []string{}

	reader := bytes.NewReader(body)
	sitemap.Parse(reader, func(entry sitemap.Entry) error {
		links = append(links, entry.GetLocation())
		return nil
	})
	reader.Reset(body)
	sitemap.ParseIndex(reader, func(entry sitemap.IndexEntry) error {
		links = append(links, entry.GetLocation())
		return nil
	})

	return links
}

// feedLinks parses RSS, Atom, and JSON feeds using `gofeed` and returns the
// set of linked articles. Feeds routinely repeat a link across items, so the
// links are deduplicated.
func feedLinks(body []byte) ([]string, error) {
	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("invalid feed content: %v", err)
	}

	links := map[string]struct{}{}
	for _, item := range parsed.Items {
		for _, link := range item.Links {
			links[link] = struct{}{}
		}
	}
	return maps.Keys(links), nil
}
