// Package extractor turns raw page markup into qualified document payloads.
// One extractor exists per source family (patent, government, news); the
// Dispatcher picks the first extractor whose domain rules accept a URL, and the
// caller falls back to generic handling when none match.
package extractor

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hamptonroads/devtracker/app/gazetteer"
	"github.com/hamptonroads/devtracker/app/location"
)

// Result is a normalized extraction outcome. The Content field holds the
// composite human-readable block each extractor renders from its structured
// fields; raw page fragments never leave this package.
type Result struct {
	Title      string
	Content    string
	SourceType string
	Location   location.Candidate
	Extra      map[string]any
}

// Extractor is the per-source-family strategy. Extract returns nil when the
// page's resolved location fails the region gate (or the page yields nothing
// usable); that is a skip, not an error, and callers should still follow links.
type Extractor interface {
	SourceType() string
	Matches(host string) bool
	Extract(ctx context.Context, pageURL string, doc *goquery.Document) *Result
	LinksToFollow(pageURL string, doc *goquery.Document) []string
}

// Dispatcher holds the fixed extractor priority chain. Order is deliberate:
// patent sites are checked before government (a uspto.gov URL must be handled
// as a patent), government before news.
type Dispatcher struct {
	extractors []Extractor
}

func NewDispatcher(gaz *gazetteer.Gazetteer, resolver *location.Resolver) *Dispatcher {
	return &Dispatcher{
		extractors: []Extractor{
			&PatentExtractor{gaz: gaz, resolver: resolver},
			&GovernmentExtractor{gaz: gaz, resolver: resolver},
			&NewsExtractor{gaz: gaz, resolver: resolver},
		},
	}
}

// Select returns the first extractor that accepts the URL's host, or nil when
// no family matches and the caller should use its generic path.
func (d *Dispatcher) Select(pageURL string) Extractor {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	for _, e := range d.extractors {
		if e.Matches(parsed.Hostname()) {
			return e
		}
	}
	return nil
}

// SameDomainLinks harvests anchor targets from a page, resolving relative URLs
// against the page URL and keeping only links on the same host.
func SameDomainLinks(pageURL string, doc *goquery.Document) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	seen := map[string]struct{}{}
	links := []string{}

	doc.Find("a[href]").Each(func(i int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}

		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		if abs.Host != base.Host {
			return
		}

		abs.Fragment = ""
		full := abs.String()
		if _, ok := seen[full]; !ok {
			seen[full] = struct{}{}
			links = append(links, full)
		}
	})

	return links
}

// selectorText returns the trimmed text of the first element matching the
// selector, reading the content attribute instead for meta tags.
func selectorText(doc *goquery.Document, selector string) string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}

	if goquery.NodeName(sel) == "meta" {
		content, _ := sel.Attr("content")
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(sel.Text())
}

// paragraphText joins the text of all paragraphs longer than minLen.
func paragraphText(sel *goquery.Selection, minLen int) string {
	parts := []string{}
	sel.Each(func(i int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if len(text) > minLen {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

// formatCoordinates renders a candidate's coordinates for composite content
// blocks; an empty string means no coordinates were resolved.
func formatCoordinates(c location.Candidate) string {
	if c.Coordinates == nil {
		return ""
	}
	return c.Coordinates.String()
}

// cityOrUnknown renders a candidate's city for composite content blocks.
func cityOrUnknown(c location.Candidate) string {
	if c.City == "" {
		return "Unknown"
	}
	return c.City
}
