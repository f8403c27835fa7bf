package extractor

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hamptonroads/devtracker/app/gazetteer"
	"github.com/hamptonroads/devtracker/app/location"
)

// Local news outlets covering the region.
var newsDomains = []string{
	"pilotonline.com",
	"dailypress.com",
	"wavy.com",
	"wtkr.com",
	"13newsnow.com",
	"wvec.com",
	"wydaily.com",
	"southsidedaily.com",
}

var newsContentSelectors = []string{"article", ".article-content", ".story-content", ".entry-content", "main", "#main-content"}

var newsDateSelectors = []string{`meta[property="article:published_time"]`, "time", ".date", ".published-date"}

var newsAuthorSelectors = []string{`meta[name="author"]`, ".byline", ".author"}

// NewsExtractor handles articles from the local news allowlist.
type NewsExtractor struct {
	gaz      *gazetteer.Gazetteer
	resolver *location.Resolver
}

func (e *NewsExtractor) SourceType() string { return "news" }

func (e *NewsExtractor) Matches(host string) bool {
	for _, domain := range newsDomains {
		if strings.Contains(host, domain) {
			return true
		}
	}
	return false
}

func (e *NewsExtractor) LinksToFollow(pageURL string, doc *goquery.Document) []string {
	return SameDomainLinks(pageURL, doc)
}

func (e *NewsExtractor) Extract(ctx context.Context, pageURL string, doc *goquery.Document) *Result {
	title := selectorText(doc, "h1")
	if title == "" {
		title = selectorText(doc, `meta[property="og:title"]`)
	}

	var content string
	for _, selector := range newsContentSelectors {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}
		if content = paragraphText(container.Find("p"), minParagraphLength); content != "" {
			break
		}
	}

	if content == "" {
		return nil
	}

	var published string
	for _, selector := range newsDateSelectors {
		if published = selectorText(doc, selector); published != "" {
			break
		}
	}

	var author string
	for _, selector := range newsAuthorSelectors {
		if author = selectorText(doc, selector); author != "" {
			break
		}
	}

	resolved := e.resolver.Resolve(ctx, content, title)
	if !location.InRegion(e.gaz, resolved) {
		return nil
	}

	domain := ""
	if parsed, err := url.Parse(pageURL); err == nil {
		domain = parsed.Hostname()
	}

	composite := fmt.Sprintf(`Source: %s
Title: %s
Author: %s
Published: %s
Location: %s, Virginia
Coordinates: %s

Content:
%s`, domain, title, author, published, cityOrUnknown(resolved), formatCoordinates(resolved), content)

	return &Result{
		Title:      title,
		Content:    strings.TrimSpace(composite),
		SourceType: e.SourceType(),
		Location:   resolved,
		Extra: map[string]any{
			"author":           author,
			"publication_date": published,
		},
	}
}
