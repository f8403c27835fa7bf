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

// govDomains match by substring so that both bare .gov hosts and the region's
// municipal domains (some of which are .us) are covered.
var govDomains = []string{
	".gov",
	"regulations.gov",
	"virginiabeach.gov",
	"norfolk.gov",
	"chesapeakeva.gov",
	"hampton.gov",
	"nnva.gov",
	"portsmouthva.gov",
	"suffolkva.us",
	"williamsburgva.gov",
	"poquoson-va.gov",
	"yorkcounty.gov",
	"gloucesterva.info",
	"smithfieldva.gov",
	"co.isle-of-wight.va.us",
	"jamescitycountyva.gov",
}

// Title candidates tried in priority order; first non-empty wins.
var govTitleSelectors = []string{"h1", "title", `meta[property="og:title"]`, ".title", "#title"}

// Content containers tried in priority order for local government sites.
var govContentSelectors = []string{"main", "article", "#content", ".content", ".main-content", "section.main"}

const (
	// Content shorter than this is assumed to be navigation chrome, not the page's subject.
	minSignificantContent = 200
	minParagraphLength    = 20
	contentSummaryLimit   = 2000
)

// GovernmentExtractor handles regulations.gov and local municipal sites.
type GovernmentExtractor struct {
	gaz      *gazetteer.Gazetteer
	resolver *location.Resolver
}

func (e *GovernmentExtractor) SourceType() string { return "government" }

func (e *GovernmentExtractor) Matches(host string) bool {
	for _, domain := range govDomains {
		if strings.Contains(host, domain) {
			return true
		}
	}
	return false
}

func (e *GovernmentExtractor) LinksToFollow(pageURL string, doc *goquery.Document) []string {
	return SameDomainLinks(pageURL, doc)
}

func (e *GovernmentExtractor) Extract(ctx context.Context, pageURL string, doc *goquery.Document) *Result {
	var title string
	for _, selector := range govTitleSelectors {
		if title = selectorText(doc, selector); title != "" {
			break
		}
	}

	var content, documentID, agency string

	if strings.Contains(pageURL, "regulations.gov") {
		if parsed, err := url.Parse(pageURL); err == nil {
			documentID = parsed.Query().Get("document")
		}
		agency = selectorText(doc, ".agency-name")
		content = selectorText(doc, ".document-content")
	} else {
		content = e.mainContent(doc)
	}

	// Paragraph and whole-body fallbacks; municipal sites vary too much for
	// the selector list to always hit.
	if content == "" {
		content = paragraphText(doc.Find("p"), minParagraphLength)
	}
	if content == "" {
		content = strings.TrimSpace(doc.Find("body").Text())
	}

	if content == "" {
		return nil
	}

	resolved := e.resolver.Resolve(ctx, content, title)
	if !location.InRegion(e.gaz, resolved) {
		return nil
	}

	source := agency
	if source == "" {
		if parsed, err := url.Parse(pageURL); err == nil {
			source = parsed.Hostname()
		}
	}

	summary := content
	if len(summary) > contentSummaryLimit {
		summary = summary[:contentSummaryLimit] + "..."
	}

	composite := fmt.Sprintf(`Source: %s
Title: %s
URL: %s
Document ID: %s
Location: %s, Virginia
Coordinates: %s

Content Summary:
%s`, source, title, pageURL, documentID, cityOrUnknown(resolved), formatCoordinates(resolved), summary)

	return &Result{
		Title:      title,
		Content:    strings.TrimSpace(composite),
		SourceType: e.SourceType(),
		Location:   resolved,
		Extra: map[string]any{
			"document_id": documentID,
			"agency":      agency,
		},
	}
}

// mainContent tries the prioritized container selectors, stripping navigation
// elements, and accepts the first container with a significant amount of text.
func (e *GovernmentExtractor) mainContent(doc *goquery.Document) string {
	for _, selector := range govContentSelectors {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}

		container.Find(`nav, [role="navigation"]`).Remove()
		container.Find(".menu, .nav, .navigation").Remove()

		text := strings.TrimSpace(container.Text())
		if len(text) > minSignificantContent {
			return text
		}
	}
	return ""
}
