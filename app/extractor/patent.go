package extractor

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hamptonroads/devtracker/app/gazetteer"
	"github.com/hamptonroads/devtracker/app/location"
)

// patentHosts is an exact-membership allowlist; patent sites have stable hosts.
var patentHosts = map[string]struct{}{
	"patents.google.com": {},
	"patft.uspto.gov":    {},
	"appft.uspto.gov":    {},
	"portal.uspto.gov":   {},
}

var (
	patentNumberInURL = regexp.MustCompile(`PN/(\d+)`)
	inventorsMarker   = regexp.MustCompile(`(?s)Inventors?:\s*(.+?)(?:;|Assignee|$)`)
	assigneeMarker    = regexp.MustCompile(`(?s)Assignee:\s*(.+?)(?:;|$)`)
)

// PatentExtractor handles USPTO and Google Patents pages. Both layouts are
// supported: Google's citation meta tags and USPTO's legacy table markup keyed
// by the literal "Abstract"/"Inventors:"/"Assignee:" markers.
type PatentExtractor struct {
	gaz      *gazetteer.Gazetteer
	resolver *location.Resolver
}

func (e *PatentExtractor) SourceType() string { return "patent" }

func (e *PatentExtractor) Matches(host string) bool {
	_, ok := patentHosts[host]
	return ok
}

func (e *PatentExtractor) LinksToFollow(pageURL string, doc *goquery.Document) []string {
	return SameDomainLinks(pageURL, doc)
}

func (e *PatentExtractor) Extract(ctx context.Context, pageURL string, doc *goquery.Document) *Result {
	var (
		title    string
		abstract string
		number   string
		filed    string
		issued   string
		assignee string

		inventors []string
	)

	if strings.Contains(pageURL, "patents.google.com") {
		title = selectorText(doc, "h1.title")
		abstract = selectorText(doc, "div.abstract")
		number = selectorText(doc, `meta[name="citation_patent_number"]`)
		filed = selectorText(doc, `meta[name="citation_patent_application_date"]`)
		issued = selectorText(doc, `meta[name="citation_patent_publication_date"]`)
		assignee = selectorText(doc, "dd.assignee-name")

		doc.Find(`meta[name="citation_author"]`).Each(func(i int, s *goquery.Selection) {
			if name, ok := s.Attr("content"); ok && name != "" {
				inventors = append(inventors, name)
			}
		})
	} else {
		// Legacy USPTO full-text pages are laid out with tables; the useful
		// fields are only findable through literal text markers.
		title = strings.TrimSpace(doc.Find(`font[size="+1"]`).First().Text())

		doc.Find("td").EachWithBreak(func(i int, td *goquery.Selection) bool {
			text := td.Text()
			if _, after, found := strings.Cut(text, "Abstract"); found {
				abstract = strings.TrimSpace(after)
				return false
			}
			return true
		})

		if m := patentNumberInURL.FindStringSubmatch(pageURL); m != nil {
			number = m[1]
		}

		fullText := doc.Text()
		if m := inventorsMarker.FindStringSubmatch(fullText); m != nil {
			for _, inv := range strings.Split(m[1], ";") {
				if trimmed := strings.TrimSpace(inv); trimmed != "" {
					inventors = append(inventors, trimmed)
				}
			}
		}
		if m := assigneeMarker.FindStringSubmatch(fullText); m != nil {
			assignee = strings.TrimSpace(m[1])
		}
	}

	// Location evidence can hide in any of three places; each fragment is
	// resolved independently and the best candidate wins.
	candidates := []location.Candidate{
		e.resolver.Resolve(ctx, strings.Join(inventors, ", "), ""),
		e.resolver.Resolve(ctx, assignee, ""),
	}
	if abstract != "" {
		candidates = append(candidates, e.resolver.Resolve(ctx, abstract, title))
	}

	best := location.Max(candidates...)

	if !location.InRegion(e.gaz, best) {
		return nil
	}

	content := fmt.Sprintf(`Patent: %s
Title: %s
Inventors: %s
Assignee: %s
Filing Date: %s
Publication Date: %s
Location: %s, Virginia
Coordinates: %s

Abstract:
%s`, number, title, strings.Join(inventors, ", "), assignee, filed, issued,
		cityOrUnknown(best), formatCoordinates(best), abstract)

	return &Result{
		Title:      title,
		Content:    strings.TrimSpace(content),
		SourceType: e.SourceType(),
		Location:   best,
		Extra: map[string]any{
			"patent_number":    number,
			"inventors":        inventors,
			"assignee":         assignee,
			"filing_date":      filed,
			"publication_date": issued,
		},
	}
}
