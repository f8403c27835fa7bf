package extractor

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/hamptonroads/devtracker/app/gazetteer"
	"github.com/hamptonroads/devtracker/app/location"
)

func newDispatcher(t *testing.T) *Dispatcher {
	g, err := gazetteer.Load()
	if err != nil {
		t.Fatalf("failed to load embedded region data: %v", err)
	}
	return NewDispatcher(g, location.NewResolver(g, nil, nil))
}

func parse(t *testing.T, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("failed to parse test markup: %v", err)
	}
	return doc
}

func TestSelect(t *testing.T) {
	dispatcher := newDispatcher(t)

	tests := []struct {
		url      string
		expected string
	}{
		{"https://patents.google.com/patent/US12345678", "patent"},
		{"https://patft.uspto.gov/netacgi/nph-Parser?patentnumber=1", "patent"},
		{"https://www.regulations.gov/document?D=HUD-2024-0001", "government"},
		{"https://www.norfolk.gov/1376/Development", "government"},
		{"https://www.suffolkva.us/259/Planning", "government"},
		{"https://www.pilotonline.com/business/article.html", "news"},
		{"https://www.wavy.com/news/local-news/story/", "news"},
		{"https://hamptonroadseco.org/development-projects/", ""},
		{"https://example.com/page", ""},
	}

	for _, test := range tests {
		ext := dispatcher.Select(test.url)
		got := ""
		if ext != nil {
			got = ext.SourceType()
		}
		if got != test.expected {
			t.Fatalf("Select(%v) = %q, expected %q", test.url, got, test.expected)
		}
	}
}

func TestSelectPrefersPatentOverGovernment(t *testing.T) {
	dispatcher := newDispatcher(t)

	// A uspto.gov host satisfies the government substring rules too; the
	// patent extractor must win.
	ext := dispatcher.Select("https://patft.uspto.gov/some/page")
	if ext == nil || ext.SourceType() != "patent" {
		t.Fatalf("expected the patent extractor for a uspto.gov URL, got %+v", ext)
	}
}

func TestSameDomainLinks(t *testing.T) {
	doc := parse(t, `<html><body>
		<a href="/planning/projects">Projects</a>
		<a href="https://www.norfolk.gov/permits">Permits</a>
		<a href="https://www.norfolk.gov/permits#section">Permits anchor</a>
		<a href="https://other.example.com/offsite">Offsite</a>
		<a href="mailto:planning@norfolk.gov">Email</a>
		<a href="javascript:void(0)">Noop</a>
	</body></html>`)

	links := SameDomainLinks("https://www.norfolk.gov/1376/Development", doc)

	expected := []string{
		"https://www.norfolk.gov/planning/projects",
		"https://www.norfolk.gov/permits",
	}

	if len(links) != len(expected) {
		t.Fatalf("unexpected links: %v", links)
	}
	for i := range expected {
		if links[i] != expected[i] {
			t.Fatalf("link %v = %v, expected %v", i, links[i], expected[i])
		}
	}
}

func TestSelectorText(t *testing.T) {
	doc := parse(t, `<html><head>
		<meta property="og:title" content="  Meta Title  ">
		<title>Page Title</title>
	</head><body><h1> Heading </h1></body></html>`)

	if got := selectorText(doc, "h1"); got != "Heading" {
		t.Fatalf("unexpected h1 text: %q", got)
	}
	if got := selectorText(doc, `meta[property="og:title"]`); got != "Meta Title" {
		t.Fatalf("unexpected meta content: %q", got)
	}
	if got := selectorText(doc, ".missing"); got != "" {
		t.Fatalf("expected empty text for a missing selector, got %q", got)
	}
}
