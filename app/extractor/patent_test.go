package extractor

import (
	"context"
	"strings"
	"testing"
)

const googlePatentPage = `<html>
<head>
	<meta name="citation_patent_number" content="US1234567B2">
	<meta name="citation_patent_application_date" content="2023-04-01">
	<meta name="citation_patent_publication_date" content="2025-01-15">
	<meta name="citation_author" content="Alex Rivera">
	<meta name="citation_author" content="Sam Okafor">
</head>
<body>
	<h1 class="title">Automated pier construction system</h1>
	<dl><dd class="assignee-name">Tidewater Marine Construction (Chesapeake, VA)</dd></dl>
	<div class="abstract">A system for rapid pier construction in shallow coastal waters
	using prefabricated pile caps and a floating assembly platform.</div>
</body>
</html>`

func TestPatentExtractGoogle(t *testing.T) {
	dispatcher := newDispatcher(t)
	pageURL := "https://patents.google.com/patent/US1234567B2/en"

	ext := dispatcher.Select(pageURL)
	if ext == nil || ext.SourceType() != "patent" {
		t.Fatalf("expected the patent extractor, got %+v", ext)
	}

	result := ext.Extract(context.Background(), pageURL, parse(t, googlePatentPage))
	if result == nil {
		t.Fatalf("expected a result for an in-region assignee")
	}

	if result.Title != "Automated pier construction system" {
		t.Fatalf("unexpected title: %q", result.Title)
	}
	if result.Location.City != "Chesapeake" {
		t.Fatalf("unexpected city: %+v", result.Location)
	}
	if result.Extra["patent_number"] != "US1234567B2" {
		t.Fatalf("unexpected patent number: %+v", result.Extra)
	}

	inventors, ok := result.Extra["inventors"].([]string)
	if !ok || len(inventors) != 2 || inventors[0] != "Alex Rivera" {
		t.Fatalf("unexpected inventors: %+v", result.Extra["inventors"])
	}

	if !strings.Contains(result.Content, "Patent: US1234567B2") {
		t.Fatalf("composite content is missing the patent number:\n%v", result.Content)
	}
	if !strings.Contains(result.Content, "Location: Chesapeake, Virginia") {
		t.Fatalf("composite content is missing the location line:\n%v", result.Content)
	}
}

func TestPatentExtractLegacy(t *testing.T) {
	dispatcher := newDispatcher(t)
	pageURL := "https://patft.uspto.gov/netacgi/nph-Parser?Sect1=PTO1&p=1&u=/netahtml/PTO/srchnum.htm&r=1&f=G&l=50&s1=PN/9876543"

	markup := `<html><body>
		<table><tr><td><font size="+1">Floating breakwater anchoring method</font></td></tr></table>
		<table><tr><td>Abstract
		A method for anchoring modular floating breakwaters in tidal estuaries.</td></tr></table>
		<p>Inventors: Jane Doe (Hampton, VA) Assignee: Harbor Dredging Co. (Newport News, VA);</p>
	</body></html>`

	result := dispatcher.Select(pageURL).Extract(context.Background(), pageURL, parse(t, markup))
	if result == nil {
		t.Fatalf("expected a result for an in-region inventor")
	}

	if result.Title != "Floating breakwater anchoring method" {
		t.Fatalf("unexpected title: %q", result.Title)
	}
	if result.Extra["patent_number"] != "9876543" {
		t.Fatalf("unexpected patent number: %+v", result.Extra)
	}
	if !strings.Contains(result.Content, "anchoring modular floating breakwaters") {
		t.Fatalf("composite content is missing the abstract:\n%v", result.Content)
	}

	// Inventor and assignee fragments tie at the same confidence; the
	// inventor candidate is computed first and wins.
	if result.Location.City != "Hampton" {
		t.Fatalf("unexpected city: %+v", result.Location)
	}
}

func TestPatentExtractOutOfRegion(t *testing.T) {
	dispatcher := newDispatcher(t)
	pageURL := "https://patents.google.com/patent/US7654321B1/en"

	markup := `<html><body>
		<h1 class="title">Self-sealing drywall fastener</h1>
		<dl><dd class="assignee-name">Prairie Fastener Works (Topeka, KS)</dd></dl>
		<div class="abstract">A fastener with an integrated sealing collar.</div>
	</body></html>`

	if result := dispatcher.Select(pageURL).Extract(context.Background(), pageURL, parse(t, markup)); result != nil {
		t.Fatalf("expected nil for an out-of-region patent, got %+v", result)
	}
}
