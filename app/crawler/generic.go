package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/hamptonroads/devtracker/app/extractor"
	"github.com/hamptonroads/devtracker/app/llm"
	"github.com/hamptonroads/devtracker/app/location"
)

const (
	// Pages with less text than this carry no useful signal.
	minContentLength = 100
	// Ceiling on extracted text kept per page.
	maxContentLength = 10000
)

// extractGeneric handles pages from hosts no specialized extractor claims:
// readability text extraction, a model relevance check, then the same location
// pipeline and region gate the specialized extractors apply. Returns nil when
// the page doesn't qualify.
func (e *Engine) extractGeneric(ctx context.Context, pageURL string, doc *goquery.Document, body []byte) *extractor.Result {
	title := strings.TrimSpace(doc.Find("title").Text())

	content := readableText(pageURL, body)
	if len(content) < minContentLength {
		return nil
	}
	if len(content) > maxContentLength {
		content = content[:maxContentLength]
	}

	if e.model != nil && !llm.IsRelevant(ctx, e.model, e.gaz, content, title) {
		fmt.Printf("Not a development page: %v\n", pageURL)
		return nil
	}

	resolved := e.resolver.Resolve(ctx, content, title)

	if !location.InRegion(e.gaz, resolved) {
		if resolved.Empty() {
			fmt.Printf("Relevant page with no resolvable location: %v\n", pageURL)
		} else {
			fmt.Printf("Location out of region for %v: %v\n", pageURL, resolved.City)
		}
		return nil
	}

	// The resolver may qualify a page on a postal code alone; fill in the
	// city from the model when the lexical scan found none.
	if resolved.City == "" && e.model != nil {
		if city := llm.DetectCity(ctx, e.model, e.gaz, content); city != "" {
			resolved.City = city
		}
	}

	extra := map[string]any{}
	if e.model != nil {
		extra = llm.ExtractProjectInfo(ctx, e.model, content, pageURL)
	}

	return &extractor.Result{
		Title:      title,
		Content:    content,
		SourceType: "general",
		Location:   resolved,
		Extra:      extra,
	}
}

// readableText extracts the page's main text, preferring readability's article
// extraction and falling back to a whole-document text walk.
func readableText(pageURL string, body []byte) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	if article, err := readability.FromReader(bytes.NewReader(body), parsed); err == nil {
		// Re-extract text from the cleaned article HTML so element
		// boundaries become spaces.
		if node, err := html.Parse(strings.NewReader(article.Content)); err == nil {
			if text := getText(node); text != "" {
				return text
			}
		}
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return text
		}
	}

	if node, err := html.Parse(bytes.NewReader(body)); err == nil {
		return getText(node)
	}
	return ""
}

var nonTextElements = []string{"head", "meta", "script", "style", "noscript", "object", "svg"}

func getText(node *html.Node) string {
	text := ""

	if node.FirstChild != nil {
		if !slices.Contains(nonTextElements, node.Data) {
			text += getText(node.FirstChild) + " "
		}
	}

	if node.Type == html.TextNode {
		text += node.Data + " "
	}

	if node.NextSibling != nil {
		text += getText(node.NextSibling) + " "
	}

	return strings.TrimSpace(text)
}
