package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxExtractChars bounds the amount of page text handed to the synthesis
// and review prompts.
const maxExtractChars = 8000

// noiseSelectors are elements removed before extracting article text.
var noiseSelectors = []string{"script", "style", "nav", "footer", "header", "aside", "iframe", "noscript"}

// contentSelectors are tried in order to locate the main content container.
var contentSelectors = []string{"article", "main", ".content", ".article", ".post", ".entry", ".post-content"}

// FetchAndExtract downloads a page and extracts its readable text.
func (g *Gateway) FetchAndExtract(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s failed (status %d)", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	container := doc.Selection
	for _, sel := range contentSelectors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			container = found
			break
		}
	}

	text := normalizeWhitespace(container.Text())
	if len(text) > maxExtractChars {
		text = text[:maxExtractChars]
	}

	return &Page{
		URL:     pageURL,
		Title:   strings.TrimSpace(doc.Find("title").First().Text()),
		Content: text,
	}, nil
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
