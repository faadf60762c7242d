package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

const snippetChars = 500

// VerifyCache memoizes URL verification results for the lifetime of a
// Gateway. A single workflow run verifies a small, bounded set of URLs,
// so there is no eviction.
type VerifyCache struct {
	mu      sync.Mutex
	results map[string]VerifyResult
}

// NewVerifyCache creates an empty cache.
func NewVerifyCache() *VerifyCache {
	return &VerifyCache{results: make(map[string]VerifyResult)}
}

func (c *VerifyCache) get(url string) (VerifyResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[url]
	return r, ok
}

func (c *VerifyCache) put(url string, r VerifyResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[url] = r
}

// Len returns the number of cached verifications.
func (c *VerifyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// VerifyURL checks whether a cited URL is reachable and classifies the
// outcome. 401/403 responses are classified blocked rather than failed so
// the fact-checker can look for alternative sources instead of flagging
// the claim outright. Results are memoized per URL.
func (g *Gateway) VerifyURL(ctx context.Context, pageURL string) VerifyResult {
	if cached, ok := g.cache.get(pageURL); ok {
		g.logger.Debug("using cached verification", "url", pageURL)
		return cached
	}

	result := g.verify(ctx, pageURL)
	g.cache.put(pageURL, result)
	return result
}

func (g *Gateway) verify(ctx context.Context, pageURL string) VerifyResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return VerifyResult{URL: pageURL, Status: VerifyError, Message: err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return VerifyResult{URL: pageURL, Status: VerifyTimeout, Message: err.Error()}
		}
		return VerifyResult{URL: pageURL, Status: VerifyError, Message: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusPaymentRequired:
		return VerifyResult{
			URL:        pageURL,
			Status:     VerifyBlocked,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("access denied (status %d), likely paywall or bot protection", resp.StatusCode),
		}
	case resp.StatusCode != http.StatusOK:
		return VerifyResult{
			URL:        pageURL,
			Status:     VerifyError,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	result := VerifyResult{URL: pageURL, Status: VerifyAccessible, StatusCode: resp.StatusCode}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		// The page is reachable even if we cannot parse it.
		return result
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}
	result.Title = strings.TrimSpace(doc.Find("title").First().Text())
	text := normalizeWhitespace(doc.Text())
	if len(text) > snippetChars {
		text = text[:snippetChars]
	}
	result.Snippet = text

	return result
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)
}

// FindAlternativeSources searches for accessible replacements for a claim
// whose original citation is blocked. The blocked URL itself is excluded
// from the results.
func (g *Gateway) FindAlternativeSources(ctx context.Context, claim, blockedURL string) []Alternative {
	query := claim
	if domain := domainOf(blockedURL); domain != "" {
		query = claim + " " + domain
	}

	records := g.SearchWeb(ctx, query, 5)

	var alternatives []Alternative
	for _, r := range records {
		if r.URL == "" || r.URL == blockedURL {
			continue
		}
		snippet := r.Content
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		alternatives = append(alternatives, Alternative{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: snippet,
		})
		if len(alternatives) == 3 {
			break
		}
	}
	return alternatives
}

func domainOf(rawURL string) string {
	rest, ok := strings.CutPrefix(rawURL, "https://")
	if !ok {
		rest, ok = strings.CutPrefix(rawURL, "http://")
		if !ok {
			return ""
		}
	}
	host, _, _ := strings.Cut(rest, "/")
	return host
}
