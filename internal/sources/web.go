package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxBodyBytes = 2 << 20 // 2 MiB

// SearchWeb searches the web for the query. It tries the Tavily API first
// and cascades to DuckDuckGo's HTML endpoint when Tavily is unavailable or
// unconfigured. All failures degrade to an empty result set.
func (g *Gateway) SearchWeb(ctx context.Context, query string, maxResults int) []Record {
	if maxResults <= 0 {
		maxResults = 10
	}

	if g.tavilyKey != "" {
		records, err := g.tavilySearch(ctx, query, maxResults)
		if err == nil {
			return records
		}
		g.logger.Warn("tavily search failed, falling back to duckduckgo", "query", query, "error", err)
	}

	records, err := g.duckduckgoSearch(ctx, query, maxResults)
	if err != nil {
		g.logger.Warn("web search failed", "query", query, "error", err)
		return nil
	}
	return records
}

type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilyResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

func (g *Gateway) tavilySearch(ctx context.Context, query string, maxResults int) ([]Record, error) {
	body, err := json.Marshal(tavilyRequest{
		APIKey:        g.tavilyKey,
		Query:         query,
		MaxResults:    maxResults,
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.tavilyURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily search failed (status %d)", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	var decoded tavilyResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("invalid tavily response: %w", err)
	}

	var records []Record
	if decoded.Answer != "" {
		records = append(records, Record{
			Title:   "Search Summary",
			Content: decoded.Answer,
			Type:    "summary",
		})
	}
	for _, item := range decoded.Results {
		if item.URL == "" {
			continue
		}
		records = append(records, Record{
			Title:   item.Title,
			Content: item.Content,
			URL:     item.URL,
			Score:   item.Score,
			Type:    "web_search",
		})
	}
	return records, nil
}

func (g *Gateway) duckduckgoSearch(ctx context.Context, query string, maxResults int) ([]Record, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.ddgURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo search failed (status %d)", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing duckduckgo response: %w", err)
	}

	var records []Record
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find(".result__a").First()
		href, _ := link.Attr("href")
		title := strings.TrimSpace(link.Text())
		snippet := strings.TrimSpace(sel.Find(".result__snippet").First().Text())
		if href == "" || title == "" {
			return true
		}
		records = append(records, Record{
			Title:   title,
			Content: snippet,
			URL:     resolveDDGRedirect(href),
			Type:    "web_search",
		})
		return len(records) < maxResults
	})

	return records, nil
}

// resolveDDGRedirect unwraps DuckDuckGo's /l/?uddg= redirect links.
func resolveDDGRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
