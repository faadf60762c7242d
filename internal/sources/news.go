package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type rssFeed struct {
	Channel struct {
		Items []struct {
			Title       string `xml:"title"`
			Link        string `xml:"link"`
			Description string `xml:"description"`
			PubDate     string `xml:"pubDate"`
			Source      string `xml:"source"`
		} `xml:"item"`
	} `xml:"channel"`
}

// SearchNews searches Google News for recent articles on the query.
// Country and lang are ISO codes ("us", "en"); failures degrade to an
// empty result set.
func (g *Gateway) SearchNews(ctx context.Context, query, country, lang string, maxResults int) []Record {
	if maxResults <= 0 {
		maxResults = 10
	}
	if country == "" {
		country = "US"
	}
	if lang == "" {
		lang = "en"
	}

	endpoint := fmt.Sprintf("%s?q=%s&hl=%s&gl=%s&ceid=%s:%s",
		g.newsURL, url.QueryEscape(query), lang, strings.ToUpper(country), strings.ToUpper(country), lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		g.logger.Warn("news search request failed", "query", query, "error", err)
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("news search failed", "query", query, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("news search failed", "query", query, "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		g.logger.Warn("reading news response failed", "query", query, "error", err)
		return nil
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		g.logger.Warn("invalid news feed", "query", query, "error", err)
		return nil
	}

	var records []Record
	for _, item := range feed.Channel.Items {
		if len(records) >= maxResults {
			break
		}
		content := stripTags(item.Description)
		if item.PubDate != "" {
			content = content + " (" + item.PubDate + ")"
		}
		records = append(records, Record{
			Title:   item.Title,
			Content: content,
			URL:     item.Link,
			Type:    "news",
		})
	}
	return records
}

// stripTags drops HTML markup from RSS descriptions.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
