package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type wikiSummaryResponse struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// SearchEncyclopedia looks up an encyclopedic summary for the query via
// the Wikipedia REST API. Unlike the search operations this returns an
// error; callers treat a failed background lookup as skippable.
func (g *Gateway) SearchEncyclopedia(ctx context.Context, query string) (*Summary, error) {
	title := strings.ReplaceAll(strings.TrimSpace(query), " ", "_")
	endpoint := g.wikiURL + url.PathEscape(title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("encyclopedia lookup for %q failed (status %d)", query, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	var decoded wikiSummaryResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("invalid encyclopedia response: %w", err)
	}
	if decoded.Extract == "" {
		return nil, fmt.Errorf("no encyclopedia entry for %q", query)
	}

	return &Summary{
		Title:   decoded.Title,
		Extract: decoded.Extract,
		URL:     decoded.ContentURLs.Desktop.Page,
	}, nil
}
