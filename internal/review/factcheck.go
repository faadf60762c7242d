package review

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/newsdesk-ai/newsdesk/internal/llm"
	"github.com/newsdesk-ai/newsdesk/internal/sources"
)

const (
	readyScoreFloor = 60
	maxVerifyURLs   = 10
)

var (
	urlPattern  = regexp.MustCompile(`https?://[^\s)\]>"']+`)
	statPattern = regexp.MustCompile(`(?i)\d[\d,]*(?:\.\d+)?\s*(?:%|percent|million|billion|trillion)`)
)

// SourceVerifier is the subset of the source gateway the fact-checker uses
// to check citations before the model sees the article.
type SourceVerifier interface {
	VerifyURL(ctx context.Context, url string) sources.VerifyResult
	FindAlternativeSources(ctx context.Context, claim, blockedURL string) []sources.Alternative
}

// FactChecker scores factual reliability. Before calling the model it
// verifies every cited URL through the gateway and searches for
// alternative sources when a citation is paywalled, feeding the outcomes
// into the prompt as ground truth.
type FactChecker struct {
	reviewer
	verifier SourceVerifier
}

// NewFactChecker creates the fact-checker role. Verifier may be nil, in
// which case the URL pre-pass is skipped.
func NewFactChecker(provider llm.Provider, model string, verifier SourceVerifier, logger *slog.Logger) *FactChecker {
	return &FactChecker{reviewer: newReviewer(provider, model, logger), verifier: verifier}
}

// Review evaluates the article's factual reliability.
func (f *FactChecker) Review(ctx context.Context, article, topic string) (*FactCheckVerdict, error) {
	urls := extractURLs(article)
	stats := statPattern.FindAllString(article, -1)
	f.logger.Info("fact-check pre-pass", "urls", len(urls), "statistics", len(stats))

	verifications := f.verifySources(ctx, article, urls)

	raw, err := f.complete(ctx, factCheckSystemPrompt, factCheckPrompt(article, topic, verifications))
	if err != nil {
		return nil, err
	}

	var verdict FactCheckVerdict
	if err := llm.ExtractJSON(raw, &verdict); err != nil {
		f.logger.Warn("fact-check response not parseable", "error", err)
		return &FactCheckVerdict{
			Score:       0,
			Ready:       false,
			ParseError:  err.Error(),
			RawResponse: truncate(raw, 2000),
		}, nil
	}

	verdict.Ready = verdict.Score >= readyScoreFloor && verdict.CriticalIssues() == 0
	f.logger.Info("fact-check complete", "score", verdict.Score, "ready", verdict.Ready,
		"issues", len(verdict.Issues), "critical", verdict.CriticalIssues())
	return &verdict, nil
}

// verifySources checks each cited URL and describes the outcome. Blocked
// citations additionally get an alternative-source search so the model can
// suggest replacements instead of flagging the claim outright.
func (f *FactChecker) verifySources(ctx context.Context, article string, urls []string) []string {
	if f.verifier == nil || len(urls) == 0 {
		return nil
	}
	if len(urls) > maxVerifyURLs {
		urls = urls[:maxVerifyURLs]
	}

	var lines []string
	for _, u := range urls {
		result := f.verifier.VerifyURL(ctx, u)
		switch result.Status {
		case sources.VerifyAccessible:
			lines = append(lines, fmt.Sprintf("%s: accessible, title %q", u, result.Title))
		case sources.VerifyBlocked:
			line := fmt.Sprintf("%s: blocked (%s)", u, result.Message)
			if alts := f.verifier.FindAlternativeSources(ctx, claimAround(article, u), u); len(alts) > 0 {
				line += ", alternatives:"
				for _, a := range alts {
					line += fmt.Sprintf(" %s (%s)", a.URL, a.Title)
				}
			}
			lines = append(lines, line)
		default:
			lines = append(lines, fmt.Sprintf("%s: %s (%s)", u, result.Status, result.Message))
		}
	}
	return lines
}

// claimAround returns the text of the sentence leading up to a cited URL,
// used as the search query when hunting for an alternative source.
func claimAround(article, url string) string {
	idx := strings.Index(article, url)
	if idx < 0 {
		return url
	}
	start := idx
	for start > 0 && idx-start < 200 {
		c := article[start-1]
		if c == '.' || c == '\n' || c == '!' || c == '?' {
			break
		}
		start--
	}
	claim := strings.Trim(article[start:idx], " ([:")
	if claim == "" {
		return url
	}
	return claim
}

// extractURLs pulls candidate citation URLs from the article, trimming
// trailing punctuation the regexp captures from surrounding prose.
func extractURLs(article string) []string {
	matches := urlPattern.FindAllString(article, -1)
	seen := make(map[string]bool, len(matches))
	var urls []string
	for _, m := range matches {
		for len(m) > 0 {
			last := m[len(m)-1]
			if last == '.' || last == ',' || last == ';' || last == ':' {
				m = m[:len(m)-1]
				continue
			}
			break
		}
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		urls = append(urls, m)
	}
	return urls
}
