package research

import (
	"context"
	"strings"

	"github.com/newsdesk-ai/newsdesk/internal/review"
)

// queryTokens is how many leading tokens of a claim become the search
// query. Claim text is already natural language, so a crude prefix works.
const queryTokens = 5

// TargetedResearch runs one bounded web search per request and returns the
// results as findings tagged with the claim they relate to. A failed
// search for one request never aborts the rest.
func (c *Coordinator) TargetedResearch(ctx context.Context, requests []Request) []Finding {
	var findings []Finding
	for _, req := range requests {
		query := claimQuery(req.Claim)
		if query == "" {
			continue
		}
		c.logger.Info("targeted research", "claim", req.Claim, "query", query, "priority", req.Priority)

		records := c.gateway.SearchWeb(ctx, query, c.cfg.MaxResultsPerQuery)
		if len(records) == 0 {
			c.logger.Warn("targeted search returned nothing", "query", query)
			continue
		}
		for _, r := range records {
			findings = append(findings, Finding{
				Source:       SourceTargeted,
				Title:        r.Title,
				Content:      r.Content,
				URL:          r.URL,
				Score:        r.Score,
				Type:         SourceTargeted,
				RelatedClaim: req.Claim,
				Priority:     req.Priority,
			})
		}
	}
	return findings
}

func claimQuery(claim string) string {
	tokens := strings.Fields(claim)
	if len(tokens) > queryTokens {
		tokens = tokens[:queryTokens]
	}
	return strings.Join(tokens, " ")
}

// ExtractRequests derives targeted research requests from reviewer
// feedback: fact-check issues at CRITICAL/HIGH severity that look like
// sourcing problems, plus editor improvement suggestions that mention
// research or citations.
func ExtractRequests(factCheck *review.FactCheckVerdict, editor *review.EditorVerdict) []Request {
	var requests []Request

	if factCheck != nil {
		for _, issue := range factCheck.Issues {
			if issue.Severity != review.SeverityCritical && issue.Severity != review.SeverityHigh {
				continue
			}
			if !isSourcingIssue(issue) {
				continue
			}
			requests = append(requests, Request{
				Claim:      issue.Location,
				Issue:      issue.Issue,
				Correction: issue.Correction,
				Priority:   strings.ToLower(issue.Severity),
			})
		}
	}

	if editor != nil {
		for _, improvement := range editor.Improvements {
			lower := strings.ToLower(improvement)
			if strings.Contains(lower, "research") ||
				strings.Contains(lower, "source") ||
				strings.Contains(lower, "citation") {
				requests = append(requests, Request{
					Claim:    improvement,
					Issue:    improvement,
					Priority: "medium",
				})
			}
		}
	}

	return requests
}

// isSourcingIssue reports whether a fact-check issue is about missing or
// unverifiable sourcing rather than the content itself.
func isSourcingIssue(issue review.Issue) bool {
	typeLower := strings.ToLower(issue.Type)
	issueLower := strings.ToLower(issue.Issue)
	return strings.Contains(typeLower, "source") ||
		strings.Contains(typeLower, "citation") ||
		strings.Contains(issueLower, "source") ||
		strings.Contains(issueLower, "citation")
}
