package workflow

import (
	"strings"

	"github.com/newsdesk-ai/newsdesk/internal/review"
	"github.com/newsdesk-ai/newsdesk/internal/writer"
)

// mergeIssues combines reviewer feedback into one prioritized list. The
// precedence is fixed: factual errors that would require a retraction come
// first, then the loudest style and editorial problems, then the rest.
func mergeIssues(ed *review.EditorVerdict, fc *review.FactCheckVerdict, auth *review.AuthenticityVerdict) []writer.MergedIssue {
	var merged []writer.MergedIssue

	factAt := func(severity string) {
		if fc == nil {
			return
		}
		for _, issue := range fc.Issues {
			if issue.Severity != severity {
				continue
			}
			desc := issue.Issue
			if issue.Location != "" {
				desc = issue.Location + ": " + desc
			}
			merged = append(merged, writer.MergedIssue{
				Reviewer:    "fact_checker",
				Severity:    severity,
				Description: desc,
				Correction:  issue.Correction,
			})
		}
	}
	authAt := func(severity string) {
		if auth == nil {
			return
		}
		for _, p := range auth.Patterns {
			if p.Severity != severity {
				continue
			}
			desc := p.Pattern
			if p.Location != "" {
				desc += " near " + p.Location
			}
			merged = append(merged, writer.MergedIssue{
				Reviewer:    "authenticity",
				Severity:    severity,
				Description: desc,
				Correction:  p.Suggestion,
			})
		}
	}

	factAt(review.SeverityCritical)
	authAt(review.SeverityHigh)
	if ed != nil {
		for _, issue := range ed.CriticalIssues {
			merged = append(merged, writer.MergedIssue{
				Reviewer:    "editor",
				Severity:    review.SeverityCritical,
				Description: issue,
			})
		}
	}
	factAt(review.SeverityHigh)
	authAt(review.SeverityMedium)

	return merged
}

// needsResearch reports whether the fact-check verdict calls for targeted
// research: a weak overall score, or any serious issue that is about
// sourcing rather than content.
func needsResearch(fc *review.FactCheckVerdict, scoreThreshold int) bool {
	if fc == nil {
		return false
	}
	if fc.Score < scoreThreshold {
		return true
	}
	for _, issue := range fc.Issues {
		if issue.Severity != review.SeverityCritical && issue.Severity != review.SeverityHigh {
			continue
		}
		typeLower := strings.ToLower(issue.Type)
		issueLower := strings.ToLower(issue.Issue)
		if strings.Contains(typeLower, "source") || strings.Contains(typeLower, "citation") ||
			strings.Contains(issueLower, "source") || strings.Contains(issueLower, "citation") {
			return true
		}
	}
	return false
}
