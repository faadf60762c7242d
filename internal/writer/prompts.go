package writer

import (
	"fmt"
	"strings"

	"github.com/newsdesk-ai/newsdesk/internal/research"
)

const draftSystemPrompt = `You are an experienced journalist writing for a general audience.
Write a complete, publication-ready article in markdown with a compelling
headline, a clear thesis, and a strong narrative arc. Sourcing rules:
- Every statistic, quote, and non-obvious factual claim must cite a source
  inline as [Source: URL], using only URLs present in the research findings.
- Never invent sources, quotes, numbers, or names.
- Prefer concrete detail from the findings over generalities.
Output the article text only, no commentary.`

const reviseSystemPrompt = `You are an experienced journalist revising your own article under
editorial direction. Address EVERY item of feedback you are given. Keep
what reviewers praised; fix what they flagged. Preserve the [Source: URL]
citation format and never invent new facts or sources. Output the full
revised article only, no commentary.`

func draftPrompt(topic string, findings []research.Finding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n\nResearch findings:\n\n", topic)
	for i, f := range findings {
		content := f.Content
		if len(content) > 600 {
			content = content[:600]
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n%s\n", i+1, f.Source, f.Title, content)
		if f.URL != "" {
			fmt.Fprintf(&b, "URL: %s\n", f.URL)
		}
		b.WriteString("\n")
	}
	b.WriteString("Write the article.")
	return b.String()
}

func revisePrompt(article string, feedback *Feedback, topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n\n", topic)

	if feedback.UserFeedback != "" {
		b.WriteString("HIGHEST PRIORITY, from the human author. Where this conflicts with\nany reviewer item below, this wins:\n")
		fmt.Fprintf(&b, "%s\n\n", feedback.UserFeedback)
	}

	if len(feedback.Combined) > 0 {
		b.WriteString("Reviewer feedback, in priority order:\n")
		for i, issue := range feedback.Combined {
			fmt.Fprintf(&b, "%d. [%s %s] %s", i+1, issue.Reviewer, issue.Severity, issue.Description)
			if issue.Correction != "" {
				fmt.Fprintf(&b, " Fix: %s", issue.Correction)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if feedback.Editor != nil {
		if len(feedback.Editor.Improvements) > 0 {
			b.WriteString("Editor suggestions:\n")
			for _, s := range feedback.Editor.Improvements {
				fmt.Fprintf(&b, "- %s\n", s)
			}
			b.WriteString("\n")
		}
		if len(feedback.Editor.LineEdits) > 0 {
			b.WriteString("Exact line edits:\n")
			for _, e := range feedback.Editor.LineEdits {
				fmt.Fprintf(&b, "- Replace %q with %q (%s)\n", e.Original, e.Suggested, e.Reason)
			}
			b.WriteString("\n")
		}
	}

	if feedback.Authenticity != nil && len(feedback.Authenticity.Recommendations) > 0 {
		b.WriteString("Style guidance:\n")
		for _, r := range feedback.Authenticity.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Current article:\n\n%s", article)
	return b.String()
}
