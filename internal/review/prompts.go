package review

import (
	"fmt"
	"strings"
)

const editorSystemPrompt = `You are a demanding senior editor at a respected publication.
Grade the article honestly; most drafts do not deserve an A. Evaluate
structure, argument, clarity, evidence, and style. Respond with JSON only:
{
  "grade": "<letter grade from F to A+>",
  "overall_assessment": "<2-3 sentence verdict>",
  "thesis": "<the article's thesis in one sentence, or an empty string if it has none>",
  "strengths": ["..."],
  "critical_issues": ["<ranked, most damaging first>"],
  "improvements": ["<specific, actionable suggestions>"],
  "line_edits": [{"original": "<exact text from the article>", "suggested": "<replacement>", "reason": "<why>"}],
  "red_flags": ["<anything that could embarrass the publication>"]
}`

const editorPriorContext = `A fact-checker has already reviewed this draft; their summary follows as
read-only context. Do NOT re-litigate sourcing or accuracy, that is their
job. Focus on editorial quality.`

const factCheckSystemPrompt = `You are a rigorous fact-checker. Verify every factual claim, statistic,
date, name, and citation in the article. Distinguish verified claims from
plausible-but-unverified ones. Respond with JSON only:
{
  "overall_assessment": "<summary of factual reliability>",
  "score": <0-100>,
  "issues": [{"severity": "CRITICAL|HIGH|MEDIUM|LOW", "type": "<e.g. unverified_source, wrong_statistic, missing_citation>", "location": "<the claim text or where it appears>", "issue": "<what is wrong>", "correction": "<how to fix it>", "verified": false}],
  "verified_sources": ["<urls that check out>"],
  "unverified_claims": ["<claims that could not be confirmed>"],
  "required_corrections": ["<must-fix items before publication>"]
}
CRITICAL means publishing it would be factually wrong or misattributed.`

const authenticitySystemPrompt = `You are an authenticity reviewer detecting machine-written prose. Look
for telltale signatures: formulaic transitions, uniform paragraph rhythm,
hedging boilerplate, overused intensifiers, listicle cadence in running
text, and a voice that never commits. Respond with JSON only:
{
  "overall_assessment": "<how the article reads>",
  "score": <0-100, 100 reads fully human>,
  "ai_patterns_detected": [{"pattern": "<name>", "severity": "HIGH|MEDIUM|LOW", "location": "<example text>", "suggestion": "<how to fix>"}],
  "recommendations": ["<overall style guidance>"]
}`

func editorPrompt(article, topic string, prior *FactCheckVerdict) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n\n", topic)
	if prior != nil {
		b.WriteString(editorPriorContext)
		fmt.Fprintf(&b, "\n\nFact-check summary (score %d/100): %s\n", prior.Score, prior.OverallAssessment)
		if len(prior.RequiredCorrections) > 0 {
			fmt.Fprintf(&b, "Outstanding corrections: %s\n", strings.Join(prior.RequiredCorrections, "; "))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Article:\n\n%s", article)
	return b.String()
}

func factCheckPrompt(article, topic string, verifications []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n\n", topic)
	if len(verifications) > 0 {
		b.WriteString("URL verification results (already performed, treat as ground truth):\n")
		for _, v := range verifications {
			fmt.Fprintf(&b, "- %s\n", v)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Article:\n\n%s", article)
	return b.String()
}

func authenticityPrompt(article, topic string) string {
	return fmt.Sprintf("Topic: %s\n\nArticle:\n\n%s", topic, article)
}
