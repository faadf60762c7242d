package research

import (
	"fmt"
	"strings"
)

const analysisSystemPrompt = `You are a research analyst planning coverage of a news topic.
Given a topic, produce the specific questions a journalist must answer to
write an authoritative article about it. Respond with JSON only:
{"questions": ["question 1", "question 2", ...]}
Produce between 3 and 6 questions.`

const synthesisSystemPrompt = `You are a research analyst assessing whether collected findings
are sufficient to write an authoritative article. Judge coverage, recency,
and sourcing. Respond with JSON only:
{"confidence": <float between 0 and 1>, "gaps": ["unanswered question", ...]}
List a gap only when the findings genuinely do not answer it.`

func analysisPrompt(topic string) string {
	return fmt.Sprintf("Topic: %s\n\nList the research questions.", topic)
}

func synthesisPrompt(topic string, findings []Finding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n\nFindings collected so far:\n\n", topic)
	for i, f := range findings {
		content := f.Content
		if len(content) > 400 {
			content = content[:400]
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n%s\n\n", i+1, f.Source, f.Title, content)
	}
	b.WriteString("Assess the confidence and remaining gaps.")
	return b.String()
}
