// Package research turns a topic into an accumulated set of findings: an
// iterative loop that generates research questions, dispatches them to the
// source gateway, and asks a synthesis step to score confidence and name
// gaps until the topic is covered. It also supports narrow targeted
// research driven by specific flagged claims mid-revision.
package research

import "time"

// Finding source identifiers.
const (
	SourceWeb           = "internet_search"
	SourceNews          = "news_search"
	SourceEncyclopedia  = "wikipedia"
	SourceKnowledgeBase = "knowledge_base"
	SourceTargeted      = "targeted_internet_search"
)

// Finding is one normalized research result. Immutable once produced;
// accumulated in discovery order.
type Finding struct {
	Source       string  `json:"source"`
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	URL          string  `json:"url,omitempty"`
	Score        float64 `json:"score,omitempty"`
	Type         string  `json:"type"`
	RelatedClaim string  `json:"related_claim,omitempty"`
	Priority     string  `json:"priority,omitempty"`
}

// Synthesis is the confidence/gap assessment produced after each iteration.
type Synthesis struct {
	Confidence float64  `json:"confidence"`
	Gaps       []string `json:"gaps"`
}

// Result is the complete outcome of a research session for one topic.
type Result struct {
	Topic      string    `json:"topic"`
	Findings   []Finding `json:"findings"`
	Synthesis  Synthesis `json:"synthesis"`
	Confidence float64   `json:"confidence"`
	Iterations int       `json:"iterations"`
	Timestamp  time.Time `json:"timestamp"`
}

// Request is a targeted research request for one flagged claim.
type Request struct {
	Claim      string `json:"claim"`
	Issue      string `json:"issue"`
	Correction string `json:"correction,omitempty"`
	Priority   string `json:"priority"`
}
