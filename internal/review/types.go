// Package review implements the editorial review panel: an editor, a
// fact-checker, and an authenticity reviewer that each evaluate an article
// draft and return a structured verdict. Reviewers never fail on malformed
// model output; they degrade to a not-ready verdict carrying the raw text.
package review

// Severity levels used by fact-check issues and authenticity patterns.
const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
)

// LineEdit is an exact-text replacement suggested by the editor.
type LineEdit struct {
	Original  string `json:"original"`
	Suggested string `json:"suggested"`
	Reason    string `json:"reason"`
}

// EditorVerdict is the editor's structured assessment of a draft.
type EditorVerdict struct {
	Grade             string     `json:"grade"`
	OverallAssessment string     `json:"overall_assessment"`
	Thesis            string     `json:"thesis"`
	Strengths         []string   `json:"strengths"`
	CriticalIssues    []string   `json:"critical_issues"`
	Improvements      []string   `json:"improvements"`
	LineEdits         []LineEdit `json:"line_edits"`
	RedFlags          []string   `json:"red_flags"`
	Ready             bool       `json:"ready_to_publish"`

	// Set when the model response could not be parsed; Ready is false.
	ParseError  string `json:"parse_error,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
}

// Issue is a single fact-check finding against the article.
type Issue struct {
	Severity   string `json:"severity"`
	Type       string `json:"type"`
	Location   string `json:"location"`
	Issue      string `json:"issue"`
	Correction string `json:"correction"`
	Verified   bool   `json:"verified"`
}

// FactCheckVerdict is the fact-checker's structured assessment.
type FactCheckVerdict struct {
	OverallAssessment   string   `json:"overall_assessment"`
	Score               int      `json:"score"`
	Issues              []Issue  `json:"issues"`
	VerifiedSources     []string `json:"verified_sources"`
	UnverifiedClaims    []string `json:"unverified_claims"`
	RequiredCorrections []string `json:"required_corrections"`
	Ready               bool     `json:"ready_to_publish"`

	ParseError  string `json:"parse_error,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
}

// CriticalIssues counts issues at CRITICAL severity.
func (v *FactCheckVerdict) CriticalIssues() int {
	n := 0
	for _, issue := range v.Issues {
		if issue.Severity == SeverityCritical {
			n++
		}
	}
	return n
}

// Pattern is one detected AI-writing signature instance.
type Pattern struct {
	Pattern    string `json:"pattern"`
	Severity   string `json:"severity"`
	Location   string `json:"location"`
	Suggestion string `json:"suggestion"`
}

// AuthenticityVerdict is the authenticity reviewer's structured assessment.
type AuthenticityVerdict struct {
	OverallAssessment string    `json:"overall_assessment"`
	Score             int       `json:"score"`
	Patterns          []Pattern `json:"ai_patterns_detected"`
	Recommendations   []string  `json:"recommendations"`
	Ready             bool      `json:"ready_to_publish"`

	ParseError  string `json:"parse_error,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
}
