package sources

// Record is one normalized result from any search capability.
type Record struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	URL     string  `json:"url,omitempty"`
	Score   float64 `json:"score,omitempty"`
	Type    string  `json:"type"`
}

// Summary is an encyclopedic background lookup result.
type Summary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	URL     string `json:"url"`
}

// Page is the extracted content of a fetched web page.
type Page struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// VerifyStatus classifies the outcome of a URL verification.
type VerifyStatus string

const (
	VerifyAccessible VerifyStatus = "accessible"
	VerifyBlocked    VerifyStatus = "blocked"
	VerifyTimeout    VerifyStatus = "timeout"
	VerifyError      VerifyStatus = "error"
)

// VerifyResult describes whether a cited URL is reachable and what it contains.
type VerifyResult struct {
	URL        string       `json:"url"`
	Status     VerifyStatus `json:"status"`
	StatusCode int          `json:"status_code,omitempty"`
	Title      string       `json:"title,omitempty"`
	Snippet    string       `json:"snippet,omitempty"`
	Message    string       `json:"message,omitempty"`
}

// Accessible reports whether the verification found a readable page.
func (r VerifyResult) Accessible() bool {
	return r.Status == VerifyAccessible
}

// Alternative is a replacement source found for a claim whose original
// citation is blocked.
type Alternative struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}
