package llm

// Role identifies who authored a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a conversation with the model.
type Message struct {
	Role    Role
	Content string
}

// Conversation builds the system+user message pair every agent in the
// pipeline sends: a role instruction followed by the task payload.
func Conversation(system, user string) []Message {
	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
}

// CompletionRequest carries the parameters for a single completion call.
// JSONMode asks the provider to constrain output to a JSON object; the
// reviewers and the research coordinator rely on it.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// CompletionResponse is the provider-normalized result of a completion.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}
