package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON parses a JSON payload out of model output into v. Responses
// often wrap the payload in markdown code fences or surrounding prose;
// callers must never assume well-formed bare JSON. This is the single
// extraction point for every boundary that turns model text into
// structured data.
func ExtractJSON(raw string, v any) error {
	candidate := strings.TrimSpace(stripFences(raw))

	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}

	// Fall back to the outermost object or array embedded in prose.
	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(candidate, pair[0])
		end := strings.LastIndexByte(candidate, pair[1])
		if start >= 0 && end > start {
			if err := json.Unmarshal([]byte(candidate[start:end+1]), v); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("no parseable JSON in response (%d bytes)", len(raw))
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		return s
	}

	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) >= 2 {
			end := len(lines)
			if strings.TrimSpace(lines[end-1]) == "```" {
				end--
			}
			return strings.Join(lines[1:end], "\n")
		}
	}

	return s
}
