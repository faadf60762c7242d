package research

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Cache persists one ResearchResult per normalized topic as a JSON file.
// Existence is the only invalidation policy.
type Cache struct {
	dir string
}

// NewCache creates a cache rooted at dir. The directory is created lazily
// on the first write.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// normalizeTopic maps a topic to a filesystem-safe cache key.
func normalizeTopic(topic string) string {
	topic = strings.ToLower(strings.TrimSpace(topic))
	var b strings.Builder
	for _, r := range topic {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	return b.String()
}

func (c *Cache) path(topic string) string {
	return filepath.Join(c.dir, normalizeTopic(topic)+".json")
}

// Get returns the cached result for the topic, or false when absent or
// unreadable.
func (c *Cache) Get(topic string) (*Result, bool) {
	data, err := os.ReadFile(c.path(topic))
	if err != nil {
		return nil, false
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// Put writes the result to the cache.
func (c *Cache) Put(result *Result) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(result.Topic), data, 0o644)
}
