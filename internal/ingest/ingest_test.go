package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/newsdesk-ai/newsdesk/internal/vectordb"
)

type memoryStore struct {
	docs      []vectordb.Document
	persisted string
}

func (m *memoryStore) AddDocuments(_ context.Context, docs []vectordb.Document) error {
	m.docs = append(m.docs, docs...)
	return nil
}

func (m *memoryStore) Search(context.Context, string, int) ([]vectordb.SearchResult, error) {
	return nil, nil
}

func (m *memoryStore) Persist(_ context.Context, dir string) error {
	m.persisted = dir
	return nil
}

func (m *memoryStore) Load(context.Context, string) error { return nil }

func (m *memoryStore) Count() int { return len(m.docs) }

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIngestDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "# Notes\n\nFirst paragraph.\n\nSecond paragraph.")
	writeFile(t, dir, "data.txt", "Plain text reference.")
	writeFile(t, dir, "image.png", "binary junk")
	writeFile(t, dir, "drafts/skip.md", "excluded content")

	store := &memoryStore{}
	ing := New(Options{Store: store, Exclude: []string{"drafts/**"}})

	stats, err := ing.IngestDir(context.Background(), dir, filepath.Join(dir, ".kb"))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Files != 2 {
		t.Errorf("files = %d, want 2", stats.Files)
	}
	if store.persisted != filepath.Join(dir, ".kb") {
		t.Errorf("persist dir = %q", store.persisted)
	}

	for _, d := range store.docs {
		if strings.Contains(d.Metadata.SourcePath, "skip") {
			t.Errorf("excluded file ingested: %+v", d.Metadata)
		}
		if d.ID == "" || d.Content == "" {
			t.Errorf("malformed document: %+v", d)
		}
	}
}

func TestIngestDirIncludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.md", "kept")
	writeFile(t, dir, "drop.txt", "dropped")

	store := &memoryStore{}
	ing := New(Options{Store: store, Include: []string{"**/*.md", "*.md"}})

	stats, err := ing.IngestDir(context.Background(), dir, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Files != 1 {
		t.Errorf("files = %d, want 1", stats.Files)
	}
	if len(store.docs) != 1 || store.docs[0].Metadata.SourcePath != "keep.md" {
		t.Errorf("docs = %+v", store.docs)
	}
}

func TestIngestDirEmpty(t *testing.T) {
	store := &memoryStore{}
	ing := New(Options{Store: store})

	stats, err := ing.IngestDir(context.Background(), t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Files != 0 || stats.Chunks != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if store.persisted != "" {
		t.Error("persist called with nothing ingested")
	}
}

func TestSplitChunks(t *testing.T) {
	long := strings.Repeat("word ", 400) // ~2000 bytes, one paragraph
	content := "Short intro.\n\n" + long + "\n\nClosing note."

	chunks := splitChunks(content)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if chunks[0] != "Short intro." {
		t.Errorf("chunk 0 = %q", chunks[0])
	}
	if !strings.HasPrefix(chunks[1], "word") || len(chunks[1]) < chunkSize {
		t.Errorf("oversized paragraph should stay one chunk, len = %d", len(chunks[1]))
	}
	if chunks[2] != "Closing note." {
		t.Errorf("chunk 2 = %q", chunks[2])
	}
}

func TestSplitChunksGroupsSmallParagraphs(t *testing.T) {
	content := "One.\n\nTwo.\n\nThree."
	chunks := splitChunks(content)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0] != "One.\n\nTwo.\n\nThree." {
		t.Errorf("chunk = %q", chunks[0])
	}
}
