// Package ingest populates the knowledge base from a directory of text
// and markdown reference material.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/newsdesk-ai/newsdesk/internal/logging"
	"github.com/newsdesk-ai/newsdesk/internal/progress"
	"github.com/newsdesk-ai/newsdesk/internal/vectordb"
)

// chunkSize is the approximate maximum chunk length in bytes. Chunks
// break on paragraph boundaries so a retrieval hit reads coherently.
const chunkSize = 1500

var textExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".rst":      true,
}

// Ingester walks a source directory and loads matching files into the
// knowledge base.
type Ingester struct {
	store    vectordb.KnowledgeStore
	include  []string
	exclude  []string
	reporter progress.Reporter
	logger   *slog.Logger
}

// Options configures an Ingester.
type Options struct {
	Store    vectordb.KnowledgeStore
	Include  []string
	Exclude  []string
	Reporter progress.Reporter
	Logger   *slog.Logger
}

// New creates an Ingester.
func New(opts Options) *Ingester {
	if opts.Reporter == nil {
		opts.Reporter = progress.Silent{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Ingester{
		store:    opts.Store,
		include:  opts.Include,
		exclude:  opts.Exclude,
		reporter: opts.Reporter,
		logger:   opts.Logger,
	}
}

// Stats summarizes one ingestion pass.
type Stats struct {
	Files  int
	Chunks int
}

// IngestDir walks dir, chunks every matching file, adds the chunks to the
// knowledge base, and persists the store to persistDir.
func (ing *Ingester) IngestDir(ctx context.Context, dir, persistDir string) (*Stats, error) {
	files, err := ing.collectFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return &Stats{}, nil
	}

	ing.reporter.Start(len(files), "Ingesting knowledge base")
	defer ing.reporter.Finish()

	stats := &Stats{}
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel, _ := filepath.Rel(dir, path)
		ing.reporter.Update(i+1, rel)

		data, err := os.ReadFile(path)
		if err != nil {
			ing.logger.Warn("skipping unreadable file", "path", path, "error", err)
			continue
		}

		docs := chunkDocuments(rel, string(data))
		if len(docs) == 0 {
			continue
		}
		if err := ing.store.AddDocuments(ctx, docs); err != nil {
			return nil, fmt.Errorf("adding %s: %w", rel, err)
		}
		stats.Files++
		stats.Chunks += len(docs)
	}

	if err := ing.store.Persist(ctx, persistDir); err != nil {
		return nil, fmt.Errorf("persisting knowledge base: %w", err)
	}

	ing.logger.Info("ingestion complete", "files", stats.Files, "chunks", stats.Chunks)
	return stats, nil
}

// collectFiles walks dir and returns the paths matching the include and
// exclude patterns, text-like extensions only.
func (ing *Ingester) collectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !textExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchesAny(rel, ing.include, true) || matchesAny(rel, ing.exclude, false) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return files, nil
}

// matchesAny reports whether rel matches any pattern. An empty pattern
// list returns emptyResult, so includes default to everything and
// excludes default to nothing.
func matchesAny(rel string, patterns []string, emptyResult bool) bool {
	if len(patterns) == 0 {
		return emptyResult
	}
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// chunkDocuments splits a file into paragraph-aligned chunks.
func chunkDocuments(sourcePath, content string) []vectordb.Document {
	chunks := splitChunks(content)
	now := time.Now().UTC()
	title := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))

	docs := make([]vectordb.Document, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, vectordb.Document{
			ID:      fmt.Sprintf("%s#%d", sourcePath, i),
			Content: chunk,
			Metadata: vectordb.DocumentMetadata{
				SourcePath: sourcePath,
				Title:      title,
				Chunk:      i,
				IngestedAt: now,
			},
		})
	}
	return docs
}

// splitChunks groups paragraphs into chunks of at most chunkSize bytes. A
// single paragraph longer than the limit becomes its own oversized chunk
// rather than being cut mid-sentence.
func splitChunks(content string) []string {
	paragraphs := strings.Split(content, "\n\n")

	var chunks []string
	var current strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(p)+2 > chunkSize {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
