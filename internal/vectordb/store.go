package vectordb

import (
	"context"
	"time"
)

// Document is one reference text held in the knowledge base.
type Document struct {
	ID       string
	Content  string
	Metadata DocumentMetadata
}

// DocumentMetadata carries provenance for a knowledge-base document.
type DocumentMetadata struct {
	SourcePath string
	Title      string
	Chunk      int
	IngestedAt time.Time
}

// SearchResult pairs a document with its similarity to the query.
type SearchResult struct {
	Document   Document
	Similarity float32
}

// KnowledgeStore defines the interface for the vector-backed knowledge base.
type KnowledgeStore interface {
	// AddDocuments adds or updates documents in the store.
	AddDocuments(ctx context.Context, docs []Document) error

	// Search performs a semantic search using the query text.
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)

	// Persist saves the store's data to the given directory.
	Persist(ctx context.Context, dir string) error

	// Load restores the store's data from the given directory.
	Load(ctx context.Context, dir string) error

	// Count returns the total number of documents in the store.
	Count() int
}
