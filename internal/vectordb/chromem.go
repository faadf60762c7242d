package vectordb

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/newsdesk-ai/newsdesk/internal/embeddings"
)

const (
	collectionName = "knowledge"
	snapshotFile   = "chromem.gob.gz"
	defaultLimit   = 10
)

// ChromemStore is the chromem-go backed knowledge base. It lives in
// memory and round-trips to disk as a single compressed snapshot.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// NewChromemStore creates an empty store using the given embedder.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}
	return &ChromemStore{db: db, collection: col, embedFunc: ef}, nil
}

func (s *ChromemStore) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	converted := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		converted[i] = chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: doc.Metadata.toMap(),
		}
	}
	return s.collection.AddDocuments(ctx, converted, 1)
}

func (s *ChromemStore) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	// chromem-go rejects nResults larger than the collection.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	limit = min(limit, count)

	hits, err := s.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying knowledge base: %w", err)
	}

	results := make([]SearchResult, len(hits))
	for i, h := range hits {
		results[i] = SearchResult{
			Document: Document{
				ID:       h.ID,
				Content:  h.Content,
				Metadata: metadataFromMap(h.Metadata),
			},
			Similarity: h.Similarity,
		}
	}
	return results, nil
}

// Persist writes the whole store as one snapshot file under dir.
func (s *ChromemStore) Persist(ctx context.Context, dir string) error {
	return s.db.ExportToFile(filepath.Join(dir, snapshotFile), true, "")
}

// Load replaces the store contents with the snapshot under dir.
func (s *ChromemStore) Load(ctx context.Context, dir string) error {
	if err := s.db.ImportFromFile(filepath.Join(dir, snapshotFile), ""); err != nil {
		return fmt.Errorf("importing snapshot: %w", err)
	}

	// Import rebuilt the collections, so the old handle is stale.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q missing after import", collectionName)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

func (m DocumentMetadata) toMap() map[string]string {
	return map[string]string{
		"source_path": m.SourcePath,
		"title":       m.Title,
		"chunk":       strconv.Itoa(m.Chunk),
		"ingested_at": m.IngestedAt.Format(time.RFC3339),
	}
}

func metadataFromMap(m map[string]string) DocumentMetadata {
	chunk, _ := strconv.Atoi(m["chunk"])
	ingestedAt, _ := time.Parse(time.RFC3339, m["ingested_at"])
	return DocumentMetadata{
		SourcePath: m["source_path"],
		Title:      m["title"],
		Chunk:      chunk,
		IngestedAt: ingestedAt,
	}
}
