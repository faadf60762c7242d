// Package embeddings turns text into vectors for the knowledge base used
// during research.
package embeddings

import "context"

// Embedder produces embedding vectors for batches of text.
type Embedder interface {
	// Embed returns one vector per input text, in order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions reports the vector width this embedder produces.
	Dimensions() int

	// Name identifies the embedding model.
	Name() string
}
