// Package embedding turns free text into dense vectors for similarity
// search.
package embedding

import "context"

// Embedder converts text into embedding vectors. Implementations must be
// safe for concurrent use.
type Embedder interface {
	// Embed returns the vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
