// Package embedding provides text embedding for the semantic index profile.
package embedding

import "context"

// Embedder produces vector embeddings for text. Implementations return
// L2-normalized vectors so inner product equals cosine similarity.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
	Dimensions() int
	Close() error
}
