package index

import (
	"context"
	"fmt"

	"github.com/hanbeop/lawdex/internal/embedding"
	"github.com/hanbeop/lawdex/internal/models"
	"github.com/hanbeop/lawdex/pkg/utils"
)

// EmbeddingIndex scores documents by cosine similarity between fixed-width
// embeddings. Documents are split into overlapping word windows; a
// document's score is the maximum over its windows.
type EmbeddingIndex struct {
	docs     []models.Document
	embedder embedding.Embedder
	chunks   []chunk
	vectors  [][]float64
}

// BuildEmbedding builds a semantic index over documents using the given
// encoder. Building embeds every chunk once; queries embed only the query
// text. The index snapshots document texts at build time; it does not close
// the embedder, which the caller may share across rebuilds.
func BuildEmbedding(ctx context.Context, documents []models.Document, embedder embedding.Embedder, chunkSize, chunkOverlap int) (*EmbeddingIndex, error) {
	idx := &EmbeddingIndex{
		docs:     append([]models.Document(nil), documents...),
		embedder: embedder,
	}
	if len(documents) == 0 {
		return idx, nil
	}

	c := newChunker(chunkSize, chunkOverlap)
	for i, d := range documents {
		chunks := c.split(d.ID, i, d.Text)
		if len(chunks) == 0 {
			// Keep every document addressable even when its text is blank.
			chunks = []chunk{{id: d.ID + "_0", docPos: i, text: d.Text}}
		}
		idx.chunks = append(idx.chunks, chunks...)
	}

	texts := make([]string, len(idx.chunks))
	for i, ch := range idx.chunks {
		texts[i] = ch.text
	}
	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(idx.chunks) {
		return nil, fmt.Errorf("encoder returned %d vectors for %d chunks", len(vectors), len(idx.chunks))
	}
	idx.vectors = vectors
	return idx, nil
}

// Query embeds text and ranks documents by their best-scoring chunk.
func (idx *EmbeddingIndex) Query(ctx context.Context, text string, k int) ([]models.RankedResult, error) {
	if len(idx.docs) == 0 || k <= 0 {
		return nil, nil
	}
	queryVec, err := idx.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	best := make([]float64, len(idx.docs))
	for i, ch := range idx.chunks {
		score := utils.Dot(queryVec, idx.vectors[i])
		if score > best[ch.docPos] {
			best[ch.docPos] = score
		}
	}
	scored := make([]scoredDoc, len(idx.docs))
	for i, s := range best {
		scored[i] = scoredDoc{pos: i, score: s}
	}
	return rankTopK(idx.docs, scored, k), nil
}

// Size returns the number of indexed documents.
func (idx *EmbeddingIndex) Size() int { return len(idx.docs) }

// Strategy returns the strategy identifier.
func (idx *EmbeddingIndex) Strategy() string { return StrategyEmbedding }

// Close is a no-op; the embedder is owned by the caller.
func (idx *EmbeddingIndex) Close() error { return nil }
