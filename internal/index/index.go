// Package index builds relevance indexes over retrievable documents and
// answers top-k similarity queries.
//
// Three strategies are available, selected by deployment profile: tfidf
// (lexical, deterministic, no external service), embedding (semantic, via an
// encoder), and keyword (Bleve match scoring). All strategies share the same
// contract: an index built on zero documents is valid and returns empty
// results; results are sorted by descending score with original document
// order preserved on ties; an index is rebuilt wholesale on any corpus
// change, never patched incrementally.
package index

import (
	"context"
	"sort"

	"github.com/hanbeop/lawdex/internal/models"
)

// Strategy names accepted in configuration.
const (
	StrategyTFIDF     = "tfidf"
	StrategyEmbedding = "embedding"
	StrategyKeyword   = "keyword"
)

// Index answers top-k similarity queries over a fixed document snapshot.
// A completed index is immutable; concurrent queries are safe.
type Index interface {
	// Query returns up to min(k, Size()) results sorted by descending score,
	// ties broken by original document order. An empty index returns an
	// empty slice, not an error.
	Query(ctx context.Context, text string, k int) ([]models.RankedResult, error)
	Size() int
	Strategy() string
	Close() error
}

// scoredDoc pairs a document position with its similarity score.
type scoredDoc struct {
	pos   int
	score float64
}

// rankTopK sorts scored documents by descending score (stable, so equal
// scores keep document order), truncates to k, and assigns 0-based ranks.
func rankTopK(docs []models.Document, scored []scoredDoc, k int) []models.RankedResult {
	if k <= 0 || len(scored) == 0 {
		return nil
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if k > len(scored) {
		k = len(scored)
	}
	results := make([]models.RankedResult, k)
	for i := 0; i < k; i++ {
		results[i] = models.RankedResult{
			Document: docs[scored[i].pos],
			Score:    scored[i].score,
			Rank:     i,
		}
	}
	return results
}
