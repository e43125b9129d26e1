// Package retrieve turns ranked similarity hits into analyst-facing output:
// context blocks for an external reasoning service and deterministic local
// summaries when no such service is configured or reachable.
package retrieve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hanbeop/lawdex/internal/index"
	"github.com/hanbeop/lawdex/internal/models"
	"github.com/hanbeop/lawdex/pkg/utils"
)

// ErrNoProvisions signals that retrieval produced no relevant provisions,
// either because the corpus is empty or nothing matched. Callers render a
// specific message instead of an empty analysis.
var ErrNoProvisions = errors.New("no relevant provisions found")

// DefaultExcerptRunes bounds each result's contribution to an assembled
// context block.
const DefaultExcerptRunes = 400

// Retriever answers scenario queries against a relevance index.
type Retriever struct {
	index index.Index
}

// NewRetriever wraps an index for scenario retrieval.
func NewRetriever(idx index.Index) *Retriever {
	return &Retriever{index: idx}
}

// Retrieve returns up to k ranked results for the scenario. An empty index
// yields an empty slice, not an error.
func (r *Retriever) Retrieve(ctx context.Context, scenario string, k int) ([]models.RankedResult, error) {
	if r == nil || r.index == nil {
		return nil, nil
	}
	results, err := r.index.Query(ctx, scenario, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	return results, nil
}

// AssembleContext concatenates result texts into a single bounded block with
// numbered citation prefixes, each excerpt truncated to excerptRunes runes.
// Returns ErrNoProvisions when results is empty.
func AssembleContext(results []models.RankedResult, excerptRunes int) (string, error) {
	if len(results) == 0 {
		return "", ErrNoProvisions
	}
	if excerptRunes <= 0 {
		excerptRunes = DefaultExcerptRunes
	}
	var b strings.Builder
	b.WriteString("관련 법령:\n\n")
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n%s\n\n", i+1, r.Document.Label, utils.TruncateRunes(r.Document.Text, excerptRunes))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Analyzer produces prose from a scenario and its ranked supporting
// provisions. Implementations must not reorder results.
type Analyzer interface {
	// Analyze returns a legal analysis of the scenario grounded in results.
	Analyze(ctx context.Context, scenario string, results []models.RankedResult) (string, error)
	// Summarize returns a reader-facing summary of the provisions themselves;
	// subject names the statute of interest, empty for a corpus-wide summary.
	Summarize(ctx context.Context, subject string, results []models.RankedResult) (string, error)
}
