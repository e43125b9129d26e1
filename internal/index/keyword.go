package index

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/hanbeop/lawdex/internal/models"
)

// KeywordIndex scores documents with Bleve match queries (BM25-style).
// Unlike the cosine strategies its scores are not bounded to [0, 1], and
// documents matching no query term are omitted, so a query may return fewer
// than k results.
type KeywordIndex struct {
	docs  []models.Document
	index bleve.Index
}

// keywordDoc is the shape indexed into Bleve.
type keywordDoc struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// BuildKeyword builds an in-memory Bleve index over document label and text.
func BuildKeyword(documents []models.Document) (*KeywordIndex, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textField := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase + unicode tokenize, no stemming. Hangul
	// statute terms must match exactly as written.
	textField.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textField)
	docMapping.AddFieldMappingsAt("label", textField)
	im.DefaultMapping = docMapping

	bleveIndex, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("create keyword index: %w", err)
	}
	idx := &KeywordIndex{
		docs:  append([]models.Document(nil), documents...),
		index: bleveIndex,
	}
	for _, d := range documents {
		if err := bleveIndex.Index(d.ID, keywordDoc{Label: d.Label, Text: d.Text}); err != nil {
			_ = bleveIndex.Close()
			return nil, fmt.Errorf("index document %s: %w", d.ID, err)
		}
	}
	return idx, nil
}

// Query runs a match query over all fields and returns matching documents
// ranked by Bleve score; ties keep original document order.
func (idx *KeywordIndex) Query(ctx context.Context, text string, k int) ([]models.RankedResult, error) {
	if len(idx.docs) == 0 || k <= 0 {
		return nil, nil
	}
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(text))
	req.Size = len(idx.docs)
	res, err := idx.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	scoreByID := make(map[string]float64, len(res.Hits))
	for _, hit := range res.Hits {
		scoreByID[hit.ID] = hit.Score
	}
	// Walk documents in corpus order so that the stable sort inside rankTopK
	// preserves that order on score ties.
	var scored []scoredDoc
	for i, d := range idx.docs {
		if s, ok := scoreByID[d.ID]; ok {
			scored = append(scored, scoredDoc{pos: i, score: s})
		}
	}
	return rankTopK(idx.docs, scored, k), nil
}

// Size returns the number of indexed documents.
func (idx *KeywordIndex) Size() int { return len(idx.docs) }

// Strategy returns the strategy identifier.
func (idx *KeywordIndex) Strategy() string { return StrategyKeyword }

// Close releases the underlying Bleve index.
func (idx *KeywordIndex) Close() error { return idx.index.Close() }
