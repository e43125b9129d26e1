package index

import (
	"context"
	"math"
	"sort"

	"github.com/hanbeop/lawdex/internal/models"
	"github.com/hanbeop/lawdex/pkg/utils"
)

// TFIDFIndex scores documents by cosine similarity between TF-IDF weight
// vectors over a bounded vocabulary. Deterministic: identical input always
// produces identical vocabularies, weights, and orderings.
type TFIDFIndex struct {
	docs    []models.Document
	vocab   map[string]int
	idf     []float64
	vectors [][]float64
}

// BuildTFIDF builds a lexical index over documents. maxVocab bounds the
// vocabulary to the most frequent terms across the corpus (ties broken
// alphabetically); non-positive means unbounded. Building on an empty
// document set yields a valid empty index.
func BuildTFIDF(documents []models.Document, maxVocab int) *TFIDFIndex {
	idx := &TFIDFIndex{
		docs:  append([]models.Document(nil), documents...),
		vocab: make(map[string]int),
	}
	if len(documents) == 0 {
		return idx
	}

	docTokens := make([][]string, len(documents))
	corpusFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for i, d := range documents {
		tokens := tokenize(d.Text)
		docTokens[i] = tokens
		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			corpusFreq[tok]++
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	terms := selectVocabulary(corpusFreq, maxVocab)
	idx.idf = make([]float64, len(terms))
	n := float64(len(documents))
	for i, term := range terms {
		idx.vocab[term] = i
		// Smoothed IDF so terms present in every document keep nonzero weight.
		idx.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	idx.vectors = make([][]float64, len(documents))
	for i, tokens := range docTokens {
		idx.vectors[i] = idx.vectorize(tokens)
	}
	return idx
}

// selectVocabulary returns the index terms in alphabetical order. When
// maxVocab is positive and the corpus has more distinct terms, the most
// frequent terms are kept, ties broken alphabetically for determinism.
func selectVocabulary(corpusFreq map[string]int, maxVocab int) []string {
	terms := make([]string, 0, len(corpusFreq))
	for term := range corpusFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if maxVocab > 0 && len(terms) > maxVocab {
		sort.SliceStable(terms, func(i, j int) bool {
			return corpusFreq[terms[i]] > corpusFreq[terms[j]]
		})
		terms = terms[:maxVocab]
		sort.Strings(terms)
	}
	return terms
}

// vectorize maps tokens to an L2-normalized TF-IDF weight vector.
func (idx *TFIDFIndex) vectorize(tokens []string) []float64 {
	vec := make([]float64, len(idx.idf))
	for _, tok := range tokens {
		if i, ok := idx.vocab[tok]; ok {
			vec[i]++
		}
	}
	for i := range vec {
		vec[i] *= idx.idf[i]
	}
	utils.NormalizeL2(vec)
	return vec
}

// Query ranks all documents against text by cosine similarity. Scores lie in
// [0, 1]; a query sharing no vocabulary terms with the corpus scores 0
// against every document but still returns min(k, Size()) results.
func (idx *TFIDFIndex) Query(ctx context.Context, text string, k int) ([]models.RankedResult, error) {
	if len(idx.docs) == 0 || k <= 0 {
		return nil, nil
	}
	queryVec := idx.vectorize(tokenize(text))
	scored := make([]scoredDoc, len(idx.docs))
	for i, docVec := range idx.vectors {
		scored[i] = scoredDoc{pos: i, score: utils.Dot(queryVec, docVec)}
	}
	return rankTopK(idx.docs, scored, k), nil
}

// Size returns the number of indexed documents.
func (idx *TFIDFIndex) Size() int { return len(idx.docs) }

// Strategy returns the strategy identifier.
func (idx *TFIDFIndex) Strategy() string { return StrategyTFIDF }

// Close is a no-op for the in-memory lexical index.
func (idx *TFIDFIndex) Close() error { return nil }

// VocabularySize returns the number of vocabulary terms, for status reporting.
func (idx *TFIDFIndex) VocabularySize() int { return len(idx.vocab) }
