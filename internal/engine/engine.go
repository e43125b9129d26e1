// Package engine owns the corpus lifecycle: loading statutes, deriving
// documents, building the relevance index, and answering search, analysis
// and summary requests against an immutable snapshot.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hanbeop/lawdex/internal/corpus"
	"github.com/hanbeop/lawdex/internal/embedding"
	"github.com/hanbeop/lawdex/internal/index"
	"github.com/hanbeop/lawdex/internal/models"
	"github.com/hanbeop/lawdex/internal/retrieve"
	"github.com/hanbeop/lawdex/internal/storage"
)

// Default result counts per analysis mode, applied when a query leaves TopK
// unset. The local summary lists fewer provisions than the prompt context
// sent to the external service.
const (
	defaultLocalTopK    = 3
	defaultExternalTopK = 5
	summarySubjectTopK  = 10
	summaryCorpusTopK   = 15
)

// defaultSummarySeed retrieves a corpus-wide spread of provisions when no
// statute name is given.
const defaultSummarySeed = "공정거래 하도급 상생협력"

// noProvisionsMessage is shown instead of an analysis when retrieval finds
// nothing, so callers see why rather than an empty block.
const noProvisionsMessage = "관련 법령 데이터가 없습니다. 먼저 데이터를 수집해주세요."

// Options configure an Engine.
type Options struct {
	// Strategy selects the index implementation: tfidf (default), embedding,
	// or keyword.
	Strategy string
	// MaxVocabulary bounds the tfidf vocabulary; non-positive means unbounded.
	MaxVocabulary int
	// ChunkSize/ChunkOverlap are word-window parameters for the embedding
	// strategy.
	ChunkSize    int
	ChunkOverlap int
	// Embedder is required for the embedding strategy and shared across
	// rebuilds.
	Embedder embedding.Embedder
	// External is the external analyzer; nil means external mode always
	// falls back to the local analyzer.
	External retrieve.Analyzer
	Logger   *zap.Logger
}

// snapshot is one immutable generation of the corpus. Built off to the side
// and swapped in atomically, never mutated after publication. readers pins
// the snapshot while a query runs against its index, so a retired snapshot
// is closed only after its last in-flight query returns.
type snapshot struct {
	statutes  []models.Statute
	documents []models.Document
	index     index.Index
	builtAt   time.Time
	readers   sync.WaitGroup
}

// Status reports the engine's current corpus generation.
type Status struct {
	StatuteCount  int       `json:"statute_count"`
	DocumentCount int       `json:"document_count"`
	Strategy      string    `json:"strategy"`
	LastReload    time.Time `json:"last_reload,omitempty"`
	Ready         bool      `json:"ready"`
}

// Engine is the explicit corpus handle. All reads go through the current
// snapshot under a read lock; Reload builds a complete replacement before
// taking the write lock for the pointer swap.
type Engine struct {
	store  storage.StatuteStore
	opts   Options
	local  *retrieve.LocalAnalyzer
	logger *zap.Logger

	mu   sync.RWMutex
	snap *snapshot
}

// New creates an engine over the given store. The engine starts with no
// snapshot and behaves as an empty corpus until the first Reload.
func New(store storage.StatuteStore, opts Options) *Engine {
	if opts.Strategy == "" {
		opts.Strategy = index.StrategyTFIDF
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:  store,
		opts:   opts,
		local:  retrieve.NewLocalAnalyzer(),
		logger: logger,
	}
}

// Reload loads the statute snapshot from storage, derives documents, builds
// a fresh index and swaps it in. Concurrent queries keep using the previous
// snapshot until the swap; they never observe a partially built index.
func (e *Engine) Reload(ctx context.Context) error {
	statutes, err := e.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	documents := corpus.NewBuilder(corpus.WithLogger(e.logger)).Build(statutes)

	idx, err := e.buildIndex(ctx, documents)
	if err != nil {
		return fmt.Errorf("build %s index: %w", e.opts.Strategy, err)
	}

	next := &snapshot{
		statutes:  statutes,
		documents: documents,
		index:     idx,
		builtAt:   time.Now(),
	}

	e.mu.Lock()
	prev := e.snap
	e.snap = next
	e.mu.Unlock()

	if prev != nil {
		// Queries pinned to the retired snapshot keep running against it;
		// close its index only once they have all returned.
		go func() {
			prev.readers.Wait()
			if prev.index != nil {
				if err := prev.index.Close(); err != nil {
					e.logger.Warn("close previous index", zap.Error(err))
				}
			}
		}()
	}
	e.logger.Info("corpus reloaded",
		zap.Int("statutes", len(statutes)),
		zap.Int("documents", len(documents)),
		zap.String("strategy", e.opts.Strategy))
	return nil
}

func (e *Engine) buildIndex(ctx context.Context, documents []models.Document) (index.Index, error) {
	switch e.opts.Strategy {
	case index.StrategyTFIDF:
		return index.BuildTFIDF(documents, e.opts.MaxVocabulary), nil
	case index.StrategyEmbedding:
		if e.opts.Embedder == nil {
			return nil, fmt.Errorf("embedding strategy requires an encoder")
		}
		return index.BuildEmbedding(ctx, documents, e.opts.Embedder, e.opts.ChunkSize, e.opts.ChunkOverlap)
	case index.StrategyKeyword:
		return index.BuildKeyword(documents)
	default:
		return nil, fmt.Errorf("unknown index strategy %q", e.opts.Strategy)
	}
}

// current returns the live snapshot, which may be nil before the first
// Reload. The returned snapshot is not pinned; callers that query its index
// must use acquire instead.
func (e *Engine) current() *snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// acquire returns the live snapshot pinned against close, plus a release
// func the caller must invoke when done with the index. A nil snapshot
// (before the first Reload) comes with a no-op release.
func (e *Engine) acquire() (*snapshot, func()) {
	e.mu.RLock()
	snap := e.snap
	if snap != nil {
		snap.readers.Add(1)
	}
	e.mu.RUnlock()
	if snap == nil {
		return nil, func() {}
	}
	return snap, func() { snap.readers.Done() }
}

// Search runs a scenario query and returns ranked results with timing.
func (e *Engine) Search(ctx context.Context, query models.ScenarioQuery) (models.SearchResponse, error) {
	if err := query.Validate(); err != nil {
		return models.SearchResponse{}, err
	}
	start := time.Now()
	resp := models.SearchResponse{Scenario: query.Scenario, Results: []models.RankedResult{}}

	snap, release := e.acquire()
	defer release()
	if snap != nil && snap.index != nil {
		results, err := snap.index.Query(ctx, query.Scenario, query.TopK)
		if err != nil {
			return models.SearchResponse{}, fmt.Errorf("search: %w", err)
		}
		if results != nil {
			resp.Results = results
		}
	}
	resp.Total = len(resp.Results)
	resp.QueryTime = time.Since(start).Milliseconds()
	return resp, nil
}

// Analyze retrieves provisions relevant to the scenario and runs the
// requested analyzer over them. In external mode any service failure
// degrades to the local analyzer, with the cause recorded in the result's
// FallbackReason rather than returned as an error.
func (e *Engine) Analyze(ctx context.Context, query models.ScenarioQuery) (models.AnalysisResult, error) {
	if query.TopK <= 0 {
		if query.Mode == models.ModeExternal {
			query.TopK = defaultExternalTopK
		} else {
			query.TopK = defaultLocalTopK
		}
	}
	if err := query.Validate(); err != nil {
		return models.AnalysisResult{}, err
	}

	results, err := e.retrieveResults(ctx, query.Scenario, query.TopK)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	if len(results) == 0 {
		return models.AnalysisResult{Text: noProvisionsMessage, Mode: models.ModeLocal}, nil
	}

	if query.Mode == models.ModeExternal {
		if e.opts.External == nil {
			return e.analyzeLocal(ctx, query.Scenario, results, "external analyzer not configured")
		}
		text, err := e.opts.External.Analyze(ctx, query.Scenario, results)
		if err != nil {
			e.logger.Warn("external analysis failed, falling back to local", zap.Error(err))
			return e.analyzeLocal(ctx, query.Scenario, results, err.Error())
		}
		return models.AnalysisResult{Text: text, Mode: models.ModeExternal, Results: results}, nil
	}
	return e.analyzeLocal(ctx, query.Scenario, results, "")
}

func (e *Engine) analyzeLocal(ctx context.Context, scenario string, results []models.RankedResult, fallbackReason string) (models.AnalysisResult, error) {
	text, err := e.local.Analyze(ctx, scenario, results)
	if errors.Is(err, retrieve.ErrNoProvisions) {
		return models.AnalysisResult{Text: noProvisionsMessage, Mode: models.ModeLocal, FallbackReason: fallbackReason}, nil
	}
	if err != nil {
		return models.AnalysisResult{}, err
	}
	return models.AnalysisResult{
		Text:           text,
		Mode:           models.ModeLocal,
		FallbackReason: fallbackReason,
		Results:        results,
	}, nil
}

// Summarize produces a statute summary. subject seeds retrieval with the
// statute name; when empty a corpus-wide seed query is used. mode selects
// the analyzer with the same fallback behavior as Analyze.
func (e *Engine) Summarize(ctx context.Context, subject string, mode models.AnalysisMode) (models.AnalysisResult, error) {
	seed, k := subject, summarySubjectTopK
	if subject == "" {
		seed, k = defaultSummarySeed, summaryCorpusTopK
	}
	results, err := e.retrieveResults(ctx, seed, k)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	if len(results) == 0 {
		return models.AnalysisResult{Text: noProvisionsMessage, Mode: models.ModeLocal}, nil
	}

	if mode == models.ModeExternal && e.opts.External != nil {
		text, err := e.opts.External.Summarize(ctx, subject, results)
		if err == nil {
			return models.AnalysisResult{Text: text, Mode: models.ModeExternal, Results: results}, nil
		}
		e.logger.Warn("external summary failed, falling back to local", zap.Error(err))
		return e.summarizeLocal(ctx, subject, results, err.Error())
	}
	reason := ""
	if mode == models.ModeExternal {
		reason = "external analyzer not configured"
	}
	return e.summarizeLocal(ctx, subject, results, reason)
}

func (e *Engine) summarizeLocal(ctx context.Context, subject string, results []models.RankedResult, fallbackReason string) (models.AnalysisResult, error) {
	text, err := e.local.Summarize(ctx, subject, results)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	return models.AnalysisResult{
		Text:           text,
		Mode:           models.ModeLocal,
		FallbackReason: fallbackReason,
		Results:        results,
	}, nil
}

func (e *Engine) retrieveResults(ctx context.Context, text string, k int) ([]models.RankedResult, error) {
	snap, release := e.acquire()
	defer release()
	if snap == nil || snap.index == nil {
		return nil, nil
	}
	return retrieve.NewRetriever(snap.index).Retrieve(ctx, text, k)
}

// Statutes returns the statutes of the current snapshot in corpus order.
func (e *Engine) Statutes() []models.Statute {
	snap := e.current()
	if snap == nil {
		return []models.Statute{}
	}
	return snap.statutes
}

// Status reports the current corpus generation.
func (e *Engine) Status() Status {
	snap := e.current()
	st := Status{Strategy: e.opts.Strategy}
	if snap == nil {
		return st
	}
	st.StatuteCount = len(snap.statutes)
	st.DocumentCount = len(snap.documents)
	st.LastReload = snap.builtAt
	st.Ready = true
	return st
}

// Close releases the current snapshot's index, waiting for in-flight
// queries to finish first.
func (e *Engine) Close() error {
	e.mu.Lock()
	snap := e.snap
	e.snap = nil
	e.mu.Unlock()
	if snap == nil {
		return nil
	}
	snap.readers.Wait()
	if snap.index != nil {
		return snap.index.Close()
	}
	return nil
}
