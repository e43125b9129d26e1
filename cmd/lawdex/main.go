// Package main is the lawdex CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hanbeop/lawdex/internal/cli"
	"github.com/hanbeop/lawdex/internal/collector"
	"github.com/hanbeop/lawdex/internal/config"
	"github.com/hanbeop/lawdex/internal/embedding"
	"github.com/hanbeop/lawdex/internal/engine"
	"github.com/hanbeop/lawdex/internal/extract"
	"github.com/hanbeop/lawdex/internal/index"
	"github.com/hanbeop/lawdex/internal/models"
	"github.com/hanbeop/lawdex/internal/retrieve"
	"github.com/hanbeop/lawdex/internal/server"
	"github.com/hanbeop/lawdex/internal/storage"
	"github.com/hanbeop/lawdex/internal/watcher"
	"github.com/hanbeop/lawdex/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/lawdex/config.yaml"

func main() {
	// .env holds the external service API key in development.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "collect":
		runCollect()
	case "ingest":
		runIngest()
	case "search":
		runSearch()
	case "analyze":
		runAnalyze()
	case "summary":
		runSummary()
	case "statutes":
		runStatutes()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("lawdex version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`lawdex - 공정거래 법령 검색/분석 엔진

Usage:
  lawdex server   [-config path] [-debug]        run the HTTP API server
  lawdex collect  [-config path] [keyword ...]   fetch statutes from the law portal
  lawdex ingest   [-config path] file [file ...] add statutes from local files
  lawdex search   [-config path] [-k n] [-json] <scenario>
  lawdex analyze  [-config path] [-mode local|external] [-k n] [-json] <scenario>
  lawdex summary  [-config path] [-mode local|external] [-json] [law name]
  lawdex statutes [-config path] [-json]         list collected statutes
  lawdex status   [-config path]                 show corpus status
  lawdex version`)
}

// loadConfig resolves the config file: an explicit path wins; otherwise
// ./config.yaml is preferred over the system default when it exists.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, err := os.Stat(fallback); err == nil {
				return config.Load(fallback)
			}
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func newStore(cfg *config.Config) (storage.StatuteStore, error) {
	if cfg.Storage.Backend == "sqlite" {
		return storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	}
	return storage.NewDiskStore(cfg.Storage.SnapshotPath), nil
}

func newEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	var emb embedding.Embedder
	var err error
	switch cfg.Index.Encoder {
	case "openai":
		emb, err = embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			APIKeyEnv: cfg.Analysis.APIKeyEnv,
			BaseURL:   cfg.Analysis.BaseURL,
			Model:     cfg.Index.EmbeddingModel,
		})
	default:
		emb = embedding.NewHashEmbedder(cfg.Index.Dimensions)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Index.CacheSize > 0 {
		emb = embedding.NewCachedEmbedder(emb, cfg.Index.CacheSize)
	}
	return emb, nil
}

func newEngine(cfg *config.Config, store storage.StatuteStore, logger *zap.Logger) (*engine.Engine, error) {
	opts := engine.Options{
		Strategy:      cfg.Index.Strategy,
		MaxVocabulary: cfg.Index.MaxVocabulary,
		ChunkSize:     cfg.Retrieval.ChunkSize,
		ChunkOverlap:  cfg.Retrieval.ChunkOverlap,
		Logger:        logger,
	}
	if cfg.Index.Strategy == index.StrategyEmbedding {
		emb, err := newEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		opts.Embedder = emb
	}
	if external, err := retrieve.NewExternalAnalyzer(retrieve.ExternalConfig{
		APIKeyEnv:    cfg.Analysis.APIKeyEnv,
		BaseURL:      cfg.Analysis.BaseURL,
		Model:        cfg.Analysis.Model,
		ExcerptRunes: cfg.Retrieval.ExcerptRunes,
	}); err == nil {
		opts.External = external
	} else {
		// No API key: external mode falls back to the local analyzer.
		logger.Debug("external analyzer unavailable", zap.Error(err))
	}
	return engine.New(store, opts), nil
}

// setup wires config, logger, store and a reloaded engine for one command.
func setup(configPath string, debug bool) (*config.Config, *zap.Logger, storage.StatuteStore, *engine.Engine, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug || debug)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("create logger: %w", err)
	}
	store, err := newStore(cfg)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("open storage: %w", err)
	}
	eng, err := newEngine(cfg, store, logger)
	if err != nil {
		store.Close()
		return nil, nil, nil, nil, err
	}
	if err := eng.Reload(context.Background()); err != nil {
		store.Close()
		return nil, nil, nil, nil, fmt.Errorf("load corpus: %w", err)
	}
	return cfg, logger, store, eng, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger, store, eng, err := setup(*configPath, *debug)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()
	defer store.Close()
	defer eng.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reload when the snapshot file is replaced out of band.
	if cfg.Storage.Backend == "disk" && cfg.Storage.WatchSnapshot {
		w := watcher.New(cfg.Storage.SnapshotPath, func() {
			if err := eng.Reload(context.Background()); err != nil {
				logger.Error("snapshot reload failed", zap.Error(err))
			}
		}, watcher.WithLogger(logger))
		if err := w.Start(ctx); err != nil {
			logger.Warn("snapshot watcher unavailable", zap.Error(err))
		} else {
			defer w.Stop()
		}
	}

	col := collector.New(
		collector.WithBaseURL(cfg.Collector.BaseURL),
		collector.WithDelay(time.Duration(cfg.Collector.DelayMS)*time.Millisecond),
		collector.WithLogger(logger),
	)
	srv := server.NewServer(eng, col, store, &cfg.Server, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			fatal(err)
		}
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}
}

func runCollect() {
	fs := flag.NewFlagSet("collect", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger, store, eng, err := setup(*configPath, *debug)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()
	defer store.Close()
	defer eng.Close()

	keywords := fs.Args()
	if len(keywords) == 0 {
		keywords = cfg.Collector.Keywords
	}
	col := collector.New(
		collector.WithBaseURL(cfg.Collector.BaseURL),
		collector.WithDelay(time.Duration(cfg.Collector.DelayMS)*time.Millisecond),
		collector.WithLogger(logger),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	statutes, err := col.Collect(ctx, keywords)
	if err != nil && len(statutes) == 0 {
		fatal(err)
	}
	if err := store.SaveAll(context.Background(), statutes); err != nil {
		fatal(err)
	}
	fmt.Printf("총 %d개의 법령을 수집했습니다.\n", len(statutes))
	_ = cli.WriteStatutes(os.Stdout, statutes, cli.OutputText)
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	keyword := fs.String("keyword", "", "keyword tag for the ingested statutes")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() == 0 {
		fatal(fmt.Errorf("ingest requires at least one file"))
	}
	_, logger, store, eng, err := setup(*configPath, false)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()
	defer store.Close()
	defer eng.Close()

	ctx := context.Background()
	statutes, err := store.LoadAll(ctx)
	if err != nil {
		fatal(err)
	}
	for _, path := range fs.Args() {
		statute, err := extract.Statute(path, *keyword)
		if err != nil {
			fatal(fmt.Errorf("ingest %s: %w", path, err))
		}
		statutes = append(statutes, statute)
		fmt.Printf("%s: 조문 %d개\n", statute.Title, len(statute.Articles))
	}
	if err := store.SaveAll(ctx, statutes); err != nil {
		fatal(err)
	}
	fmt.Printf("총 %d개의 법령이 저장되었습니다.\n", len(statutes))
}

func outputFormat(jsonOut bool) cli.OutputFormat {
	if jsonOut {
		return cli.OutputJSON
	}
	return cli.OutputText
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	topK := fs.Int("k", 0, "number of results (default from config)")
	jsonOut := fs.Bool("json", false, "JSON output")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() == 0 {
		fatal(fmt.Errorf("search requires a scenario"))
	}
	cfg, logger, store, eng, err := setup(*configPath, false)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()
	defer store.Close()
	defer eng.Close()

	k := *topK
	if k == 0 {
		k = cfg.Retrieval.TopK
	}
	resp, err := eng.Search(context.Background(), models.ScenarioQuery{
		Scenario: fs.Arg(0),
		TopK:     k,
	})
	if err != nil {
		fatal(err)
	}
	if err := cli.WriteSearchResults(os.Stdout, resp, outputFormat(*jsonOut)); err != nil {
		fatal(err)
	}
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	mode := fs.String("mode", "", "analysis mode: local or external (default from config)")
	topK := fs.Int("k", 0, "number of provisions to ground the analysis on")
	jsonOut := fs.Bool("json", false, "JSON output")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() == 0 {
		fatal(fmt.Errorf("analyze requires a scenario"))
	}
	cfg, logger, store, eng, err := setup(*configPath, false)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()
	defer store.Close()
	defer eng.Close()

	m := *mode
	if m == "" {
		m = cfg.Analysis.Mode
	}
	result, err := eng.Analyze(context.Background(), models.ScenarioQuery{
		Scenario: fs.Arg(0),
		TopK:     *topK,
		Mode:     models.AnalysisMode(m),
	})
	if err != nil {
		fatal(err)
	}
	if err := cli.WriteAnalysis(os.Stdout, result, outputFormat(*jsonOut)); err != nil {
		fatal(err)
	}
}

func runSummary() {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	mode := fs.String("mode", "", "analysis mode: local or external (default from config)")
	jsonOut := fs.Bool("json", false, "JSON output")
	_ = fs.Parse(os.Args[2:])

	cfg, logger, store, eng, err := setup(*configPath, false)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()
	defer store.Close()
	defer eng.Close()

	m := *mode
	if m == "" {
		m = cfg.Analysis.Mode
	}
	result, err := eng.Summarize(context.Background(), fs.Arg(0), models.AnalysisMode(m))
	if err != nil {
		fatal(err)
	}
	if err := cli.WriteAnalysis(os.Stdout, result, outputFormat(*jsonOut)); err != nil {
		fatal(err)
	}
}

func runStatutes() {
	fs := flag.NewFlagSet("statutes", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	jsonOut := fs.Bool("json", false, "JSON output")
	_ = fs.Parse(os.Args[2:])

	_, logger, store, eng, err := setup(*configPath, false)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()
	defer store.Close()
	defer eng.Close()

	if err := cli.WriteStatutes(os.Stdout, eng.Statutes(), outputFormat(*jsonOut)); err != nil {
		fatal(err)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	_, logger, store, eng, err := setup(*configPath, false)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()
	defer store.Close()
	defer eng.Close()

	st := eng.Status()
	fmt.Printf("법령: %d건\n문서: %d건\n인덱스: %s\n", st.StatuteCount, st.DocumentCount, st.Strategy)
	if !st.LastReload.IsZero() {
		fmt.Printf("마지막 로드: %s\n", st.LastReload.Format(time.RFC3339))
	}
}
