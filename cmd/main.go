package main

import (
	"context"
	"log"

	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"newsrag/api"
	"newsrag/config"
	"newsrag/feed"
	"newsrag/ingest"
	"newsrag/pkg/chunking"
	"newsrag/pkg/embedding"
	qdrantClient "newsrag/pkg/qdrantdb"
	"newsrag/rag"
	"newsrag/scraper"
)

func main() {
	// =========
	// Config
	// =========
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	sources, err := config.LoadFeedSources(cfg.FeedSourcesPath)
	if err != nil {
		log.Fatalf("Failed to load feed sources: %v", err)
	}

	// =========
	// Logging
	// =========
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// =========
	// Embedding client
	// =========
	embeddingClient := embedding.NewAllMinilmL6V2(cfg.EmbeddingURL)

	// =========
	// Qdrant vector store
	// =========
	qdb, err := qdrantClient.NewClient(cfg.QdrantHost, cfg.QdrantPort)
	if err != nil {
		log.Fatalf("Failed to initialize Qdrant: %v", err)
	}
	if err := qdb.CreateNewsCollection(context.Background(), embeddingClient.Dimension()); err != nil {
		log.Fatalf("Failed to create collection: %v", err)
	}

	// =========
	// LLM client
	// =========
	llmOpts := []openai.Option{openai.WithModel(cfg.LLMModel)}
	if cfg.OpenAIAPIKey != "" {
		llmOpts = append(llmOpts, openai.WithToken(cfg.OpenAIAPIKey))
	}
	if cfg.OpenAIBaseURL != "" {
		llmOpts = append(llmOpts, openai.WithBaseURL(cfg.OpenAIBaseURL))
	}
	llm, err := openai.New(llmOpts...)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	// =========
	// Ingest pipeline
	// =========
	fetcher := feed.NewFetcher(cfg.HTTPTimeout, logger)
	articleScraper := scraper.NewScraper(cfg.HTTPTimeout, logger)
	chunker := chunking.NewRecursiveCharacterChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	mdChunker := chunking.NewMarkdownChunker(cfg.ChunkSize, cfg.ChunkOverlap)

	ledger := &ingest.Ledger{DBPath: cfg.IngestLedgerPath}
	if err := ledger.Init(); err != nil {
		log.Fatalf("Failed to initialize ingest ledger: %v", err)
	}
	defer ledger.Close()

	ingestService := ingest.NewService(fetcher, articleScraper, chunker, mdChunker,
		embeddingClient, qdb, ledger, sources, cfg.DefaultFeedURL, logger)

	// =========
	// Query pipeline
	// =========
	refiner := rag.NewRefiner(llm, logger)
	searcher := rag.NewSearcher(embeddingClient, qdb, logger)
	generator := rag.NewGenerator(llm, logger)
	cache := rag.NewAnswerCache(cfg.RedisAddr, cfg.AnswerCacheTTL, logger)
	ragService := rag.NewService(refiner, searcher, generator, cache,
		cfg.LLMModel, cfg.TopK, logger)

	// =========
	// HTTP server
	// =========
	server := api.NewServer(ingestService, ragService, cfg.AppPort, logger)
	if err := server.Start(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
