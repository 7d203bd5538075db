package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"newsrag/config"
	"newsrag/feed"
	"newsrag/pkg/chunking"
	"newsrag/pkg/embedding"
	"newsrag/repository"
	"newsrag/scraper"
)

const (
	maxFeedItems = 1000
	embedBatch   = 32
)

// EmbeddingError marks a vector computation failure. It is fatal to the
// ingest batch it occurred in.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("compute embeddings: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]feed.Item, error)
}

type ArticleScraper interface {
	Scrape(ctx context.Context, link string) (*scraper.Article, error)
}

// Result summarizes one ingest run. Per-item failures are counted, never
// fatal to the batch.
type Result struct {
	Articles int `json:"articles"`
	Skipped  int `json:"skipped"`
	Failures int `json:"failures"`
	Chunks   int `json:"chunks"`
}

func (r *Result) add(other *Result) {
	r.Articles += other.Articles
	r.Skipped += other.Skipped
	r.Failures += other.Failures
	r.Chunks += other.Chunks
}

type Service struct {
	fetcher        FeedFetcher
	scraper        ArticleScraper
	chunker        chunking.Client
	mdChunker      chunking.Client
	embed          embedding.Client
	repo           repository.ChunkVectorRepo
	ledger         *Ledger
	sources        []config.FeedSource
	defaultFeedURL string
	logger         *zap.Logger
}

func NewService(fetcher FeedFetcher, articleScraper ArticleScraper,
	chunker, mdChunker chunking.Client, embed embedding.Client,
	repo repository.ChunkVectorRepo, ledger *Ledger,
	sources []config.FeedSource, defaultFeedURL string, logger *zap.Logger) *Service {
	return &Service{
		fetcher:        fetcher,
		scraper:        articleScraper,
		chunker:        chunker,
		mdChunker:      mdChunker,
		embed:          embed,
		repo:           repo,
		ledger:         ledger,
		sources:        sources,
		defaultFeedURL: defaultFeedURL,
		logger:         logger,
	}
}

// Ingest runs the pipeline for one feed URL, or for every configured
// source when url is empty.
func (s *Service) Ingest(ctx context.Context, url string) (*Result, error) {
	if url != "" {
		return s.ingestFeed(ctx, url)
	}

	urls := make([]string, 0, len(s.sources))
	for _, src := range s.sources {
		urls = append(urls, src.URL)
	}
	if len(urls) == 0 {
		urls = append(urls, s.defaultFeedURL)
	}

	total := &Result{}
	for _, u := range urls {
		res, err := s.ingestFeed(ctx, u)
		if err != nil {
			// A broken feed aborts that URL only.
			s.logger.Error("feed ingest failed", zap.String("url", u), zap.Error(err))
			total.Failures++
			continue
		}
		total.add(res)
	}
	return total, nil
}

func (s *Service) ingestFeed(ctx context.Context, url string) (*Result, error) {
	items, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(items) > maxFeedItems {
		items = items[:maxFeedItems]
	}

	result := &Result{}
	for _, item := range items {
		n, err := s.ingestItem(ctx, item)
		if err != nil {
			var embErr *EmbeddingError
			if errors.As(err, &embErr) {
				return result, err
			}
			result.Failures++
			s.logger.Warn("article skipped",
				zap.String("link", item.Link),
				zap.Error(err))
			continue
		}
		if n < 0 {
			result.Skipped++
			continue
		}
		result.Articles++
		result.Chunks += n
	}

	s.logger.Info("feed_ingested",
		zap.String("url", url),
		zap.Int("articles", result.Articles),
		zap.Int("skipped", result.Skipped),
		zap.Int("failures", result.Failures),
		zap.Int("chunks", result.Chunks),
	)
	return result, nil
}

// ingestItem returns the number of chunks indexed, or -1 when the article
// was skipped as unchanged.
func (s *Service) ingestItem(ctx context.Context, item feed.Item) (int, error) {
	article, err := s.scraper.Scrape(ctx, item.Link)
	if err != nil {
		return 0, err
	}

	title := item.Title
	if title == "" {
		title = article.Title
	}

	text := composeText(title, item.Summary, article.Text)
	if text == "" {
		// Empty article: processed, zero chunks.
		return 0, nil
	}

	hash := ContentHash(text)
	if s.ledger != nil {
		current, err := s.ledger.IsCurrent(item.Link, hash)
		if err == nil && current {
			return -1, nil
		}
	}

	var chunks []string
	if article.Markdown != "" && s.mdChunker != nil {
		chunks, err = s.mdChunker.ChunkText(article.Markdown)
	} else {
		chunks, err = s.chunker.ChunkText(text)
	}
	if err != nil {
		return 0, fmt.Errorf("chunk article: %w", err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	docs := make([]*repository.ChunkVectorDoc, len(chunks))
	for i, chunk := range chunks {
		docs[i] = &repository.ChunkVectorDoc{
			Link:      item.Link,
			Title:     title,
			Published: item.Published,
			Seq:       i,
			Text:      chunk,
		}
	}

	for i := 0; i < len(docs); i += embedBatch {
		end := i + embedBatch
		if end > len(docs) {
			end = len(docs)
		}
		batch := chunks[i:end]
		vectors, err := s.embed.GetEmbeddings(ctx, batch)
		if err != nil {
			return 0, &EmbeddingError{Err: err}
		}
		for j := range batch {
			docs[i+j].Embedding = vectors[j]
		}
	}

	if err := s.repo.UpsertChunks(ctx, docs); err != nil {
		return 0, fmt.Errorf("upsert chunks: %w", err)
	}

	if s.ledger != nil {
		if err := s.ledger.MarkIngested(item.Link, hash); err != nil {
			s.logger.Warn("ledger update failed", zap.String("link", item.Link), zap.Error(err))
		}
	}

	return len(docs), nil
}

// composeText mirrors what gets indexed per article: headline, feed
// summary, then the scraped body.
func composeText(title, summary, body string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{title, summary, body} {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n")
}
