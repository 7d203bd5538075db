package rag

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"newsrag/pkg/embedding"
	"newsrag/repository"
)

const DefaultTopK = 3

type Searcher struct {
	embed  embedding.Client
	repo   repository.ChunkVectorRepo
	logger *zap.Logger
}

func NewSearcher(embed embedding.Client, repo repository.ChunkVectorRepo, logger *zap.Logger) *Searcher {
	return &Searcher{
		embed:  embed,
		repo:   repo,
		logger: logger,
	}
}

// SearchTopic embeds the query and returns up to k stored chunks ordered
// by descending similarity, most recent publish date breaking ties.
func (s *Searcher) SearchTopic(ctx context.Context, query string, k int) ([]*repository.ScoredChunk, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	vectors, err := s.embed.GetEmbeddings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := s.repo.Query(ctx, vectors[0], k)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Score != chunks[j].Score {
			return chunks[i].Score > chunks[j].Score
		}
		return chunks[i].Published.After(chunks[j].Published)
	})
	if len(chunks) > k {
		chunks = chunks[:k]
	}

	s.logger.Info("search_topic",
		zap.String("query", query),
		zap.Int("k", k),
		zap.Int("hits", len(chunks)),
	)

	return chunks, nil
}
