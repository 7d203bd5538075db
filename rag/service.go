package rag

import (
	"context"

	"go.uber.org/zap"

	"newsrag/repository"
)

// Answer is the result of one RAG query: generated text plus the source
// links of the chunks that grounded it, in retrieval rank order.
type Answer struct {
	Text    string   `json:"text"`
	Sources []string `json:"sources,omitempty"`
}

// Service runs the full query pipeline: refine, retrieve, generate.
type Service struct {
	refiner      *Refiner
	searcher     *Searcher
	generator    *Generator
	cache        *AnswerCache
	defaultModel string
	topK         int
	logger       *zap.Logger
}

func NewService(refiner *Refiner, searcher *Searcher, generator *Generator,
	cache *AnswerCache, defaultModel string, topK int, logger *zap.Logger) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Service{
		refiner:      refiner,
		searcher:     searcher,
		generator:    generator,
		cache:        cache,
		defaultModel: defaultModel,
		topK:         topK,
		logger:       logger,
	}
}

// Query answers the question from indexed news. An empty index still
// produces a well-formed Answer; refinement failures are absorbed, while
// retrieval and generation failures propagate.
func (s *Service) Query(ctx context.Context, question, model string) (*Answer, error) {
	if model == "" {
		model = s.defaultModel
	}

	if cached, ok := s.cache.Get(ctx, question, model); ok {
		s.logger.Info("answer_cache_hit", zap.String("question", question))
		return cached, nil
	}

	refined := s.refiner.Refine(ctx, question, model)

	chunks, err := s.searcher.SearchTopic(ctx, refined, s.topK)
	if err != nil {
		return nil, err
	}

	text, err := s.generator.Generate(ctx, question, chunks, model)
	if err != nil {
		return nil, err
	}

	answer := &Answer{
		Text:    text,
		Sources: sourceLinks(chunks),
	}
	s.cache.Set(ctx, question, model, answer)
	return answer, nil
}

// sourceLinks deduplicates chunk links preserving retrieval rank order.
func sourceLinks(chunks []*repository.ScoredChunk) []string {
	var links []string
	seen := make(map[string]bool)
	for _, chunk := range chunks {
		if chunk.Link == "" || seen[chunk.Link] {
			continue
		}
		seen[chunk.Link] = true
		links = append(links, chunk.Link)
	}
	return links
}
