package rag

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// Refiner rewrites a raw user question into a retrieval-friendly query.
// Refinement is an optimization: every failure falls back locally and is
// never surfaced to the caller.
type Refiner struct {
	llm    llms.Model
	logger *zap.Logger
}

func NewRefiner(llm llms.Model, logger *zap.Logger) *Refiner {
	return &Refiner{llm: llm, logger: logger}
}

func (r *Refiner) Refine(ctx context.Context, question, model string) string {
	prompt := "Refine this into a precise search query for current affairs. " +
		"Reply with the query only: " + question

	resp, err := r.llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		},
		llms.WithModel(model),
	)
	if err != nil || len(resp.Choices) == 0 {
		return r.fallback(question, err)
	}

	refined := strings.TrimSpace(resp.Choices[0].Content)
	if refined == "" {
		return r.fallback(question, nil)
	}

	r.logger.Info("query_refined",
		zap.String("question", question),
		zap.String("refined", refined),
	)
	return refined
}

func (r *Refiner) fallback(question string, err error) string {
	r.logger.Warn("query refinement unavailable, using keyword fallback", zap.Error(err))
	if kw := keywordQuery(question); kw != "" {
		return kw
	}
	return question
}
