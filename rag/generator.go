package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"newsrag/repository"
)

const (
	systemPrompt = "You are a news analyst."

	noContextNotice = "No relevant context was found in the news index."

	// Chunks are already bounded, but retrieved text from older index
	// versions may not be; cap what goes into the prompt.
	maxContextChunkChars = 500
)

type Generator struct {
	llm    llms.Model
	logger *zap.Logger
}

func NewGenerator(llm llms.Model, logger *zap.Logger) *Generator {
	return &Generator{llm: llm, logger: logger}
}

// Generate builds the augmented prompt and returns the model's answer
// verbatim. An empty retrieval set is stated explicitly in the prompt so
// the model never answers from silently missing context.
func (g *Generator) Generate(ctx context.Context, question string, chunks []*repository.ScoredChunk, model string) (string, error) {
	prompt := buildPrompt(question, chunks)

	resp, err := g.llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		},
		llms.WithModel(model),
	)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Err: fmt.Errorf("model returned no choices")}
	}

	answer := strings.TrimSpace(resp.Choices[0].Content)
	g.logger.Info("answer_generated",
		zap.String("model", model),
		zap.Int("context_chunks", len(chunks)),
		zap.Int("answer_length", len(answer)),
	)
	return answer, nil
}

func buildPrompt(question string, chunks []*repository.ScoredChunk) string {
	var b strings.Builder
	b.WriteString("Using only this current affairs context:\n")

	if len(chunks) == 0 {
		b.WriteString(noContextNotice)
		b.WriteString("\n")
	} else {
		for _, chunk := range chunks {
			text := chunk.Text
			if len(text) > maxContextChunkChars {
				text = text[:maxContextChunkChars] + "..."
			}
			fmt.Fprintf(&b, "%s: %s\n\n", chunk.Title, text)
		}
	}

	b.WriteString("\nAnswer: ")
	b.WriteString(question)
	b.WriteString("\nIf the context does not contain the answer, say so.")
	return b.String()
}
