package rag

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"newsrag/repository"
)

// fakeLLM records the human prompts it receives and replies with a canned
// answer.
type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, msg := range messages {
		if msg.Role != llms.ChatMessageTypeHuman {
			continue
		}
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				f.prompts = append(f.prompts, text.Text)
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := f.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) GetEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i := range texts {
		vecs[i] = []float32{1, 0, 0}
	}
	return vecs, nil
}

func (fakeEmbedder) Dimension() int { return 3 }

type fakeRepo struct {
	chunks []*repository.ScoredChunk
	err    error
}

func (r *fakeRepo) UpsertChunks(context.Context, []*repository.ChunkVectorDoc) error {
	return nil
}

func (r *fakeRepo) Query(_ context.Context, _ []float32, k int) ([]*repository.ScoredChunk, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.chunks) > k {
		return r.chunks[:k], nil
	}
	return r.chunks, nil
}

func newTestService(llm *fakeLLM, repo *fakeRepo) *Service {
	logger := zap.NewNop()
	return NewService(
		NewRefiner(llm, logger),
		NewSearcher(fakeEmbedder{}, repo, logger),
		NewGenerator(llm, logger),
		nil,
		"gpt-3.5-turbo",
		3,
		logger,
	)
}

func TestService_Query(t *testing.T) {
	repo := &fakeRepo{chunks: []*repository.ScoredChunk{
		{
			Link:      "https://news.example.com/eu-ai",
			Title:     "EU passes AI rules",
			Text:      "The EU passed new AI regulation in 2025",
			Score:     0.92,
			Published: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
	}}
	llm := &fakeLLM{response: "The EU adopted new AI regulation in 2025."}
	svc := newTestService(llm, repo)

	answer, err := svc.Query(context.Background(), "Latest on AI regulations in EU", "")
	require.NoError(t, err)

	assert.NotEmpty(t, answer.Text)
	assert.Equal(t, []string{"https://news.example.com/eu-ai"}, answer.Sources)

	// The augmented prompt (second LLM call) must carry the retrieved chunk.
	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[1], "The EU passed new AI regulation in 2025")
	assert.Contains(t, llm.prompts[1], "EU passes AI rules")
}

func TestService_QueryEmptyIndex(t *testing.T) {
	llm := &fakeLLM{response: "I have no context to answer from."}
	svc := newTestService(llm, &fakeRepo{})

	answer, err := svc.Query(context.Background(), "", "")
	require.NoError(t, err, "empty question and empty index must not error")
	assert.NotEmpty(t, answer.Text)
	assert.Empty(t, answer.Sources)

	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[1], noContextNotice)
}

func TestService_GenerationFailureSurfaces(t *testing.T) {
	llm := &fakeLLM{err: errors.New("provider unavailable")}
	svc := newTestService(llm, &fakeRepo{})

	_, err := svc.Query(context.Background(), "anything", "")
	require.Error(t, err)

	var genErr *GenerationError
	assert.True(t, errors.As(err, &genErr))
}

func TestService_RetrievalFailureSurfaces(t *testing.T) {
	llm := &fakeLLM{response: "ok"}
	svc := newTestService(llm, &fakeRepo{err: errors.New("store down")})

	_, err := svc.Query(context.Background(), "anything", "")
	require.Error(t, err)
}
