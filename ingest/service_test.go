package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"newsrag/config"
	"newsrag/feed"
	"newsrag/repository"
	"newsrag/scraper"
)

type fakeFetcher struct {
	items map[string][]feed.Item
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]feed.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[url], nil
}

type fakeScraper struct {
	texts    map[string]string
	failures map[string]bool
}

func (s *fakeScraper) Scrape(_ context.Context, link string) (*scraper.Article, error) {
	if s.failures[link] {
		return nil, &scraper.ScrapeError{Link: link, Err: errors.New("boom")}
	}
	return &scraper.Article{Link: link, Text: s.texts[link]}, nil
}

// lineChunker splits on newlines, one chunk per non-empty line.
type lineChunker struct{}

func (lineChunker) ChunkText(text string) ([]string, error) {
	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			chunks = append(chunks, line)
		}
	}
	return chunks, nil
}

type fakeEmbedder struct {
	calls int
	fail  bool
}

func (e *fakeEmbedder) GetEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.fail {
		return nil, errors.New("embedding service down")
	}
	vecs := make([][]float32, len(texts))
	for i := range texts {
		vecs[i] = []float32{float32(len(texts[i])), 1, 0}
	}
	return vecs, nil
}

func (e *fakeEmbedder) Dimension() int { return 3 }

type memRepo struct {
	points map[string]*repository.ChunkVectorDoc
}

func newMemRepo() *memRepo {
	return &memRepo{points: make(map[string]*repository.ChunkVectorDoc)}
}

func (r *memRepo) UpsertChunks(_ context.Context, docs []*repository.ChunkVectorDoc) error {
	for _, doc := range docs {
		r.points[fmt.Sprintf("%s#%d", doc.Link, doc.Seq)] = doc
	}
	return nil
}

func (r *memRepo) Query(context.Context, []float32, int) ([]*repository.ScoredChunk, error) {
	return nil, nil
}

func threeItemFixture() (*fakeFetcher, *fakeScraper) {
	fetcher := &fakeFetcher{items: map[string][]feed.Item{
		"https://feeds.example.com/rss": {
			{Title: "A", Link: "https://news.example.com/a"},
			{Title: "B", Link: "https://news.example.com/b"},
			{Title: "C", Link: "https://news.example.com/c"},
		},
	}}
	scr := &fakeScraper{
		texts: map[string]string{
			"https://news.example.com/a": "first line\nsecond line",
			"https://news.example.com/c": "only line",
		},
		failures: map[string]bool{"https://news.example.com/b": true},
	}
	return fetcher, scr
}

func newTestService(t *testing.T, fetcher FeedFetcher, scr ArticleScraper,
	embed *fakeEmbedder, repo *memRepo, withLedger bool) *Service {
	t.Helper()
	var ledger *Ledger
	if withLedger {
		ledger = &Ledger{DBPath: filepath.Join(t.TempDir(), "ingest.db")}
		require.NoError(t, ledger.Init())
		t.Cleanup(func() { ledger.Close() })
	}
	return NewService(fetcher, scr, lineChunker{}, nil, embed, repo, ledger,
		nil, "https://feeds.example.com/rss", zap.NewNop())
}

func TestIngest_PartialFailure(t *testing.T) {
	fetcher, scr := threeItemFixture()
	repo := newMemRepo()
	svc := newTestService(t, fetcher, scr, &fakeEmbedder{}, repo, false)

	result, err := svc.Ingest(context.Background(), "https://feeds.example.com/rss")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Articles)
	assert.Equal(t, 1, result.Failures)
	// Article A: title + 2 lines = 3 chunks. Article C: title + 1 line = 2 chunks.
	assert.Equal(t, 5, result.Chunks)
	assert.Len(t, repo.points, 5)
}

func TestIngest_Idempotent(t *testing.T) {
	fetcher, scr := threeItemFixture()
	repo := newMemRepo()
	svc := newTestService(t, fetcher, scr, &fakeEmbedder{}, repo, true)

	first, err := svc.Ingest(context.Background(), "https://feeds.example.com/rss")
	require.NoError(t, err)
	countAfterFirst := len(repo.points)

	second, err := svc.Ingest(context.Background(), "https://feeds.example.com/rss")
	require.NoError(t, err)

	assert.Equal(t, countAfterFirst, len(repo.points), "re-ingest must not grow the store")
	assert.Equal(t, first.Chunks, countAfterFirst)
	assert.Equal(t, 0, second.Articles)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, 0, second.Chunks)
}

func TestIngest_EmptyArticleYieldsNoChunks(t *testing.T) {
	fetcher := &fakeFetcher{items: map[string][]feed.Item{
		"u": {{Link: "https://news.example.com/empty"}},
	}}
	scr := &fakeScraper{texts: map[string]string{}}
	repo := newMemRepo()
	svc := newTestService(t, fetcher, scr, &fakeEmbedder{}, repo, false)

	result, err := svc.Ingest(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Articles)
	assert.Equal(t, 0, result.Chunks)
	assert.Empty(t, repo.points)
}

func TestIngest_EmbeddingFailureIsFatal(t *testing.T) {
	fetcher, scr := threeItemFixture()
	svc := newTestService(t, fetcher, scr, &fakeEmbedder{fail: true}, newMemRepo(), false)

	_, err := svc.Ingest(context.Background(), "https://feeds.example.com/rss")
	require.Error(t, err)

	var embErr *EmbeddingError
	assert.True(t, errors.As(err, &embErr))
}

func TestIngest_FetchErrorPropagates(t *testing.T) {
	fetchErr := &feed.FetchError{URL: "u", Err: errors.New("unreachable")}
	svc := newTestService(t, &fakeFetcher{err: fetchErr}, &fakeScraper{}, &fakeEmbedder{}, newMemRepo(), false)

	_, err := svc.Ingest(context.Background(), "u")
	require.Error(t, err)

	var got *feed.FetchError
	assert.True(t, errors.As(err, &got))
}

func TestIngest_DefaultsToConfiguredSources(t *testing.T) {
	fetcher := &fakeFetcher{items: map[string][]feed.Item{
		"https://a.example.com/rss": {{Title: "A", Link: "https://news.example.com/a"}},
		"https://b.example.com/rss": {{Title: "C", Link: "https://news.example.com/c"}},
	}}
	scr := &fakeScraper{texts: map[string]string{
		"https://news.example.com/a": "line one",
		"https://news.example.com/c": "line two",
	}}
	repo := newMemRepo()
	svc := NewService(fetcher, scr, lineChunker{}, nil, &fakeEmbedder{}, repo, nil,
		[]config.FeedSource{
			{Name: "a", URL: "https://a.example.com/rss"},
			{Name: "b", URL: "https://b.example.com/rss"},
		}, "https://unused.example.com/rss", zap.NewNop())

	result, err := svc.Ingest(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Articles)
	assert.Len(t, repo.points, 4)
}
