package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test News</title>
    <link>https://news.example.com</link>
    <item>
      <title>EU passes AI rules</title>
      <link>https://news.example.com/eu-ai</link>
      <description>New obligations for model providers.</description>
      <pubDate>Mon, 10 Mar 2025 09:30:00 GMT</pubDate>
    </item>
    <item>
      <title>Markets steady</title>
      <link>https://news.example.com/markets</link>
      <description>Equities flat ahead of data.</description>
      <pubDate>Sun, 09 Mar 2025 17:00:00 GMT</pubDate>
    </item>
    <item>
      <title>No link here</title>
      <description>Should be dropped.</description>
    </item>
  </channel>
</rss>`

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	fetcher := NewFetcher(5*time.Second, zap.NewNop())
	items, err := fetcher.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, items, 2, "item without a link must be dropped")

	assert.Equal(t, "EU passes AI rules", items[0].Title)
	assert.Equal(t, "https://news.example.com/eu-ai", items[0].Link)
	assert.Equal(t, "New obligations for model providers.", items[0].Summary)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), items[0].Published.UTC())

	assert.Equal(t, "Markets steady", items[1].Title)
}

func TestFetcher_MalformedFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("this is not xml at all"))
	}))
	defer srv.Close()

	fetcher := NewFetcher(5*time.Second, zap.NewNop())
	_, err := fetcher.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var fetchErr *FetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, srv.URL, fetchErr.URL)
}

func TestFetcher_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	fetcher := NewFetcher(time.Second, zap.NewNop())
	_, err := fetcher.Fetch(context.Background(), srv.URL)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
}
