package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

// Item is one entry of a parsed RSS/Atom feed. Items are transient and
// never persisted directly.
type Item struct {
	Title     string
	Link      string
	Summary   string
	Published time.Time
}

// FetchError marks a feed that could not be retrieved or parsed. It aborts
// ingestion for that URL only.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch feed %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Fetcher struct {
	parser *gofeed.Parser
	logger *zap.Logger
}

func NewFetcher(timeout time.Duration, logger *zap.Logger) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	return &Fetcher{
		parser: parser,
		logger: logger,
	}
}

// Fetch retrieves and parses a feed, preserving the feed's own item order
// (newest-first by convention). Items without a link are dropped since the
// link is the article identity downstream.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Item, error) {
	parsed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it.Link == "" {
			continue
		}
		var published time.Time
		if it.PublishedParsed != nil {
			published = *it.PublishedParsed
		}
		items = append(items, Item{
			Title:     it.Title,
			Link:      it.Link,
			Summary:   it.Description,
			Published: published,
		})
	}

	f.logger.Info("feed_fetched",
		zap.String("url", url),
		zap.String("feed_title", parsed.Title),
		zap.Int("items", len(items)),
	)

	return items, nil
}
