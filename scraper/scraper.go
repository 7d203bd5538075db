package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const maxImageAlts = 3

// Article is the extracted content of one feed item. Text is best-effort
// and may be empty when extraction fails; Markdown is only set when the
// trafilatura path produced a content node.
type Article struct {
	Link      string
	Title     string
	Text      string
	Markdown  string
	Published time.Time
	ImageAlts []string
}

// ScrapeError marks a single article that could not be fetched or parsed.
// It is always non-fatal to the surrounding ingest batch.
type ScrapeError struct {
	Link string
	Err  error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %s: %v", e.Link, e.Err)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

type Scraper struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewScraper(timeout time.Duration, logger *zap.Logger) *Scraper {
	return &Scraper{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Scrape fetches the article page and extracts its main text. Readability
// runs first; trafilatura takes over when readability yields nothing, and
// additionally produces a markdown rendering of the content node.
func (s *Scraper) Scrape(ctx context.Context, link string) (*Article, error) {
	pageURL, err := url.Parse(link)
	if err != nil {
		return nil, &ScrapeError{Link: link, Err: err}
	}

	body, err := s.fetch(ctx, link)
	if err != nil {
		return nil, &ScrapeError{Link: link, Err: err}
	}

	article := &Article{Link: link}
	article.ImageAlts = extractImageAlts(body)

	title, text := s.extractWithReadability(body, pageURL)
	article.Title = title
	article.Text = text

	if strings.TrimSpace(article.Text) == "" {
		title, text, md := s.extractWithTrafilatura(body, pageURL)
		if title != "" {
			article.Title = title
		}
		article.Text = text
		article.Markdown = md
	}

	s.logger.Info("article_scraped",
		zap.String("link", link),
		zap.String("title", article.Title),
		zap.Int("text_length", len(article.Text)),
		zap.Int("image_alts", len(article.ImageAlts)),
	)

	return article, nil
}

func (s *Scraper) fetch(ctx context.Context, link string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (s *Scraper) extractWithReadability(body []byte, pageURL *url.URL) (title, text string) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		s.logger.Debug("readability: extraction failed",
			zap.String("url", pageURL.String()),
			zap.Error(err))
		return "", ""
	}
	return article.Title, strings.TrimSpace(article.TextContent)
}

func (s *Scraper) extractWithTrafilatura(body []byte, pageURL *url.URL) (title, text, markdown string) {
	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{
		OriginalURL: pageURL,
	})
	if err != nil {
		s.logger.Debug("trafilatura: extraction failed",
			zap.String("url", pageURL.String()),
			zap.Error(err))
		return "", "", ""
	}

	text = strings.TrimSpace(result.ContentText)
	title = result.Metadata.Title

	if result.ContentNode != nil {
		if htmlStr, err := renderNodeToString(result.ContentNode); err == nil {
			if md, err := htmltomarkdown.ConvertString(htmlStr); err == nil {
				markdown = md
			}
		}
	}

	return title, text, markdown
}

// extractImageAlts collects alt text of the first few images, which often
// carries caption-grade description of the story.
func extractImageAlts(body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var alts []string
	doc.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		alt := strings.TrimSpace(sel.AttrOr("alt", ""))
		if alt != "" {
			alts = append(alts, alt)
		}
		return len(alts) < maxImageAlts
	})
	return alts
}

func renderNodeToString(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
