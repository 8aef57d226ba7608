// Package slog decorates distill services with structured logging from
// the standard log/slog package. Each decorator logs one line per call with
// its duration and error, and otherwise delegates unchanged.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

var (
	_ distill.Fetcher           = (*LoggingFetcher)(nil)
	_ distill.ArticleSource     = (*LoggingArticleSource)(nil)
	_ distill.Crawler           = (*LoggingCrawler)(nil)
	_ distill.ExtractionService = (*LoggingExtractionService)(nil)
)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   distill.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next distill.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// LoggingArticleSource wraps an ArticleSource with logging.
type LoggingArticleSource struct {
	next   distill.ArticleSource
	logger *slog.Logger
}

// NewLoggingArticleSource creates a new LoggingArticleSource.
func NewLoggingArticleSource(next distill.ArticleSource, logger *slog.Logger) *LoggingArticleSource {
	return &LoggingArticleSource{next: next, logger: logger}
}

// ArticleID delegates without logging; it is a pure URL check.
func (s *LoggingArticleSource) ArticleID(url string) (string, bool) {
	return s.next.ArticleID(url)
}

// FetchArticle logs the lookup and delegates to the wrapped source.
func (s *LoggingArticleSource) FetchArticle(ctx context.Context, id string) (article *distill.Article, err error) {
	defer func(begin time.Time) {
		var title string
		if article != nil {
			title = article.Title
		}
		s.logger.Info("article source",
			"id", id,
			"title", title,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FetchArticle(ctx, id)
}

// LoggingCrawler wraps a Crawler with debug logging.
type LoggingCrawler struct {
	next   distill.Crawler
	logger *slog.Logger
}

// NewLoggingCrawler creates a new LoggingCrawler.
func NewLoggingCrawler(next distill.Crawler, logger *slog.Logger) *LoggingCrawler {
	return &LoggingCrawler{next: next, logger: logger}
}

// Crawl logs the size of the rendered markdown.
func (c *LoggingCrawler) Crawl(ctx context.Context, url string) (doc *distill.RawDocument, err error) {
	defer func(begin time.Time) {
		var chars int
		if doc != nil {
			chars = len(doc.Text)
		}
		c.logger.Debug("crawl",
			"url", url,
			"chars", chars,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Crawl(ctx, url)
}

// LoggingExtractionService wraps an ExtractionService with logging.
type LoggingExtractionService struct {
	next   distill.ExtractionService
	logger *slog.Logger
}

// NewLoggingExtractionService creates a new LoggingExtractionService.
func NewLoggingExtractionService(next distill.ExtractionService, logger *slog.Logger) *LoggingExtractionService {
	return &LoggingExtractionService{next: next, logger: logger}
}

// Extract logs the chosen method and word count.
func (s *LoggingExtractionService) Extract(ctx context.Context, url string, minWords int) (e *distill.Extraction, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "min_words", minWords}
		if e != nil {
			attrs = append(attrs,
				"method", e.Result.Method,
				"words", e.Result.WordCount,
				"likely_article", e.Quality.LikelyArticle,
			)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		s.logger.Info("extract", attrs...)
	}(time.Now())
	return s.next.Extract(ctx, url, minWords)
}
