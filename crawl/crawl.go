// Package crawl turns URLs into page markdown and runs extractions over
// batches of URLs.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/distill"
)

// Ensure Crawler implements distill.Crawler at compile time.
var _ distill.Crawler = (*Crawler)(nil)

// Crawler renders a page into one markdown blob: rate limit, fetch with
// retry, read the title, prune noise elements, convert to markdown.
type Crawler struct {
	Fetcher   distill.Fetcher
	Converter distill.Converter

	// Metadata, Sanitizer and RateLimiter are optional. A metadata or
	// sanitizer failure is not fatal: the page goes on without a title or
	// unpruned.
	Metadata    distill.MetadataExtractor
	Sanitizer   distill.Sanitizer
	RateLimiter distill.DomainLimiter

	// RetryDelays defaults to DefaultRetryDelays when nil.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// Crawl implements distill.Crawler. A page that renders to nothing yields
// a document with empty text rather than an error.
func (c *Crawler) Crawl(ctx context.Context, rawURL string) (*distill.RawDocument, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, distill.Errorf(distill.EINVALID, "invalid URL %q", rawURL)
	}
	logger := c.logger()

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, err
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, rawURL, c.Fetcher.Fetch, logger, delays)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	doc := &distill.RawDocument{URL: rawURL}
	if strings.TrimSpace(html) == "" {
		return doc, nil
	}

	if c.Metadata != nil {
		if meta, err := c.Metadata.Extract(html); err != nil {
			logger.Debug("metadata unavailable", "url", rawURL, "err", err)
		} else {
			doc.Title = meta.Title
		}
	}

	if c.Sanitizer != nil {
		if pruned, err := c.Sanitizer.Sanitize(html); err != nil {
			logger.Warn("sanitize failed, converting raw page", "url", rawURL, "err", err)
		} else {
			html = pruned
		}
	}

	markdown, err := c.Converter.Convert(html)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", rawURL, err)
	}
	doc.Text = markdown

	if distill.DetectChallenge(markdown) {
		logger.Warn("page looks like a bot challenge", "url", rawURL)
	}

	return doc, nil
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
