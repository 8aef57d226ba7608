package crawl_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
	"github.com/fwojciec/distill/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticFetcher(html string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(context.Context, string) (string, error) { return html, nil },
	}
}

func echoConverter() *mock.Converter {
	return &mock.Converter{
		ConvertFn: func(html string) (string, error) { return "md:" + html, nil },
	}
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("runs the pipeline in order", func(t *testing.T) {
		t.Parallel()

		var (
			mu    sync.Mutex
			steps []string
		)
		step := func(s string) {
			mu.Lock()
			defer mu.Unlock()
			steps = append(steps, s)
		}

		c := &crawl.Crawler{
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, domain string) error {
					step("wait:" + domain)
					return nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					step("fetch")
					return "<html>raw</html>", nil
				},
			},
			Metadata: &mock.MetadataExtractor{
				ExtractFn: func(html string) (*distill.PageMetadata, error) {
					step("metadata")
					assert.Equal(t, "<html>raw</html>", html)
					return &distill.PageMetadata{Title: "Transit Plan"}, nil
				},
			},
			Sanitizer: &mock.Sanitizer{
				SanitizeFn: func(html string) (string, error) {
					step("sanitize")
					return "<p>pruned</p>", nil
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(html string) (string, error) {
					step("convert")
					assert.Equal(t, "<p>pruned</p>", html)
					return "pruned", nil
				},
			},
			RetryDelays: []time.Duration{},
		}

		doc, err := c.Crawl(context.Background(), "https://news.example.com:8443/transit")

		require.NoError(t, err)
		assert.Equal(t, &distill.RawDocument{
			URL:   "https://news.example.com:8443/transit",
			Title: "Transit Plan",
			Text:  "pruned",
		}, doc)
		assert.Equal(t, []string{"wait:news.example.com", "fetch", "metadata", "sanitize", "convert"}, steps)
	})

	t.Run("works without optional collaborators", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{Fetcher: staticFetcher("<p>hi</p>"), Converter: echoConverter()}

		doc, err := c.Crawl(context.Background(), "https://example.com/a")

		require.NoError(t, err)
		assert.Equal(t, "md:<p>hi</p>", doc.Text)
		assert.Empty(t, doc.Title)
	})

	t.Run("continues without a title when metadata fails", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher:   staticFetcher("<p>hi</p>"),
			Converter: echoConverter(),
			Metadata: &mock.MetadataExtractor{
				ExtractFn: func(string) (*distill.PageMetadata, error) { return nil, errors.New("no metadata") },
			},
		}

		doc, err := c.Crawl(context.Background(), "https://example.com/a")

		require.NoError(t, err)
		assert.Empty(t, doc.Title)
		assert.Equal(t, "md:<p>hi</p>", doc.Text)
	})

	t.Run("converts the raw page when sanitizing fails", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher:   staticFetcher("<p>hi</p>"),
			Converter: echoConverter(),
			Sanitizer: &mock.Sanitizer{
				SanitizeFn: func(string) (string, error) { return "", errors.New("parse error") },
			},
		}

		doc, err := c.Crawl(context.Background(), "https://example.com/a")

		require.NoError(t, err)
		assert.Equal(t, "md:<p>hi</p>", doc.Text)
	})

	t.Run("returns an empty document for an empty page", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: staticFetcher("  \n"),
			Converter: &mock.Converter{
				ConvertFn: func(string) (string, error) {
					t.Fatal("convert should not be called")
					return "", nil
				},
			},
		}

		doc, err := c.Crawl(context.Background(), "https://example.com/a")

		require.NoError(t, err)
		assert.Empty(t, doc.Text)
	})

	t.Run("retries failed fetches", func(t *testing.T) {
		t.Parallel()

		calls := 0
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) {
					calls++
					if calls == 1 {
						return "", errors.New("navigation timeout")
					}
					return "<p>ok</p>", nil
				},
			},
			Converter:   echoConverter(),
			RetryDelays: []time.Duration{0},
		}

		doc, err := c.Crawl(context.Background(), "https://example.com/a")

		require.NoError(t, err)
		assert.Equal(t, "md:<p>ok</p>", doc.Text)
		assert.Equal(t, 2, calls)
	})

	t.Run("returns fetch errors", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) {
					return "", distill.Errorf(distill.EUNAVAILABLE, "HTTP 503")
				},
			},
			Converter:   echoConverter(),
			RetryDelays: []time.Duration{0},
		}

		_, err := c.Crawl(context.Background(), "https://example.com/a")

		require.Error(t, err)
		assert.Equal(t, distill.EUNAVAILABLE, distill.ErrorCode(err))
		assert.True(t, strings.Contains(err.Error(), "https://example.com/a"))
	})

	t.Run("returns rate limiter errors", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher:   staticFetcher("<p>hi</p>"),
			Converter: echoConverter(),
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(context.Context, string) error { return context.Canceled },
			},
		}

		_, err := c.Crawl(context.Background(), "https://example.com/a")

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("rejects invalid URLs", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{Fetcher: staticFetcher(""), Converter: echoConverter()}

		for _, u := range []string{"", "example.com/a", "ftp://example.com/a", "://bad"} {
			_, err := c.Crawl(context.Background(), u)
			assert.Equal(t, distill.EINVALID, distill.ErrorCode(err), u)
		}
	})
}
