package crawl

import (
	"context"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of URLs extracted at once by a Batch.
const DefaultConcurrency = 4

// trackingParams are query parameters that identify a referrer rather than
// a page.
var trackingParams = []string{"fbclid", "gclid", "ocid", "cvid", "ei", "mc_cid", "mc_eid"}

// Batch extracts many URLs concurrently, one failure never stopping the rest.
type Batch struct {
	Service  distill.ExtractionService
	MinWords int

	// Writer is optional. When set, every successful extraction is written.
	Writer distill.ExtractionWriter

	// Concurrency defaults to DefaultConcurrency.
	Concurrency int
}

// BatchResult is the outcome for one URL.
type BatchResult struct {
	URL        string
	Extraction *distill.Extraction

	// Path is where Writer put the extraction.
	Path string

	Err error
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress. It is never
// called concurrently.
type ProgressFunc func(event ProgressEvent)

// Run extracts urls and returns one result per distinct URL in input order.
// URLs differing only in fragment, trailing slash, host case or tracking
// parameters are extracted once. The error is non-nil only when ctx ended
// before every URL was attempted.
func (b *Batch) Run(ctx context.Context, urls []string, progress ProgressFunc) ([]BatchResult, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	unique := Dedupe(urls)
	total := len(unique)
	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	type indexed struct {
		position int
		result   BatchResult
	}
	resultCh := make(chan indexed, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	go func() {
		for i, u := range unique {
			g.Go(func() error {
				resultCh <- indexed{position: i, result: b.extract(gctx, u)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]BatchResult, total)
	var completed atomic.Int64
	for r := range resultCh {
		results[r.position] = r.result
		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: int(completed.Add(1)),
			Total:     total,
			URL:       r.result.URL,
		}
		if r.result.Err != nil {
			event.Type = ProgressFailed
			event.Error = r.result.Err
		}
		progress(event)
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return results, ctx.Err()
}

func (b *Batch) extract(ctx context.Context, u string) BatchResult {
	result := BatchResult{URL: u}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	e, err := b.Service.Extract(ctx, u, b.MinWords)
	if err != nil {
		result.Err = err
		return result
	}
	result.Extraction = e

	if b.Writer != nil {
		result.Path, result.Err = b.Writer.WriteExtraction(ctx, e)
	}
	return result
}

// Dedupe drops URLs whose normalized form was already seen, keeping the
// first occurrence as given. Blank entries are dropped.
func Dedupe(urls []string) []string {
	seen := bloom.NewURLSet(len(urls), bloom.DefaultFalsePositiveRate)
	var unique []string
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if seen.Seen(NormalizeURL(u)) {
			continue
		}
		unique = append(unique, u)
	}
	return unique
}

// NormalizeURL returns the form of rawURL used to detect duplicates:
// lowercase scheme and host, no fragment, no trailing slash, no tracking
// parameters, remaining parameters sorted. Unparseable input is returned
// trimmed.
func NormalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	u.RawPath = ""

	q := u.Query()
	for key := range q {
		if strings.HasPrefix(key, "utm_") {
			q.Del(key)
		}
	}
	for _, key := range trackingParams {
		q.Del(key)
	}
	u.RawQuery = q.Encode()

	return u.String()
}
