package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var (
	_ distill.Crawler           = (*Crawler)(nil)
	_ distill.ExtractionService = (*ExtractionService)(nil)
	_ distill.DocumentExtractor = (*DocumentExtractor)(nil)
)

// Crawler is a mock implementation of distill.Crawler.
type Crawler struct {
	CrawlFn func(ctx context.Context, url string) (*distill.RawDocument, error)
}

func (c *Crawler) Crawl(ctx context.Context, url string) (*distill.RawDocument, error) {
	return c.CrawlFn(ctx, url)
}

// ExtractionService is a mock implementation of distill.ExtractionService.
type ExtractionService struct {
	ExtractFn func(ctx context.Context, url string, minWords int) (*distill.Extraction, error)
}

func (s *ExtractionService) Extract(ctx context.Context, url string, minWords int) (*distill.Extraction, error) {
	return s.ExtractFn(ctx, url, minWords)
}

// DocumentExtractor is a mock implementation of distill.DocumentExtractor.
type DocumentExtractor struct {
	ExtractDocumentFn func(ctx context.Context, doc *distill.RawDocument, minWords int) (*distill.Extraction, error)
}

func (d *DocumentExtractor) ExtractDocument(ctx context.Context, doc *distill.RawDocument, minWords int) (*distill.Extraction, error) {
	return d.ExtractDocumentFn(ctx, doc, minWords)
}
