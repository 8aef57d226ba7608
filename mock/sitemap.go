package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of distill.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, siteURL string, filter *distill.URLFilter) ([]distill.SitemapEntry, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, siteURL string, filter *distill.URLFilter) ([]distill.SitemapEntry, error) {
	return s.DiscoverURLsFn(ctx, siteURL, filter)
}
