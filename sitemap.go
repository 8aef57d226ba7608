package distill

import (
	"context"
	"regexp"
	"slices"
	"time"
)

// SitemapEntry is a page announced by a site's sitemap.
type SitemapEntry struct {
	URL string

	// Title is the news:title of a news sitemap entry, if any.
	Title string

	// LastModified is zero when the sitemap does not say.
	LastModified time.Time
}

// SitemapService discovers article URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs lists the entries of a site's sitemaps, newest first.
	// siteURL is either a sitemap (ending in .xml) or a site root, in which
	// case robots.txt is consulted before falling back to /sitemap.xml.
	// Sitemap indexes are resolved recursively.
	//
	// If filter is nil, all entries are returned.
	DiscoverURLs(ctx context.Context, siteURL string, filter *URLFilter) ([]SitemapEntry, error)
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	matches := func(re *regexp.Regexp) bool { return re.MatchString(url) }
	if len(f.Include) > 0 && !slices.ContainsFunc(f.Include, matches) {
		return false
	}
	return !slices.ContainsFunc(f.Exclude, matches)
}
