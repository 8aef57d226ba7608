package http

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/distill"
)

// Ensure SitemapService implements distill.SitemapService.
var _ distill.SitemapService = (*SitemapService)(nil)

// lastmodLayouts are the W3C datetime forms sitemaps use.
var lastmodLayouts = []string{time.RFC3339, "2006-01-02T15:04Z07:00", "2006-01-02"}

// SitemapService discovers article URLs from website sitemaps via HTTP.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs implements distill.SitemapService.
//
// When siteURL is a site root with a non-root path (e.g.,
// https://example.com/world/), only entries under that path are returned.
func (s *SitemapService) DiscoverURLs(ctx context.Context, siteURL string, filter *distill.URLFilter) ([]distill.SitemapEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(siteURL)
	if err != nil || base.Host == "" {
		return nil, distill.Errorf(distill.EINVALID, "invalid site URL: %q", siteURL)
	}

	var sitemapURLs []string
	var pathPrefix string
	if strings.HasSuffix(strings.ToLower(base.Path), ".xml") {
		sitemapURLs = []string{base.String()}
	} else {
		pathPrefix = strings.TrimSuffix(base.Path, "/")
		root := *base
		root.Path, root.RawQuery = "", ""
		if sitemapURLs, err = s.findSitemapURLs(ctx, &root); err != nil {
			return nil, err
		}
	}

	var entries []distill.SitemapEntry
	seenSitemaps := make(map[string]bool)
	seenURLs := make(map[string]bool)
	for _, sitemapURL := range sitemapURLs {
		found, err := s.processSitemap(ctx, sitemapURL, seenSitemaps)
		if err != nil {
			return nil, err
		}
		for _, e := range found {
			if seenURLs[e.URL] {
				continue
			}
			seenURLs[e.URL] = true
			if pathPrefix != "" && !matchesPathPrefix(e.URL, pathPrefix) {
				continue
			}
			if !filter.Match(e.URL) {
				continue
			}
			entries = append(entries, e)
		}
	}

	slices.SortStableFunc(entries, func(a, b distill.SitemapEntry) int {
		return cmp.Compare(b.LastModified.UnixNano(), a.LastModified.UnixNano())
	})
	return entries, nil
}

// matchesPathPrefix checks if a URL's path is prefix or lies below it.
// /world matches /world and /world/europe but not /worldcup.
func matchesPathPrefix(rawURL, prefix string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.TrimSuffix(parsed.Path, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// findSitemapURLs discovers sitemap URLs from robots.txt or falls back to /sitemap.xml.
func (s *SitemapService) findSitemapURLs(ctx context.Context, base *url.URL) ([]string, error) {
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})
	sitemaps, err := s.parseSitemapsFromRobots(ctx, robotsURL.String())
	if err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}

	sitemapURL := base.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	exists, err := s.urlExists(ctx, sitemapURL.String())
	if err != nil {
		// Propagate context errors, treat other errors as "not found"
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if exists {
		return []string{sitemapURL.String()}, nil
	}
	return nil, nil
}

// parseSitemapsFromRobots extracts Sitemap: directives from robots.txt.
func (s *SitemapService) parseSitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.fetchURL(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) > len("sitemap:") && strings.EqualFold(line[:len("sitemap:")], "sitemap:") {
			if u := strings.TrimSpace(line[len("sitemap:"):]); u != "" {
				sitemaps = append(sitemaps, u)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return sitemaps, nil
}

// processSitemap fetches and parses a sitemap, handling both urlset and sitemapindex.
func (s *SitemapService) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]distill.SitemapEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, distill.Errorf(distill.EINVALID, "parsing sitemap XML: %v", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, distill.Errorf(distill.EINVALID, "empty sitemap XML: %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		var entries []distill.SitemapEntry
		for _, sm := range root.SelectElements("sitemap") {
			loc := sm.SelectElement("loc")
			if loc == nil || strings.TrimSpace(loc.Text()) == "" {
				continue
			}
			found, err := s.processSitemap(ctx, strings.TrimSpace(loc.Text()), seen)
			if err != nil {
				return nil, err
			}
			entries = append(entries, found...)
		}
		return entries, nil
	}

	return parseURLSet(root), nil
}

// parseURLSet extracts entries from a <urlset> element, including the
// news:title of Google News sitemaps.
func parseURLSet(root *etree.Element) []distill.SitemapEntry {
	var entries []distill.SitemapEntry
	for _, urlEl := range root.SelectElements("url") {
		loc := urlEl.SelectElement("loc")
		if loc == nil {
			continue
		}
		e := distill.SitemapEntry{URL: strings.TrimSpace(loc.Text())}
		if e.URL == "" {
			continue
		}
		if lastmod := urlEl.SelectElement("lastmod"); lastmod != nil {
			e.LastModified = parseLastmod(lastmod.Text())
		}
		if news := urlEl.SelectElement("news:news"); news != nil {
			if title := news.SelectElement("news:title"); title != nil {
				e.Title = strings.TrimSpace(title.Text())
			}
			if e.LastModified.IsZero() {
				if pub := news.SelectElement("news:publication_date"); pub != nil {
					e.LastModified = parseLastmod(pub.Text())
				}
			}
		}
		entries = append(entries, e)
	}
	return entries
}

func parseLastmod(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range lastmodLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// fetchURL fetches a URL and returns the response body.
func (s *SitemapService) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	setBrowserHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, distill.Errorf(distill.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, targetURL)
	}
	return resp.Body, nil
}

// urlExists checks if a URL returns 200 OK.
func (s *SitemapService) urlExists(ctx context.Context, targetURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	setBrowserHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}
