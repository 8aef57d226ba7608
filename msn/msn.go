// Package msn reads articles from the MSN content API. MSN article pages
// render their body client-side; the Detail endpoint returns the same
// article as structured JSON without a browser.
package msn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/fwojciec/distill"
)

// Defaults for the Detail endpoint.
const (
	DefaultBaseURL = "https://assets.msn.com/content/view/v2/Detail"
	DefaultLocale  = "en-us"
	DefaultTimeout = 30 * time.Second

	// Referer is sent with API requests, as the MSN site itself does.
	Referer = "https://www.msn.com/"
)

// Ensure Client implements distill.ArticleSource at compile time.
var _ distill.ArticleSource = (*Client)(nil)

var articleIDRe = regexp.MustCompile(`/ar-([A-Za-z0-9]+)`)

// Client fetches articles from the MSN Detail API.
type Client struct {
	client  *http.Client
	baseURL string
	locale  string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different Detail endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithLocale sets the content locale, e.g. "pt-br".
func WithLocale(locale string) Option {
	return func(c *Client) {
		c.locale = locale
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a new Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		locale:  DefaultLocale,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = &http.Client{Timeout: c.timeout}
	return c
}

// ArticleID implements distill.ArticleSource. MSN article URLs end in a
// path segment of the form ar-<id>.
func (c *Client) ArticleID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host != "msn.com" && !strings.HasSuffix(host, ".msn.com") {
		return "", false
	}
	m := articleIDRe.FindStringSubmatch(u.Path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// detail is the subset of the Detail response we read.
type detail struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Body     string `json:"body"`
	Source   string `json:"sourceHref"`
	Authors  []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

// FetchArticle implements distill.ArticleSource.
// Returns ENOTFOUND for unknown ids and EUNAVAILABLE for other non-200
// responses.
func (c *Client) FetchArticle(ctx context.Context, id string) (*distill.Article, error) {
	if id == "" {
		return nil, distill.Errorf(distill.EINVALID, "article id required")
	}

	endpoint := c.baseURL + "/" + url.PathEscape(c.locale) + "/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", distill.DefaultUserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", acceptLanguage(c.locale))
	req.Header.Set("Referer", Referer)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching msn article %s: %w", id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, distill.Errorf(distill.ENOTFOUND, "msn article %s not found", id)
	case resp.StatusCode != http.StatusOK:
		return nil, distill.Errorf(distill.EUNAVAILABLE, "HTTP %d for msn article %s", resp.StatusCode, id)
	}

	var d detail
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return nil, distill.Errorf(distill.EUNAVAILABLE, "decoding msn article %s: %v", id, err)
	}

	article := &distill.Article{
		ID:        id,
		Title:     d.Title,
		Abstract:  d.Abstract,
		BodyHTML:  d.Body,
		SourceURL: d.Source,
	}
	for _, a := range d.Authors {
		article.Authors = append(article.Authors, a.Name)
	}
	return article, nil
}

// acceptLanguage turns a content locale such as "pt-br" into an
// Accept-Language value preferring that region, then the bare language.
func acceptLanguage(locale string) string {
	lang, region, ok := strings.Cut(locale, "-")
	lang = strings.ToLower(lang)
	if !ok || region == "" {
		return lang
	}
	return lang + "-" + strings.ToUpper(region) + "," + lang + ";q=0.9"
}
