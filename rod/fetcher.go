// Package rod renders pages in headless Chrome with go-rod, working
// around the consent overlays and bot interstitials news sites put in
// front of their articles.
package rod

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/distill"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Fetch defaults.
const (
	DefaultFetchTimeout  = 60 * time.Second
	DefaultSettleDelay   = 2 * time.Second
	DefaultChallengeWait = 8 * time.Second
	DefaultScrollSteps   = 3
	DefaultScrollDelay   = 1500 * time.Millisecond
)

// challengeSelector marks a Cloudflare challenge still running.
const challengeSelector = "#challenge-running"

// dismissOverlaysJS removes modal and consent containers, then clicks the
// first short button that looks like an accept button. It reports whether
// it clicked.
const dismissOverlaysJS = `() => {
	const selectors = ['.modal', '.overlay', '[aria-modal="true"]', '[class*="consent"]',
		'[class*="cookie"]', '[class*="privacy"]', '[id*="consent"]', '[id*="cookie"]'];
	for (const sel of selectors) {
		document.querySelectorAll(sel).forEach(el => {
			if (el !== document.body && el !== document.documentElement) el.remove();
		});
	}
	const buttons = Array.from(document.querySelectorAll('button, [role="button"]'));
	const accept = buttons.find(b => {
		const text = (b.innerText || '').trim();
		return text.length < 60 && /accept|agree|ok|continue|aceitar|permitir/i.test(text);
	});
	if (accept) {
		accept.click();
		return true;
	}
	return false;
}`

const scrollBottomJS = `() => window.scrollTo(0, document.body ? document.body.scrollHeight : 0)`

const scrollTopJS = `() => window.scrollTo(0, 0)`

// Ensure Fetcher implements distill.Fetcher at compile time.
var _ distill.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Each fetch opens a fresh tab that identifies as a desktop browser, waits
// out challenge pages, dismisses consent overlays, scrolls to trigger lazy
// content and lets the page settle before reading the DOM.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	closed  atomic.Bool

	timeout       time.Duration
	settle        time.Duration
	challengeWait time.Duration
	scrollSteps   int
	scrollDelay   time.Duration
	userAgent     string
	width, height int
	managerOpts   []ManagerOption
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds a whole fetch, settling included.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithSettleDelay sets the pause before the DOM is read.
func WithSettleDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.settle = d
	}
}

// WithChallengeWait sets how long a running bot challenge is given to resolve.
func WithChallengeWait(d time.Duration) Option {
	return func(f *Fetcher) {
		f.challengeWait = d
	}
}

// WithScroll sets how many times the page is scrolled to the bottom and the
// pause after each scroll.
func WithScroll(steps int, delay time.Duration) Option {
	return func(f *Fetcher) {
		f.scrollSteps = steps
		f.scrollDelay = delay
	}
}

// WithUserAgent overrides distill.DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithBrowserOptions configures the underlying BrowserManager.
func WithBrowserOptions(opts ...ManagerOption) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, opts...)
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:       DefaultFetchTimeout,
		settle:        DefaultSettleDelay,
		challengeWait: DefaultChallengeWait,
		scrollSteps:   DefaultScrollSteps,
		scrollDelay:   DefaultScrollDelay,
		userAgent:     distill.DefaultUserAgent,
		width:         1920,
		height:        1080,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.managerOpts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", distill.Errorf(distill.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer f.manager.IncrementPageCount()
	defer page.Close()
	page = page.Context(ctx)

	if err := f.disguise(page); err != nil {
		return "", pageErr(ctx, "preparing page", err)
	}
	if err := page.Navigate(url); err != nil {
		return "", pageErr(ctx, "navigating", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", pageErr(ctx, "waiting for load", err)
	}
	if err := f.settlePage(ctx, page); err != nil {
		return "", pageErr(ctx, "settling page", err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", pageErr(ctx, "reading HTML", err)
	}
	return html, nil
}

// disguise makes the tab look like a desktop browser.
func (f *Fetcher) disguise(page *rod.Page) error {
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      f.userAgent,
		AcceptLanguage: distill.BrowserHeaders()["Accept-Language"],
	}); err != nil {
		return err
	}

	var headers []string
	for k, v := range distill.BrowserHeaders() {
		if k != "Accept-Language" {
			headers = append(headers, k, v)
		}
	}
	if _, err := page.SetExtraHeaders(headers); err != nil {
		return err
	}

	return page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             f.width,
		Height:            f.height,
		DeviceScaleFactor: 1,
	})
}

// settlePage waits out a running challenge, dismisses overlays, scrolls
// and pauses so late content can render.
func (f *Fetcher) settlePage(ctx context.Context, page *rod.Page) error {
	if f.challengeWait > 0 {
		if has, _, err := page.Has(challengeSelector); err == nil && has {
			if err := sleep(ctx, f.challengeWait); err != nil {
				return err
			}
		}
	}

	res, err := page.Eval(dismissOverlaysJS)
	if err != nil {
		return err
	}
	if res.Value.Bool() {
		if err := sleep(ctx, f.settle); err != nil {
			return err
		}
	}

	if f.scrollSteps > 0 {
		for range f.scrollSteps {
			if _, err := page.Eval(scrollBottomJS); err != nil {
				return err
			}
			if err := sleep(ctx, f.scrollDelay); err != nil {
				return err
			}
		}
		if _, err := page.Eval(scrollTopJS); err != nil {
			return err
		}
	}

	return sleep(ctx, f.settle)
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// pageErr prefers the context error so callers can match deadlines and
// cancellation with errors.Is.
func pageErr(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	return fmt.Errorf("%s: %w", op, err)
}
