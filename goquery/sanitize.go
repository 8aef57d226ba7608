// Package goquery prunes rendered HTML and renders structured article
// bodies using github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
)

// Ensure Sanitizer implements distill.Sanitizer at compile time.
var _ distill.Sanitizer = (*Sanitizer)(nil)

// NoiseSelectors match elements that never carry article text.
var NoiseSelectors = []string{
	"script", "style", "iframe", "noscript", "template",
	"img", "picture", "svg", "video", "audio", "canvas",
}

// OverlaySelectors match modal dialogs and consent banners.
var OverlaySelectors = []string{
	".modal", ".overlay", `[aria-modal="true"]`, `[role="dialog"]`,
	`[class*="consent"]`, `[class*="cookie"]`, `[class*="privacy"]`,
	`[id*="consent"]`, `[id*="cookie"]`, `[id*="privacy"]`,
}

// SanitizerOption configures a Sanitizer.
type SanitizerOption func(*Sanitizer)

// WithSelectors appends selectors to the removal list.
func WithSelectors(selectors ...string) SanitizerOption {
	return func(s *Sanitizer) {
		s.selectors = append(s.selectors, selectors...)
	}
}

// Sanitizer removes noise and overlay elements from HTML before conversion.
type Sanitizer struct {
	selectors []string
}

// NewSanitizer creates a Sanitizer removing NoiseSelectors and
// OverlaySelectors plus any extra selectors given as options.
func NewSanitizer(opts ...SanitizerOption) *Sanitizer {
	s := &Sanitizer{}
	s.selectors = append(s.selectors, NoiseSelectors...)
	s.selectors = append(s.selectors, OverlaySelectors...)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sanitize implements distill.Sanitizer. The html and body elements are
// never removed, even when their class names match an overlay selector.
func (s *Sanitizer) Sanitize(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", distill.Errorf(distill.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", distill.Errorf(distill.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find(strings.Join(s.selectors, ", ")).Not("html, body, main, article").Remove()

	out, err := doc.Html()
	if err != nil {
		return "", distill.Errorf(distill.EINTERNAL, "failed to render HTML: %v", err)
	}
	return out, nil
}
