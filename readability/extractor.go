// Package readability reads page metadata with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/distill"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements distill.MetadataExtractor at compile time.
var _ distill.MetadataExtractor = (*Extractor)(nil)

// Extractor reads the page title and byline the way Firefox Reader View does.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract implements distill.MetadataExtractor.
func (e *Extractor) Extract(rawHTML string) (*distill.PageMetadata, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, distill.Errorf(distill.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, distill.Errorf(distill.EINVALID, "failed to read metadata: %v", err)
	}

	return &distill.PageMetadata{
		Title:  strings.TrimSpace(article.Title),
		Byline: strings.TrimSpace(article.Byline),
	}, nil
}
