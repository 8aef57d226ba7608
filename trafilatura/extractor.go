// Package trafilatura reads page metadata with go-trafilatura.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/distill"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements distill.MetadataExtractor at compile time.
var _ distill.MetadataExtractor = (*Extractor)(nil)

// Extractor reads the page title and byline from meta tags, JSON+LD and the
// document head. It does not select article content; that is the density
// scorer's job.
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

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		ExcludeComments: true,
	})
	if err != nil {
		return nil, distill.Errorf(distill.EINVALID, "failed to read metadata: %v", err)
	}

	return &distill.PageMetadata{
		Title:  strings.TrimSpace(result.Metadata.Title),
		Byline: strings.TrimSpace(result.Metadata.Author),
	}, nil
}
