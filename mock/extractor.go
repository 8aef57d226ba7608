package mock

import "github.com/fwojciec/distill"

var _ distill.MetadataExtractor = (*MetadataExtractor)(nil)

// MetadataExtractor is a mock implementation of distill.MetadataExtractor.
type MetadataExtractor struct {
	ExtractFn func(html string) (*distill.PageMetadata, error)
}

func (e *MetadataExtractor) Extract(html string) (*distill.PageMetadata, error) {
	return e.ExtractFn(html)
}
