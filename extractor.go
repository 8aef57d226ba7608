package distill

// PageMetadata holds what can be learned about a page from its HTML head
// and structured data.
type PageMetadata struct {
	// Title is the page title from meta tags, JSON+LD, or <title>.
	Title string

	// Byline is the author line when the page declares one.
	Byline string
}

// MetadataExtractor reads page metadata from rendered HTML.
type MetadataExtractor interface {
	// Extract parses raw HTML and returns its metadata.
	// Returns EINVALID for empty input.
	Extract(html string) (*PageMetadata, error)
}
