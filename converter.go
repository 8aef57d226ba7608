package distill

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input is typically a pruned page (see Sanitizer); link syntax is
	// kept so the density scorer can measure link density.
	Convert(html string) (string, error)
}

// Sanitizer removes elements that never carry article text (scripts,
// styles, embedded frames, media, modal overlays and consent banners)
// from rendered HTML.
type Sanitizer interface {
	Sanitize(html string) (string, error)
}
