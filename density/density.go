// Package density extracts article text from page markdown by scoring
// blank-line separated blocks and keeping those whose score clears a
// threshold anchored to the page's own median. A simpler long-paragraph
// extractor covers pages where scoring keeps too little.
//
// Everything here is a pure function of its input: no I/O, no shared state.
package density

// Extractor bundles scoring weights and fallback settings.
// The zero value is not usable; construct with NewExtractor.
type Extractor struct {
	weights  ScoringWeights
	fallback FallbackConfig
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithWeights replaces the scoring weight table.
func WithWeights(w ScoringWeights) Option {
	return func(e *Extractor) {
		e.weights = w
	}
}

// WithBlocklist replaces the fallback blocklist. Use ConsentTerms alone for
// markdown that did not come through the browser crawl path.
func WithBlocklist(terms []string) Option {
	return func(e *Extractor) {
		e.fallback.Blocklist = terms
	}
}

// WithFallbackConfig replaces the fallback settings.
func WithFallbackConfig(c FallbackConfig) Option {
	return func(e *Extractor) {
		e.fallback = c
	}
}

// NewExtractor creates an Extractor with the default weights and fallback
// settings.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		weights:  DefaultWeights(),
		fallback: DefaultFallbackConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// blocks segments and scores text without selecting.
func (e *Extractor) blocks(text string) Corpus {
	return e.weights.Score(Segment(text))
}

// ExtractByDensity runs segmentation, scoring and selection over text.
// It returns "" when no block qualifies.
func (e *Extractor) ExtractByDensity(text, title string) string {
	return e.weights.Select(e.blocks(text), title)
}

// ExtractParagraphFallback runs the long-paragraph fallback over text.
func (e *Extractor) ExtractParagraphFallback(text, title string) string {
	return e.fallback.Fallback(text, title)
}

var defaultExtractor = NewExtractor()

// ExtractByDensity extracts with the default configuration.
func ExtractByDensity(text, title string) string {
	return defaultExtractor.ExtractByDensity(text, title)
}

// ExtractParagraphFallback extracts with the default configuration.
func ExtractParagraphFallback(text, title string) string {
	return defaultExtractor.ExtractParagraphFallback(text, title)
}
