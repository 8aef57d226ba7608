package distill

import (
	"context"
	"strings"
	"unicode/utf8"
)

// DefaultMinWords is the word floor below which a density extraction is
// considered too thin and the paragraph fallback is attempted.
const DefaultMinWords = 100

// MinContentChars is the length a result must exceed to report content.
const MinContentChars = 200

// RawDocument is the crawler's rendering of a page: one large markdown blob
// plus the page title taken from metadata. Title may be empty.
type RawDocument struct {
	URL   string
	Text  string
	Title string
}

// Method identifies the strategy that produced an extraction.
type Method string

// Method constants for ExtractionResult.
const (
	MethodNone     Method = ""
	MethodExternal Method = "external"
	MethodDensity  Method = "density"
	MethodFallback Method = "fallback"
)

// ExtractionResult is the article text chosen for a single request.
type ExtractionResult struct {
	Markdown    string `json:"markdown"`
	WordCount   int    `json:"word_count"`
	Method      Method `json:"method"`
	LengthChars int    `json:"length_chars"`
}

// NewExtractionResult builds a result for markdown produced by method,
// deriving the word and character counts.
func NewExtractionResult(markdown string, method Method) *ExtractionResult {
	return &ExtractionResult{
		Markdown:    markdown,
		WordCount:   CountWords(markdown),
		Method:      method,
		LengthChars: utf8.RuneCountInString(markdown),
	}
}

// IsEmpty reports whether the result carries no text.
func (r *ExtractionResult) IsEmpty() bool {
	return r == nil || strings.TrimSpace(r.Markdown) == ""
}

// CountWords returns the number of whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// QualityReport describes how confident we are that a result is an article.
type QualityReport struct {
	HasContent       bool   `json:"has_content"`
	WordCount        int    `json:"word_count"`
	LikelyArticle    bool   `json:"likely_article"`
	ExtractionMethod Method `json:"extraction_method"`
}

// NewQualityReport grades r against the minWords floor.
func NewQualityReport(r *ExtractionResult, minWords int) QualityReport {
	if r == nil {
		return QualityReport{}
	}
	return QualityReport{
		HasContent:       r.LengthChars > MinContentChars,
		WordCount:        r.WordCount,
		LikelyArticle:    r.WordCount >= minWords,
		ExtractionMethod: r.Method,
	}
}

// Extraction is the envelope returned for one URL: the chosen result, its
// quality report, and what was learned about the page along the way.
type Extraction struct {
	URL       string           `json:"url"`
	Title     string           `json:"title"`
	Source    string           `json:"source,omitempty"`
	RawLength int              `json:"raw_markdown_length,omitempty"`
	Challenge bool             `json:"challenge"`
	Result    ExtractionResult `json:"result"`
	Quality   QualityReport    `json:"quality_check"`
	RecordID  string           `json:"record_id,omitempty"`
}

// ExtractionService turns a URL into an article.
type ExtractionService interface {
	// Extract fetches the page behind url and returns the best article
	// extraction. Low-quality or empty results are not errors; they are
	// reported through the quality report. Errors are reserved for failures
	// that leave nothing to extract from (e.g., the page could not be rendered).
	Extract(ctx context.Context, url string, minWords int) (*Extraction, error)
}

// DocumentExtractor runs extraction over markdown the caller already has.
type DocumentExtractor interface {
	ExtractDocument(ctx context.Context, doc *RawDocument, minWords int) (*Extraction, error)
}

// Crawler renders a URL into raw page markdown.
type Crawler interface {
	Crawl(ctx context.Context, url string) (*RawDocument, error)
}
