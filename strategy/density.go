package strategy

import (
	"context"
	"strings"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/density"
)

// Compile-time interface verification.
var (
	_ Strategy = (*Density)(nil)
	_ Strategy = (*Fallback)(nil)
)

// Density extracts by block scoring. It produces when the result reaches
// the request's word floor; a thinner result is left as the candidate.
type Density struct {
	Extractor *density.Extractor
}

// Name implements Strategy.
func (s *Density) Name() string { return string(distill.MethodDensity) }

// Run implements Strategy.
func (s *Density) Run(ctx context.Context, req *Request) (Outcome, error) {
	doc, err := req.Document(ctx)
	if err != nil {
		return Outcome{}, err
	}

	// Nothing to work with; later strategies would find nothing either.
	if strings.TrimSpace(doc.Text) == "" {
		return Outcome{
			Result:   distill.NewExtractionResult("", distill.MethodNone),
			Produced: true,
			Title:    doc.Title,
		}, nil
	}

	markdown := s.Extractor.ExtractByDensity(doc.Text, doc.Title)
	if markdown == "" {
		return Outcome{Title: doc.Title}, nil
	}

	result := distill.NewExtractionResult(markdown, distill.MethodDensity)
	return Outcome{
		Result:   result,
		Produced: result.WordCount >= req.MinWords,
		Title:    doc.Title,
	}, nil
}

// Fallback extracts long single-line paragraphs. It only produces when it
// finds something, replacing whatever candidate came before.
type Fallback struct {
	Extractor *density.Extractor
}

// Name implements Strategy.
func (s *Fallback) Name() string { return string(distill.MethodFallback) }

// Run implements Strategy.
func (s *Fallback) Run(ctx context.Context, req *Request) (Outcome, error) {
	doc, err := req.Document(ctx)
	if err != nil {
		return Outcome{}, err
	}

	markdown := s.Extractor.ExtractParagraphFallback(doc.Text, doc.Title)
	if markdown == "" {
		return Outcome{}, nil
	}

	return Outcome{
		Result:   distill.NewExtractionResult(markdown, distill.MethodFallback),
		Produced: true,
		Title:    doc.Title,
	}, nil
}

// Extract runs density extraction with the paragraph fallback over an
// already rendered document, using ext (or the defaults when nil).
func Extract(doc *distill.RawDocument, minWords int, ext *density.Extractor) *distill.ExtractionResult {
	if ext == nil {
		ext = density.NewExtractor()
	}
	c := NewCoordinator(nil, &Density{Extractor: ext}, &Fallback{Extractor: ext})

	// The document is in memory, so no strategy can fail.
	out, _ := c.Run(context.Background(), NewDocumentRequest(doc, minWords))
	return out.Result
}
