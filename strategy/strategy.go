// Package strategy decides how an article is extracted. Strategies are tried
// in order and the first one that produces a result wins; the rest never run.
package strategy

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fwojciec/distill"
)

// Request is the input to one coordinated extraction.
// The page document is loaded at most once, and only when a strategy asks
// for it, so a structured source can answer without a browser crawl.
type Request struct {
	URL      string
	MinWords int

	load    func(ctx context.Context) (*distill.RawDocument, error)
	once    sync.Once
	doc     *distill.RawDocument
	loadErr error
}

// NewRequest creates a request whose document is produced by load on demand.
func NewRequest(url string, minWords int, load func(ctx context.Context) (*distill.RawDocument, error)) *Request {
	return &Request{URL: url, MinWords: minWords, load: load}
}

// NewDocumentRequest creates a request for an already rendered document.
func NewDocumentRequest(doc *distill.RawDocument, minWords int) *Request {
	return NewRequest(doc.URL, minWords, func(context.Context) (*distill.RawDocument, error) {
		return doc, nil
	})
}

// Document returns the page document, loading it on first use.
func (r *Request) Document(ctx context.Context) (*distill.RawDocument, error) {
	r.once.Do(func() {
		if r.load == nil {
			r.loadErr = distill.Errorf(distill.EINVALID, "no document for %s", r.URL)
			return
		}
		r.doc, r.loadErr = r.load(ctx)
	})
	return r.doc, r.loadErr
}

// Loaded returns the document if a strategy has loaded it.
func (r *Request) Loaded() *distill.RawDocument {
	return r.doc
}

// Outcome is a strategy's verdict.
type Outcome struct {
	// Result is the strategy's extraction. A passing strategy may still
	// leave a result behind as the candidate for when nothing produces.
	Result *distill.ExtractionResult

	// Produced ends the run with Result.
	Produced bool

	// Title and Source describe the article when the strategy knows them.
	Title  string
	Source string
}

// Strategy is one way of extracting an article.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Run returns an Outcome. Errors are reserved for failures that make
	// every later strategy pointless too, such as a page that cannot be
	// rendered; a strategy that merely fails to find an article passes.
	Run(ctx context.Context, req *Request) (Outcome, error)
}

// Coordinator runs strategies in order.
type Coordinator struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewCoordinator creates a Coordinator over the given strategies.
func NewCoordinator(logger *slog.Logger, strategies ...Strategy) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{strategies: strategies, logger: logger}
}

// Run tries each strategy once. When none produces, the last candidate left
// by a passing strategy is returned; failing that, an empty result.
func (c *Coordinator) Run(ctx context.Context, req *Request) (Outcome, error) {
	var candidate Outcome
	for _, s := range c.strategies {
		out, err := s.Run(ctx, req)
		if err != nil {
			return Outcome{}, err
		}

		words := 0
		if out.Result != nil {
			words = out.Result.WordCount
		}
		c.logger.Debug("strategy",
			"name", s.Name(),
			"url", req.URL,
			"produced", out.Produced,
			"words", words,
		)

		if out.Produced {
			return out, nil
		}
		if out.Result != nil {
			candidate = out
		}
	}

	if candidate.Result.IsEmpty() {
		return Outcome{Result: distill.NewExtractionResult("", distill.MethodNone), Title: candidate.Title}, nil
	}
	return candidate, nil
}
