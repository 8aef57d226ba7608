package strategy

import (
	"context"
	"log/slog"

	"github.com/fwojciec/distill"
)

// Ensure External implements Strategy at compile time.
var _ Strategy = (*External)(nil)

// External asks a structured article source before anything is crawled.
// Structured articles are trusted as delivered; no density scoring applies.
// Every failure of the source is soft: the strategy passes.
type External struct {
	Source    distill.ArticleSource
	Formatter distill.ArticleFormatter
	Logger    *slog.Logger
}

// Name implements Strategy.
func (s *External) Name() string { return string(distill.MethodExternal) }

// Run implements Strategy.
func (s *External) Run(ctx context.Context, req *Request) (Outcome, error) {
	id, ok := s.Source.ArticleID(req.URL)
	if !ok {
		return Outcome{}, nil
	}

	article, err := s.Source.FetchArticle(ctx, id)
	if err != nil {
		s.warn("structured source failed, falling through", req.URL, err)
		return Outcome{}, nil
	}

	markdown, err := s.Formatter.FormatArticle(article)
	if err != nil {
		s.warn("formatting structured article failed, falling through", req.URL, err)
		return Outcome{}, nil
	}

	result := distill.NewExtractionResult(markdown, distill.MethodExternal)
	if result.IsEmpty() {
		return Outcome{}, nil
	}

	source := article.SourceURL
	if source == "" {
		source = req.URL
	}
	return Outcome{
		Result:   result,
		Produced: true,
		Title:    article.Title,
		Source:   source,
	}, nil
}

func (s *External) warn(msg, url string, err error) {
	if s.Logger != nil {
		s.Logger.Warn(msg, "url", url, "err", err)
	}
}
