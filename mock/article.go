package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var (
	_ distill.ArticleSource    = (*ArticleSource)(nil)
	_ distill.ArticleFormatter = (*ArticleFormatter)(nil)
)

// ArticleSource is a mock implementation of distill.ArticleSource.
type ArticleSource struct {
	ArticleIDFn    func(url string) (string, bool)
	FetchArticleFn func(ctx context.Context, id string) (*distill.Article, error)
}

func (s *ArticleSource) ArticleID(url string) (string, bool) {
	return s.ArticleIDFn(url)
}

func (s *ArticleSource) FetchArticle(ctx context.Context, id string) (*distill.Article, error) {
	return s.FetchArticleFn(ctx, id)
}

// ArticleFormatter is a mock implementation of distill.ArticleFormatter.
type ArticleFormatter struct {
	FormatArticleFn func(article *distill.Article) (string, error)
}

func (f *ArticleFormatter) FormatArticle(article *distill.Article) (string, error) {
	return f.FormatArticleFn(article)
}
