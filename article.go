package distill

import "context"

// Article is a pre-parsed article delivered by a structured source.
// BodyHTML is the article body as HTML; it is trusted and already segmented.
type Article struct {
	ID        string
	Title     string
	Authors   []string
	Abstract  string
	BodyHTML  string
	SourceURL string
}

// ArticleSource is a structured article API keyed by an identifier parsed
// from the page URL.
type ArticleSource interface {
	// ArticleID parses the source's article identifier out of url.
	// It returns false when url does not belong to the source.
	ArticleID(url string) (string, bool)

	// FetchArticle retrieves the article with the given identifier.
	FetchArticle(ctx context.Context, id string) (*Article, error)
}

// ArticleFormatter renders a structured article as markdown.
type ArticleFormatter interface {
	FormatArticle(article *Article) (string, error)
}
