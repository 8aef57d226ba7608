package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure ArticleFormatter implements distill.ArticleFormatter at compile time.
var _ distill.ArticleFormatter = (*ArticleFormatter)(nil)

// blockElements end the paragraph being collected.
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true, atom.Blockquote: true, atom.Pre: true,
	atom.Br: true, atom.Hr: true, atom.Table: true, atom.Tr: true,
	atom.Figure: true, atom.Figcaption: true, atom.Header: true, atom.Footer: true,
}

// ArticleFormatter renders structured articles as markdown.
type ArticleFormatter struct{}

// NewArticleFormatter creates a new ArticleFormatter.
func NewArticleFormatter() *ArticleFormatter {
	return &ArticleFormatter{}
}

// FormatArticle implements distill.ArticleFormatter. The output is the
// title heading, the byline, the italic abstract, the body text and a
// source footer, each present only when the article has it, separated by
// blank lines.
func (f *ArticleFormatter) FormatArticle(a *distill.Article) (string, error) {
	if a == nil {
		return "", distill.Errorf(distill.EINVALID, "article required")
	}

	var parts []string
	if title := strings.TrimSpace(a.Title); title != "" {
		parts = append(parts, "# "+title)
	}

	var authors []string
	for _, name := range a.Authors {
		if name = strings.TrimSpace(name); name != "" {
			authors = append(authors, name)
		}
	}
	if len(authors) > 0 {
		parts = append(parts, "**By:** "+strings.Join(authors, ", "))
	}

	if abstract := strings.TrimSpace(a.Abstract); abstract != "" {
		parts = append(parts, "*"+abstract+"*")
	}

	if strings.TrimSpace(a.BodyHTML) != "" {
		body, err := BodyText(a.BodyHTML)
		if err != nil {
			return "", err
		}
		if body != "" {
			parts = append(parts, body)
		}
	}

	if src := strings.TrimSpace(a.SourceURL); src != "" {
		parts = append(parts, "---\n**Source:** ["+src+"]("+src+")")
	}

	return strings.Join(parts, "\n\n"), nil
}

// BodyText returns the readable text of an HTML fragment. Scripts, styles
// and embedded frames are dropped. Each block element becomes a paragraph;
// inline text within a block is joined with whitespace collapsed.
func BodyText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", distill.Errorf(distill.EINVALID, "failed to parse article body: %v", err)
	}
	doc.Find("script, style, iframe, noscript").Remove()

	var (
		paragraphs []string
		buf        strings.Builder
	)
	flush := func() {
		if text := strings.Join(strings.Fields(buf.String()), " "); text != "" {
			paragraphs = append(paragraphs, text)
		}
		buf.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
		case html.ElementNode:
			if blockElements[n.DataAtom] {
				flush()
				defer flush()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	flush()

	return strings.Join(paragraphs, "\n\n"), nil
}
