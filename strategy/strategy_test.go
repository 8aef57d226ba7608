package strategy_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/density"
	"github.com/fwojciec/distill/mock"
	"github.com/fwojciec/distill/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 50 words, 3 sentences.
const councilParagraph = "The city council approved the new transit plan on Tuesday after months of debate. " +
	"Officials said construction of the first light rail segment will begin next spring and should finish within three years. " +
	"Residents along the proposed route raised concerns about noise and parking during public hearings held this summer."

// spy counts runs of a wrapped strategy.
type spy struct {
	strategy.Strategy
	runs int
}

func (s *spy) Run(ctx context.Context, req *strategy.Request) (strategy.Outcome, error) {
	s.runs++
	return s.Strategy.Run(ctx, req)
}

// stub is a strategy with a fixed outcome.
type stub struct {
	name string
	out  strategy.Outcome
	err  error
	runs int
}

func (s *stub) Name() string { return s.name }

func (s *stub) Run(context.Context, *strategy.Request) (strategy.Outcome, error) {
	s.runs++
	return s.out, s.err
}

func densityChain(ext *density.Extractor) (*strategy.Coordinator, *spy) {
	fallback := &spy{Strategy: &strategy.Fallback{Extractor: ext}}
	return strategy.NewCoordinator(nil, &strategy.Density{Extractor: ext}, fallback), fallback
}

func TestCoordinator_Run(t *testing.T) {
	t.Parallel()

	t.Run("stops at the first producing strategy", func(t *testing.T) {
		t.Parallel()

		first := &stub{name: "first", out: strategy.Outcome{
			Result:   distill.NewExtractionResult("hello world", distill.MethodExternal),
			Produced: true,
		}}
		second := &stub{name: "second"}

		c := strategy.NewCoordinator(nil, first, second)
		out, err := c.Run(context.Background(), strategy.NewRequest("https://example.com", 10, nil))

		require.NoError(t, err)
		assert.Equal(t, "hello world", out.Result.Markdown)
		assert.Equal(t, 1, first.runs)
		assert.Equal(t, 0, second.runs)
	})

	t.Run("returns the last candidate when nothing produces", func(t *testing.T) {
		t.Parallel()

		first := &stub{name: "first", out: strategy.Outcome{
			Result: distill.NewExtractionResult("thin result", distill.MethodDensity),
		}}
		second := &stub{name: "second"}

		c := strategy.NewCoordinator(nil, first, second)
		out, err := c.Run(context.Background(), strategy.NewRequest("https://example.com", 10, nil))

		require.NoError(t, err)
		assert.Equal(t, "thin result", out.Result.Markdown)
		assert.Equal(t, distill.MethodDensity, out.Result.Method)
		assert.Equal(t, 1, second.runs)
	})

	t.Run("returns an empty result when nothing is found", func(t *testing.T) {
		t.Parallel()

		c := strategy.NewCoordinator(nil, &stub{name: "only"})
		out, err := c.Run(context.Background(), strategy.NewRequest("https://example.com", 10, nil))

		require.NoError(t, err)
		require.NotNil(t, out.Result)
		assert.Empty(t, out.Result.Markdown)
		assert.Equal(t, distill.MethodNone, out.Result.Method)
	})

	t.Run("propagates strategy errors", func(t *testing.T) {
		t.Parallel()

		boom := &stub{name: "boom", err: errors.New("browser crashed")}
		never := &stub{name: "never"}

		c := strategy.NewCoordinator(nil, boom, never)
		_, err := c.Run(context.Background(), strategy.NewRequest("https://example.com", 10, nil))

		require.EqualError(t, err, "browser crashed")
		assert.Equal(t, 0, never.runs)
	})

	t.Run("loads the document at most once", func(t *testing.T) {
		t.Parallel()

		loads := 0
		req := strategy.NewRequest("https://example.com", 500, func(context.Context) (*distill.RawDocument, error) {
			loads++
			return &distill.RawDocument{Text: councilParagraph}, nil
		})
		c, fallback := densityChain(density.NewExtractor())

		_, err := c.Run(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, 1, fallback.runs)
		assert.Equal(t, 1, loads)
	})
}

func TestDensityAndFallback(t *testing.T) {
	t.Parallel()

	t.Run("never runs the fallback once the word floor is met", func(t *testing.T) {
		t.Parallel()

		c, fallback := densityChain(density.NewExtractor())
		doc := &distill.RawDocument{Text: "Menu\n\n" + councilParagraph}

		out, err := c.Run(context.Background(), strategy.NewDocumentRequest(doc, 50))

		require.NoError(t, err)
		assert.Equal(t, distill.MethodDensity, out.Result.Method)
		assert.Equal(t, 0, fallback.runs)
	})

	t.Run("runs the fallback below the word floor", func(t *testing.T) {
		t.Parallel()

		c, fallback := densityChain(density.NewExtractor())
		doc := &distill.RawDocument{Text: councilParagraph}

		out, err := c.Run(context.Background(), strategy.NewDocumentRequest(doc, 51))

		require.NoError(t, err)
		assert.Equal(t, 1, fallback.runs)
		assert.Equal(t, distill.MethodFallback, out.Result.Method)
		assert.Equal(t, councilParagraph, out.Result.Markdown)
	})

	t.Run("keeps the density result when the fallback finds nothing", func(t *testing.T) {
		t.Parallel()

		// Two short prose blocks: density keeps them, no line reaches 100 chars.
		text := "The council voted seven to two in favour of the plan.\n\nConstruction is expected to begin next spring, officials said."
		doc := &distill.RawDocument{Text: text}

		c, fallback := densityChain(density.NewExtractor())
		out, err := c.Run(context.Background(), strategy.NewDocumentRequest(doc, 100))

		require.NoError(t, err)
		assert.Equal(t, 1, fallback.runs)
		assert.Equal(t, distill.MethodDensity, out.Result.Method)
		assert.Equal(t, text, out.Result.Markdown)

		q := distill.NewQualityReport(out.Result, 100)
		assert.False(t, q.LikelyArticle)
	})

	t.Run("returns immediately for empty input", func(t *testing.T) {
		t.Parallel()

		c, fallback := densityChain(density.NewExtractor())
		doc := &distill.RawDocument{Text: " \n\n\t "}

		out, err := c.Run(context.Background(), strategy.NewDocumentRequest(doc, 100))

		require.NoError(t, err)
		assert.Equal(t, 0, fallback.runs)
		assert.Empty(t, out.Result.Markdown)
		assert.Equal(t, distill.MethodNone, out.Result.Method)
		assert.False(t, distill.NewQualityReport(out.Result, 100).HasContent)
	})

	t.Run("propagates document load errors", func(t *testing.T) {
		t.Parallel()

		c, _ := densityChain(density.NewExtractor())
		req := strategy.NewRequest("https://example.com", 100, func(context.Context) (*distill.RawDocument, error) {
			return nil, errors.New("navigation timeout")
		})

		_, err := c.Run(context.Background(), req)

		require.EqualError(t, err, "navigation timeout")
	})
}

func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("keeps the long paragraph and drops a short menu", func(t *testing.T) {
		t.Parallel()

		paragraph := "This is a genuinely long paragraph of article prose with punctuation. " +
			"It has more than forty words repeated to pad length out substantially for testing purposes and clarity and readability today."
		doc := &distill.RawDocument{Text: "Short menu\nShort menu\nShort menu\n\n" + paragraph}

		res := strategy.Extract(doc, 20, nil)

		assert.Equal(t, paragraph, res.Markdown)
		assert.Equal(t, distill.MethodDensity, res.Method)
		assert.GreaterOrEqual(t, res.WordCount, 20)
	})

	t.Run("reports no content for pure consent boilerplate", func(t *testing.T) {
		t.Parallel()

		doc := &distill.RawDocument{
			Text: strings.Repeat("Accept Cookies Manage Preferences Privacy Policy\n\n", 5),
		}

		res := strategy.Extract(doc, 50, nil)
		q := distill.NewQualityReport(res, 50)

		assert.Empty(t, res.Markdown)
		assert.False(t, q.HasContent)
		assert.False(t, q.LikelyArticle)
	})

	t.Run("never panics on malformed markdown", func(t *testing.T) {
		t.Parallel()

		inputs := []string{
			"[unclosed](link",
			"]]][[[ ((( ))) ![](",
			"https://only.example.com/url",
			strings.Repeat("[a](b)", 500),
			"\n\n\n\n\n",
		}
		for _, in := range inputs {
			assert.NotPanics(t, func() {
				strategy.Extract(&distill.RawDocument{Text: in, Title: "T"}, 100, nil)
			})
		}
	})

	t.Run("reports content above two hundred characters", func(t *testing.T) {
		t.Parallel()

		res := strategy.Extract(&distill.RawDocument{Text: councilParagraph, Title: "Transit"}, 10, nil)
		q := distill.NewQualityReport(res, 10)

		assert.True(t, q.HasContent)
		assert.True(t, q.LikelyArticle)
		assert.Equal(t, distill.MethodDensity, q.ExtractionMethod)
		assert.Equal(t, res.WordCount, q.WordCount)
	})
}

func TestExternal_Run(t *testing.T) {
	t.Parallel()

	formatter := &mock.ArticleFormatter{
		FormatArticleFn: func(a *distill.Article) (string, error) {
			return "# " + a.Title + "\n\nBody text here.", nil
		},
	}

	t.Run("passes for unrecognized URLs without fetching", func(t *testing.T) {
		t.Parallel()

		source := &mock.ArticleSource{
			ArticleIDFn: func(string) (string, bool) { return "", false },
			FetchArticleFn: func(context.Context, string) (*distill.Article, error) {
				t.Fatal("fetch should not be called")
				return nil, nil
			},
		}
		s := &strategy.External{Source: source, Formatter: formatter}

		out, err := s.Run(context.Background(), strategy.NewRequest("https://example.com/a", 100, nil))

		require.NoError(t, err)
		assert.False(t, out.Produced)
	})

	t.Run("produces formatted markdown from the source", func(t *testing.T) {
		t.Parallel()

		source := &mock.ArticleSource{
			ArticleIDFn: func(string) (string, bool) { return "AA1abc", true },
			FetchArticleFn: func(_ context.Context, id string) (*distill.Article, error) {
				assert.Equal(t, "AA1abc", id)
				return &distill.Article{Title: "Storm Warning", SourceURL: "https://news.example.com/storm"}, nil
			},
		}
		s := &strategy.External{Source: source, Formatter: formatter}

		out, err := s.Run(context.Background(), strategy.NewRequest("https://www.msn.com/en-us/news/ar-AA1abc", 100, nil))

		require.NoError(t, err)
		assert.True(t, out.Produced)
		assert.Equal(t, distill.MethodExternal, out.Result.Method)
		assert.Equal(t, "Storm Warning", out.Title)
		assert.Equal(t, "https://news.example.com/storm", out.Source)
	})

	t.Run("falls through on source failure", func(t *testing.T) {
		t.Parallel()

		source := &mock.ArticleSource{
			ArticleIDFn: func(string) (string, bool) { return "AA1abc", true },
			FetchArticleFn: func(context.Context, string) (*distill.Article, error) {
				return nil, distill.Errorf(distill.EUNAVAILABLE, "status 404")
			},
		}
		external := &strategy.External{Source: source, Formatter: formatter}
		ext := density.NewExtractor()
		c := strategy.NewCoordinator(nil, external, &strategy.Density{Extractor: ext}, &strategy.Fallback{Extractor: ext})

		req := strategy.NewRequest("https://www.msn.com/en-us/news/ar-AA1abc", 10, func(context.Context) (*distill.RawDocument, error) {
			return &distill.RawDocument{Text: councilParagraph}, nil
		})
		out, err := c.Run(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, distill.MethodDensity, out.Result.Method)
	})
}

func TestService_Extract(t *testing.T) {
	t.Parallel()

	newService := func(crawler distill.Crawler, records distill.RecordService) *strategy.Service {
		ext := density.NewExtractor()
		return &strategy.Service{
			Crawler:     crawler,
			Coordinator: strategy.NewCoordinator(nil, &strategy.Density{Extractor: ext}, &strategy.Fallback{Extractor: ext}),
			Records:     records,
		}
	}

	t.Run("builds the envelope from the crawled page", func(t *testing.T) {
		t.Parallel()

		crawler := &mock.Crawler{
			CrawlFn: func(_ context.Context, url string) (*distill.RawDocument, error) {
				return &distill.RawDocument{URL: url, Title: "Transit", Text: "Menu\n\n" + councilParagraph}, nil
			},
		}
		svc := newService(crawler, nil)

		e, err := svc.Extract(context.Background(), "https://news.example.com/transit", 20)

		require.NoError(t, err)
		assert.Equal(t, "Transit", e.Title)
		assert.Equal(t, "https://news.example.com/transit", e.Source)
		assert.True(t, strings.HasPrefix(e.Result.Markdown, "# Transit\n\n"))
		assert.Equal(t, len("Menu\n\n"+councilParagraph), e.RawLength)
		assert.True(t, e.Quality.LikelyArticle)
		assert.False(t, e.Challenge)
	})

	t.Run("crawls the trimmed URL once", func(t *testing.T) {
		t.Parallel()

		var crawled []string
		crawler := &mock.Crawler{
			CrawlFn: func(_ context.Context, url string) (*distill.RawDocument, error) {
				crawled = append(crawled, url)
				return &distill.RawDocument{URL: url, Text: "Short menu"}, nil
			},
		}
		svc := newService(crawler, nil)

		_, err := svc.Extract(context.Background(), "  https://news.example.com/transit  ", 100)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://news.example.com/transit"}, crawled)
	})

	t.Run("defaults the word floor", func(t *testing.T) {
		t.Parallel()

		crawler := &mock.Crawler{
			CrawlFn: func(_ context.Context, url string) (*distill.RawDocument, error) {
				return &distill.RawDocument{URL: url, Text: councilParagraph}, nil
			},
		}
		svc := newService(crawler, nil)

		e, err := svc.Extract(context.Background(), "https://news.example.com/transit", 0)

		require.NoError(t, err)
		assert.False(t, e.Quality.LikelyArticle)
	})

	t.Run("rejects an empty URL", func(t *testing.T) {
		t.Parallel()

		svc := newService(&mock.Crawler{}, nil)

		_, err := svc.Extract(context.Background(), "  ", 100)

		require.Error(t, err)
		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})

	t.Run("flags challenge pages", func(t *testing.T) {
		t.Parallel()

		crawler := &mock.Crawler{
			CrawlFn: func(_ context.Context, url string) (*distill.RawDocument, error) {
				return &distill.RawDocument{URL: url, Text: "Checking your browser before accessing the site."}, nil
			},
		}
		svc := newService(crawler, nil)

		e, err := svc.Extract(context.Background(), "https://news.example.com/transit", 100)

		require.NoError(t, err)
		assert.True(t, e.Challenge)
		assert.False(t, e.Quality.HasContent)
	})

	t.Run("records extractions when a store is set", func(t *testing.T) {
		t.Parallel()

		var stored *distill.Record
		records := &mock.RecordService{
			CreateRecordFn: func(_ context.Context, r *distill.Record) error {
				r.ID = "rec-1"
				stored = r
				return nil
			},
		}
		crawler := &mock.Crawler{
			CrawlFn: func(_ context.Context, url string) (*distill.RawDocument, error) {
				return &distill.RawDocument{URL: url, Text: councilParagraph}, nil
			},
		}
		svc := newService(crawler, records)

		e, err := svc.Extract(context.Background(), "https://news.example.com/transit", 10)

		require.NoError(t, err)
		assert.Equal(t, "rec-1", e.RecordID)
		require.NotNil(t, stored)
		assert.Equal(t, "https://news.example.com/transit", stored.URL)
		assert.Equal(t, distill.MethodDensity, stored.Method)
	})

	t.Run("keeps the extraction when recording fails", func(t *testing.T) {
		t.Parallel()

		records := &mock.RecordService{
			CreateRecordFn: func(context.Context, *distill.Record) error {
				return errors.New("database is locked")
			},
		}
		crawler := &mock.Crawler{
			CrawlFn: func(_ context.Context, url string) (*distill.RawDocument, error) {
				return &distill.RawDocument{URL: url, Text: councilParagraph}, nil
			},
		}
		svc := newService(crawler, records)

		e, err := svc.Extract(context.Background(), "https://news.example.com/transit", 10)

		require.NoError(t, err)
		assert.Empty(t, e.RecordID)
		assert.NotEmpty(t, e.Result.Markdown)
	})
}

func TestService_ExtractDocument(t *testing.T) {
	t.Parallel()

	ext := density.NewExtractor()
	svc := &strategy.Service{
		Coordinator: strategy.NewCoordinator(nil, &strategy.Density{Extractor: ext}, &strategy.Fallback{Extractor: ext}),
	}

	e, err := svc.ExtractDocument(context.Background(), &distill.RawDocument{Title: "Transit", Text: councilParagraph}, 10)

	require.NoError(t, err)
	assert.Equal(t, "Transit", e.Title)
	assert.Equal(t, distill.MethodDensity, e.Result.Method)
	assert.True(t, e.Quality.HasContent)
}
