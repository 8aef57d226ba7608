package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
	"github.com/fwojciec/distill/density"
	"github.com/fwojciec/distill/fs"
	"github.com/fwojciec/distill/goquery"
	"github.com/fwojciec/distill/htmltomarkdown"
	distillhttp "github.com/fwojciec/distill/http"
	"github.com/fwojciec/distill/msn"
	"github.com/fwojciec/distill/readability"
	"github.com/fwojciec/distill/rod"
	dslog "github.com/fwojciec/distill/slog"
	"github.com/fwojciec/distill/sqlite"
	"github.com/fwojciec/distill/strategy"
	"github.com/fwojciec/distill/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when neither --db nor DISTILL_DB is set.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	Stdin io.Reader

	// Collaborators for end-to-end testing. When set, Run uses them
	// instead of launching a browser or calling live services.
	Fetcher       distill.Fetcher
	ArticleSource distill.ArticleSource
	Sitemaps      distill.SitemapService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("distill"),
		kong.Description("Recover clean article text from news pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'distill --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose, cmd == "serve")
	deps.MinWords = cli.MinWords
	deps.JSON = cli.JSON
	if cli.Out != "" {
		deps.Writer = fs.NewWriter(cli.Out)
	}

	// Open the history database for commands that record or read it.
	if cmd == "history" || (!cli.NoRecord && cmd != "file") {
		path := cli.DB
		if path == "" {
			path = m.DBPath
		}
		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Set DISTILL_DB to use a different database path, or pass --no-record")
			return fmt.Errorf("failed to open database at %q: %w", path, err)
		}
		defer m.Close()
		deps.Records = sqlite.NewRecordService(m.DB)
	}

	// Supplied markdown never went through the browser, so only consent
	// boilerplate is blocklisted.
	docExtractor := density.NewExtractor(density.WithBlocklist(density.ConsentTerms))
	deps.Documents = &strategy.Service{
		Coordinator: strategy.NewCoordinator(deps.Logger,
			&strategy.Density{Extractor: docExtractor},
			&strategy.Fallback{Extractor: docExtractor},
		),
		Logger: deps.Logger,
	}

	deps.Sitemaps = m.Sitemaps
	if deps.Sitemaps == nil {
		deps.Sitemaps = distillhttp.NewSitemapService(nil)
	}
	deps.Sitemaps = dslog.NewLoggingSitemapService(deps.Sitemaps, deps.Logger)

	if cmd == "extract" || cmd == "batch" || cmd == "serve" {
		fetcher := m.Fetcher
		if fetcher == nil {
			if fetcher, err = newFetcher(cli); err != nil {
				if cli.Fetcher == "browser" {
					fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --fetcher=static")
				}
				return fmt.Errorf("failed to start fetcher: %w", err)
			}
			defer fetcher.Close()
		}
		deps.Service = m.newService(cli, fetcher, deps)
	}

	return kongCtx.Run(deps)
}

func newFetcher(cli *CLI) (distill.Fetcher, error) {
	if cli.Fetcher == "static" {
		return distillhttp.NewFetcher(distillhttp.WithTimeout(cli.Timeout)), nil
	}
	return rod.NewFetcher(
		rod.WithFetchTimeout(cli.Timeout),
		rod.WithBrowserOptions(rod.WithSandbox(!cli.NoSandbox)),
	)
}

// newService assembles the crawl pipeline and the strategy chain:
// structured source, then density, then paragraph fallback.
func (m *Main) newService(cli *CLI, fetcher distill.Fetcher, deps *Dependencies) distill.ExtractionService {
	logger := deps.Logger

	var metadata distill.MetadataExtractor = trafilatura.NewExtractor()
	if cli.Metadata == "readability" {
		metadata = readability.NewExtractor()
	}

	crawler := &crawl.Crawler{
		Fetcher:     dslog.NewLoggingFetcher(fetcher, logger),
		Converter:   htmltomarkdown.NewConverter(),
		Metadata:    metadata,
		Sanitizer:   goquery.NewSanitizer(),
		RateLimiter: crawl.NewDomainLimiter(cli.Rate, 2),
		Logger:      logger,
	}

	var strategies []strategy.Strategy
	if cli.External {
		source := m.ArticleSource
		if source == nil {
			source = msn.NewClient(msn.WithLocale(cli.Locale), msn.WithTimeout(cli.Timeout))
		}
		strategies = append(strategies, &strategy.External{
			Source:    dslog.NewLoggingArticleSource(source, logger),
			Formatter: goquery.NewArticleFormatter(),
			Logger:    logger,
		})
	}
	ext := density.NewExtractor()
	strategies = append(strategies,
		&strategy.Density{Extractor: ext},
		&strategy.Fallback{Extractor: ext},
	)

	svc := &strategy.Service{
		Crawler:     dslog.NewLoggingCrawler(crawler, logger),
		Coordinator: strategy.NewCoordinator(logger, strategies...),
		Records:     deps.Records,
		Logger:      logger,
	}
	return dslog.NewLoggingExtractionService(svc, logger)
}

// newLogger logs warnings by default, request lines when serving and every
// pipeline step when verbose.
func newLogger(w io.Writer, verbose, serving bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbose:
		level = slog.LevelDebug
	case serving:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "distill.db"
	}
	dir := filepath.Join(home, ".distill")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "distill.db")
}
