package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Service extracts URLs. Nil for commands that never crawl.
	Service distill.ExtractionService

	// Documents extracts markdown supplied by the caller.
	Documents distill.DocumentExtractor

	// Records is nil when recording is disabled.
	Records distill.RecordService

	Sitemaps distill.SitemapService

	// Writer is nil unless --out is set.
	Writer distill.ExtractionWriter

	MinWords int
	JSON     bool
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose   bool          `short:"v" help:"Log pipeline steps to stderr"`
	JSON      bool          `help:"Print the full extraction envelope as JSON"`
	Out       string        `short:"o" type:"path" help:"Also write each extraction as a markdown file under this directory"`
	MinWords  int           `name:"min-words" default:"100" env:"DISTILL_MIN_WORDS" help:"Word count a result needs to count as an article"`
	DB        string        `type:"path" env:"DISTILL_DB" help:"Extraction history database (default ~/.distill/distill.db)"`
	NoRecord  bool          `name:"no-record" help:"Do not store extractions in the history database"`
	Fetcher   string        `enum:"browser,static" default:"browser" env:"DISTILL_FETCHER" help:"Render pages with headless Chrome or fetch them over plain HTTP (${enum})"`
	Timeout   time.Duration `default:"60s" env:"DISTILL_TIMEOUT" help:"Per-page fetch timeout"`
	Metadata  string        `enum:"trafilatura,readability" default:"trafilatura" help:"Library used to read page titles (${enum})"`
	Locale    string        `default:"en-us" help:"Locale for structured article sources"`
	External  bool          `default:"true" negatable:"" help:"Try structured article sources before crawling"`
	Rate      float64       `default:"1" help:"Requests per second per domain"`
	NoSandbox bool          `name:"no-sandbox" env:"DISTILL_NO_SANDBOX" help:"Disable the Chrome sandbox (needed when running as root in containers)"`

	Extract ExtractCmd `cmd:"" help:"Extract the article behind a URL"`
	File    FileCmd    `cmd:"" help:"Extract the article from a markdown file"`
	Batch   BatchCmd   `cmd:"" help:"Extract many URLs concurrently"`
	Serve   ServeCmd   `cmd:"" help:"Serve the extraction API over HTTP"`
	History HistoryCmd `cmd:"" help:"List stored extractions or show one"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL string `arg:"" help:"Article URL"`
}

// FileCmd is the "file" subcommand.
type FileCmd struct {
	Path  string `arg:"" help:"Markdown file, or - for stdin"`
	Title string `help:"Article title, used to drop the repeated headline"`
	URL   string `help:"URL the markdown came from"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	URLs        []string `arg:"" optional:"" help:"Article URLs"`
	Sitemap     string   `help:"Discover URLs from this site's sitemaps (a site root, section URL or sitemap.xml)"`
	Limit       int      `default:"20" help:"Newest sitemap entries to extract"`
	Include     []string `short:"I" help:"Only sitemap URLs matching this regex (repeatable)"`
	Exclude     []string `short:"X" help:"Skip sitemap URLs matching this regex (repeatable)"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent extractions"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr    string   `default:":8000" env:"DISTILL_ADDR" help:"Listen address"`
	Origins []string `help:"Allowed CORS origins (default any)"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	ID     string `arg:"" optional:"" help:"Show the stored markdown of this record"`
	URL    string `help:"Only records for this URL"`
	Method string `help:"Only records made by this method (external, density, fallback)"`
	Limit  int    `default:"20" help:"Records to list"`
}
