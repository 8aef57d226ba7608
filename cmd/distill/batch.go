package main

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
)

// progressURLWidth bounds URLs in progress lines.
const progressURLWidth = 60

// batchLine is one JSON line of batch output.
type batchLine struct {
	URL        string              `json:"url"`
	Path       string              `json:"path,omitempty"`
	Error      string              `json:"error,omitempty"`
	Extraction *distill.Extraction `json:"extraction,omitempty"`
}

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	urls := c.URLs
	if c.Sitemap != "" {
		discovered, err := c.discover(deps)
		if err != nil {
			return err
		}
		urls = append(urls, discovered...)
	}
	if len(urls) == 0 {
		err := distill.Errorf(distill.EINVALID, "no URLs to extract: pass URLs or --sitemap")
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	batch := &crawl.Batch{
		Service:     deps.Service,
		MinWords:    deps.MinWords,
		Writer:      deps.Writer,
		Concurrency: c.Concurrency,
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stderr, "Extracting %d URLs\n", event.Total)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] %s\n", event.Completed, event.Total, crawl.TruncateURL(event.URL, progressURLWidth))
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] skip %s: %v\n", event.Completed, event.Total, crawl.TruncateURL(event.URL, progressURLWidth), event.Error)
		case crawl.ProgressFinished:
			// Summary printed after the batch completes
		}
	}

	results, runErr := batch.Run(deps.Ctx, urls, progress)

	var ok, articles, chars int
	for _, r := range results {
		if r.Err == nil {
			ok++
			chars += r.Extraction.Result.LengthChars
			if r.Extraction.Quality.LikelyArticle {
				articles++
			}
		}
		if !deps.JSON {
			continue
		}
		line := batchLine{URL: r.URL, Path: r.Path, Extraction: r.Extraction}
		if r.Err != nil {
			line.Error = distill.ErrorMessage(r.Err)
		}
		if err := writeJSONLine(deps, line); err != nil {
			return err
		}
	}
	if !deps.JSON {
		for _, r := range results {
			if r.Err == nil {
				fmt.Fprintf(deps.Stdout, "%s\t%s\t%d\t%s\n", r.URL, methodName(r.Extraction.Result.Method), r.Extraction.Result.WordCount, r.Path)
			}
		}
	}

	fmt.Fprintf(deps.Stderr, "Extracted %d/%d URLs, %d likely articles (%s)\n",
		ok, len(results), articles, crawl.FormatBytes(chars))

	if runErr != nil {
		return runErr
	}
	if ok == 0 {
		return fmt.Errorf("all %d URLs failed", len(results))
	}
	return nil
}

// discover lists the newest sitemap entries that pass the filters.
func (c *BatchCmd) discover(deps *Dependencies) ([]string, error) {
	filter, err := compileFilter(c.Include, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return nil, err
	}

	entries, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.Sitemap, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return nil, err
	}
	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}

	urls := make([]string, 0, len(entries))
	for _, e := range entries {
		urls = append(urls, e.URL)
	}
	return urls, nil
}

func compileFilter(include, exclude []string) (*distill.URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	filter := &distill.URLFilter{}
	for _, pattern := range include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, distill.Errorf(distill.EINVALID, "invalid include pattern %q: %v", pattern, err)
		}
		filter.Include = append(filter.Include, re)
	}
	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, distill.Errorf(distill.EINVALID, "invalid exclude pattern %q: %v", pattern, err)
		}
		filter.Exclude = append(filter.Exclude, re)
	}
	return filter, nil
}

func methodName(m distill.Method) string {
	if m == distill.MethodNone {
		return "none"
	}
	return string(m)
}

func writeJSONLine(deps *Dependencies, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(deps.Stdout, "%s\n", b)
	return err
}
