package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/distill"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	e, err := deps.Service.Extract(deps.Ctx, c.URL, deps.MinWords)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}
	return printExtraction(deps, e)
}

// printExtraction prints the envelope as JSON, or the markdown with a
// summary on stderr, and writes it out when a writer is configured.
func printExtraction(deps *Dependencies, e *distill.Extraction) error {
	if deps.Writer != nil {
		path, err := deps.Writer.WriteExtraction(deps.Ctx, e)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: writing %s: %v\n", e.URL, err)
			return err
		}
		fmt.Fprintf(deps.Stderr, "wrote %s\n", path)
	}

	if deps.JSON {
		return writeJSON(deps.Stdout, e)
	}

	if e.Result.IsEmpty() {
		fmt.Fprintln(deps.Stderr, "No article text found.")
	} else {
		fmt.Fprintln(deps.Stdout, e.Result.Markdown)
	}
	fmt.Fprintln(deps.Stderr, summary(e))
	return nil
}

func summary(e *distill.Extraction) string {
	s := fmt.Sprintf("method=%s words=%d likely_article=%t", methodName(e.Result.Method), e.Result.WordCount, e.Quality.LikelyArticle)
	if e.Challenge {
		s += " challenge=true"
	}
	if e.RecordID != "" {
		s += " record=" + e.RecordID
	}
	return s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
