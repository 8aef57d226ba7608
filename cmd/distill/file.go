package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/distill"
)

// Run executes the file command.
func (c *FileCmd) Run(deps *Dependencies) error {
	var (
		text []byte
		err  error
	)
	if c.Path == "-" {
		text, err = io.ReadAll(deps.Stdin)
	} else {
		text, err = os.ReadFile(c.Path)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	doc := &distill.RawDocument{URL: c.URL, Text: string(text), Title: c.Title}
	e, err := deps.Documents.ExtractDocument(deps.Ctx, doc, deps.MinWords)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	// Files without a URL have nowhere to be written.
	if c.URL == "" {
		deps.Writer = nil
	}
	return printExtraction(deps, e)
}
