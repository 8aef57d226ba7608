package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/distill"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if c.ID != "" {
		return c.show(deps)
	}

	filter := distill.RecordFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.URL = &c.URL
	}
	if c.Method != "" {
		m := distill.Method(c.Method)
		filter.Method = &m
	}

	records, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	if deps.JSON {
		if records == nil {
			records = []*distill.Record{}
		}
		return writeJSON(deps.Stdout, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No extractions recorded yet. Use 'distill extract' to make one.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), methodName(r.Method), r.WordCount, r.URL)
	}
	return w.Flush()
}

func (c *HistoryCmd) show(deps *Dependencies) error {
	r, err := deps.Records.FindRecordByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	if deps.JSON {
		return writeJSON(deps.Stdout, r)
	}
	if r.Title != "" {
		fmt.Fprintf(deps.Stderr, "%s\n", r.Title)
	}
	fmt.Fprintf(deps.Stderr, "%s  method=%s words=%d hash=%s\n", r.URL, methodName(r.Method), r.WordCount, r.ContentHash)
	fmt.Fprintln(deps.Stdout, r.Markdown)
	return nil
}
