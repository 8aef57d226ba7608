package strategy

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/distill"
)

// Ensure Service implements the extraction interfaces at compile time.
var (
	_ distill.ExtractionService = (*Service)(nil)
	_ distill.DocumentExtractor = (*Service)(nil)
)

// Service implements distill.ExtractionService by running a Coordinator
// over pages rendered by a Crawler, optionally recording every extraction.
type Service struct {
	Crawler     distill.Crawler
	Coordinator *Coordinator

	// Records is optional. When set, every extraction is stored.
	Records distill.RecordService

	Logger *slog.Logger
}

// Extract implements distill.ExtractionService.
func (s *Service) Extract(ctx context.Context, url string, minWords int) (*distill.Extraction, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, distill.Errorf(distill.EINVALID, "url required")
	}
	if minWords <= 0 {
		minWords = distill.DefaultMinWords
	}

	req := NewRequest(url, minWords, func(ctx context.Context) (*distill.RawDocument, error) {
		return s.Crawler.Crawl(ctx, url)
	})
	out, err := s.Coordinator.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	e := &distill.Extraction{
		URL:     url,
		Title:   out.Title,
		Source:  out.Source,
		Result:  *out.Result,
		Quality: distill.NewQualityReport(out.Result, minWords),
	}
	if doc := req.Loaded(); doc != nil {
		if e.Title == "" {
			e.Title = doc.Title
		}
		e.RawLength = utf8.RuneCountInString(doc.Text)
		e.Challenge = distill.DetectChallenge(doc.Text)
	}
	if e.Source == "" {
		e.Source = url
	}

	if s.Records != nil {
		record := distill.NewRecord(e)
		if err := s.Records.CreateRecord(ctx, record); err != nil {
			s.logger().Warn("recording extraction failed", "url", url, "err", err)
		} else {
			e.RecordID = record.ID
		}
	}

	return e, nil
}

// ExtractDocument runs the coordinator over markdown the caller already has.
// No crawl happens; strategies needing a URL simply pass.
func (s *Service) ExtractDocument(ctx context.Context, doc *distill.RawDocument, minWords int) (*distill.Extraction, error) {
	if minWords <= 0 {
		minWords = distill.DefaultMinWords
	}

	out, err := s.Coordinator.Run(ctx, NewDocumentRequest(doc, minWords))
	if err != nil {
		return nil, err
	}

	title := out.Title
	if title == "" {
		title = doc.Title
	}
	return &distill.Extraction{
		URL:       doc.URL,
		Title:     title,
		Source:    doc.URL,
		RawLength: utf8.RuneCountInString(doc.Text),
		Challenge: distill.DetectChallenge(doc.Text),
		Result:    *out.Result,
		Quality:   distill.NewQualityReport(out.Result, minWords),
	}, nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
