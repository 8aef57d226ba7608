package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.ExtractionWriter = (*ExtractionWriter)(nil)

// ExtractionWriter is a mock implementation of distill.ExtractionWriter.
type ExtractionWriter struct {
	WriteExtractionFn func(ctx context.Context, e *distill.Extraction) (string, error)
}

func (w *ExtractionWriter) WriteExtraction(ctx context.Context, e *distill.Extraction) (string, error) {
	return w.WriteExtractionFn(ctx, e)
}
