package distill

import (
	"context"
	"time"
)

// Record is a stored extraction.
type Record struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Markdown    string    `json:"markdown"`
	ContentHash string    `json:"content_hash"`
	Method      Method    `json:"method"`
	WordCount   int       `json:"word_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "record URL required")
	}
	switch r.Method {
	case MethodNone, MethodExternal, MethodDensity, MethodFallback:
	default:
		return Errorf(EINVALID, "unknown extraction method %q", r.Method)
	}
	return nil
}

// NewRecord captures an extraction for storage.
func NewRecord(e *Extraction) *Record {
	return &Record{
		URL:       e.URL,
		Title:     e.Title,
		Markdown:  e.Result.Markdown,
		Method:    e.Result.Method,
		WordCount: e.Result.WordCount,
	}
}

// RecordService represents a service for managing stored extractions.
type RecordService interface {
	// CreateRecord stores a new record, assigning its ID, hash and timestamp.
	CreateRecord(ctx context.Context, record *Record) error

	// FindRecordByID retrieves a record by ID.
	// Returns ENOTFOUND if record does not exist.
	FindRecordByID(ctx context.Context, id string) (*Record, error)

	// FindRecords retrieves records matching the filter, newest first.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)

	// DeleteRecord permanently removes a record.
	// Returns ENOTFOUND if record does not exist.
	DeleteRecord(ctx context.Context, id string) error
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	URL    *string `json:"url"`
	Method *Method `json:"method"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ExtractionWriter persists an extraction outside the database, e.g. as a
// markdown file. It returns where the extraction was written.
type ExtractionWriter interface {
	WriteExtraction(ctx context.Context, e *Extraction) (string, error)
}
