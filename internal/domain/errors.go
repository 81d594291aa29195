package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRecord signals a record that cannot be indexed (empty type, id or field).
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidConfig signals a configuration error detected at build time.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUnknownFilter signals a filter name outside the registry.
	ErrUnknownFilter = fmt.Errorf("%w: unknown filter", ErrInvalidConfig)
	// ErrUnknownStemmer signals a stemmer language outside the registry.
	ErrUnknownStemmer = fmt.Errorf("%w: unknown stemmer", ErrInvalidConfig)
	// ErrUnknownField signals a field restriction naming a field the record type does not have.
	ErrUnknownField = fmt.Errorf("%w: unknown field", ErrInvalidConfig)
	// ErrUnknownMode signals an unsupported search mode.
	ErrUnknownMode = fmt.Errorf("%w: unknown search mode", ErrInvalidConfig)

	// ErrQueryFailed signals that the store could not execute a search.
	ErrQueryFailed = errors.New("query execution failed")
	// ErrQuerySyntax signals a malformed boolean-mode term.
	ErrQuerySyntax = errors.New("query syntax error")
	// ErrIndexingFailed signals that a record could not be written to the index.
	ErrIndexingFailed = errors.New("indexing failed")
)

// IndexingError reports a per-record indexing failure.
type IndexingError struct {
	RecordType string
	RecordID   string
	Err        error
}

func (e *IndexingError) Error() string {
	return fmt.Sprintf("%s: %s/%s: %v", ErrIndexingFailed.Error(), e.RecordType, e.RecordID, e.Err)
}

func (e *IndexingError) Unwrap() []error { return []error{ErrIndexingFailed, e.Err} }

// NewIndexingError wraps err with the record it was raised for.
func NewIndexingError(recordType, recordID string, err error) error {
	return &IndexingError{RecordType: recordType, RecordID: recordID, Err: err}
}
