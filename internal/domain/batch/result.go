package batch

// ItemStatus is the processing outcome of a single record in a bulk operation.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of indexing one record during a rebuild.
type Result struct {
	recordType string
	id         string
	status     ItemStatus
	err        error
}

// NewOK creates a successful result.
func NewOK(recordType, id string) Result {
	return Result{recordType: recordType, id: id, status: StatusOK}
}

// NewError creates a failed result.
func NewError(recordType, id string, err error) Result {
	return Result{recordType: recordType, id: id, status: StatusError, err: err}
}

// RecordType returns the record type.
func (r Result) RecordType() string { return r.recordType }

// ID returns the record identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Failed counts error results.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.status == StatusError {
			n++
		}
	}
	return n
}
