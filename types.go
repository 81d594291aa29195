package textdex

import (
	dombatch "github.com/kailas-cloud/textdex/internal/domain/batch"
	"github.com/kailas-cloud/textdex/internal/domain/entry"
	"github.com/kailas-cloud/textdex/internal/domain/record"
	"github.com/kailas-cloud/textdex/internal/domain/search/filter"
	"github.com/kailas-cloud/textdex/internal/domain/search/mode"
	"github.com/kailas-cloud/textdex/internal/domain/search/result"
)

// MemoryPath keeps a SQLite index in memory (see WithSQLite).
const MemoryPath = ":memory:"

// Mode selects how a search term is interpreted.
type Mode = mode.Mode

// Search modes.
const (
	NaturalLanguage = mode.NaturalLanguage
	Boolean         = mode.Boolean
)

// Field is the raw text of a searchable field and its weight.
// A zero weight falls back to the configured default, then to 1.
type Field = record.Field

// Record is a host record projected onto its searchable fields.
type Record = record.Record

// Key identifies a record across types.
type Key = record.Key

// Predicate is a scope expression evaluated against record attributes.
type Predicate = filter.Expression

// NewRecord validates and creates a Record.
func NewRecord(recordType, id string, fields map[string]Field) (Record, error) {
	return record.New(recordType, id, fields)
}

// Hit is one ranked record.
type Hit struct {
	Type   string
	ID     string
	Score  float64
	Fields map[string]float64 // weighted relevance per matched field
}

// Key returns the identity of the hit.
func (h Hit) Key() Key { return Key{Type: h.Type, ID: h.ID} }

// Entry is one stored index entry: processed content of a single field.
type Entry struct {
	Field   string
	Content string
	Weight  float64
}

// BatchResult is the outcome of one record in Rebuild.
type BatchResult struct {
	Type string
	ID   string
	OK   bool
	Err  error
}

// Range bounds a numeric attribute. Nil bounds are open.
type Range struct {
	GT, GTE, LT, LTE *float64
}

func hitsFromDomain(in []result.Hit) []Hit {
	out := make([]Hit, len(in))
	for i := range in {
		out[i] = Hit{
			Type:   in[i].RecordType(),
			ID:     in[i].ID(),
			Score:  in[i].Score(),
			Fields: in[i].Fields(),
		}
	}
	return out
}

func entriesFromDomain(in []entry.Entry) []Entry {
	out := make([]Entry, len(in))
	for i, e := range in {
		out[i] = Entry{Field: e.Field(), Content: e.Content(), Weight: e.Weight()}
	}
	return out
}

func batchFromDomain(in []dombatch.Result) []BatchResult {
	out := make([]BatchResult, len(in))
	for i, r := range in {
		out[i] = BatchResult{
			Type: r.RecordType(),
			ID:   r.ID(),
			OK:   r.Status() == dombatch.StatusOK,
			Err:  r.Err(),
		}
	}
	return out
}
