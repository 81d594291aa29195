package request

import (
	"fmt"

	"github.com/kailas-cloud/textdex/internal/domain/search/filter"
	"github.com/kailas-cloud/textdex/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxTermLength is the maximum allowed search term length in bytes.
	MaxTermLength = 4096
	// MaxLimit caps the number of hits returned in one page.
	MaxLimit = 10000
)

// Request is a validated query state: term, mode and restrictions.
type Request struct {
	term         string
	searchMode   mode.Mode
	fields       []string
	recordType   string
	scope        filter.Expression
	orderByScore bool
	limit        int
	offset       int
}

// Params carries the raw builder state before validation.
type Params struct {
	Term         string
	Mode         mode.Mode
	Fields       []string
	RecordType   string
	Scope        filter.Expression
	OrderByScore bool
	Limit        int
	Offset       int
}

// New validates and normalizes search parameters.
// An empty mode resolves to defaultMode. Limit 0 means unlimited.
func New(p Params, defaultMode mode.Mode) (Request, error) {
	if len(p.Term) > MaxTermLength {
		return Request{}, fmt.Errorf("term too long (max %d bytes)", MaxTermLength)
	}
	m := p.Mode
	if m == "" {
		m = defaultMode
	}
	if m == "" {
		m = mode.Default
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("invalid search mode: %q", m)
	}
	if p.Limit < 0 {
		return Request{}, fmt.Errorf("limit must not be negative")
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		return Request{}, fmt.Errorf("offset must not be negative")
	}

	return Request{
		term:         p.Term,
		searchMode:   m,
		fields:       dedupe(p.Fields),
		recordType:   p.RecordType,
		scope:        p.Scope,
		orderByScore: p.OrderByScore,
		limit:        p.Limit,
		offset:       p.Offset,
	}, nil
}

// Term returns the raw search term.
func (r *Request) Term() string { return r.term }

// Mode returns the resolved search mode.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Fields returns the field restriction; empty means all fields.
func (r *Request) Fields() []string { return r.fields }

// RecordType returns the record type restriction; empty means all types.
func (r *Request) RecordType() string { return r.recordType }

// Scope returns the attribute predicate applied as an AND step.
func (r *Request) Scope() filter.Expression { return r.scope }

// OrderByScore reports whether hits are ordered by descending score.
func (r *Request) OrderByScore() bool { return r.orderByScore }

// Limit returns the page size; 0 means unlimited.
func (r *Request) Limit() int { return r.limit }

// Offset returns the number of hits to skip.
func (r *Request) Offset() int { return r.offset }

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
