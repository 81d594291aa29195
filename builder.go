package textdex

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/textdex/internal/domain/search/filter"
	"github.com/kailas-cloud/textdex/internal/domain/search/request"
	searchuc "github.com/kailas-cloud/textdex/internal/usecase/search"
)

// Builder is a fluent search query. It freezes on first execution:
// re-running it is fine, reconfiguring it makes execution fail with ErrBuilderFrozen.
type Builder struct {
	client *Client

	mu     sync.Mutex
	params request.Params
	scope  filter.Expression
	err    error
	frozen bool

	// Set by TypedIndex.
	known    map[string]bool
	resolver Resolver
	filterer Filterer
}

func newBuilder(c *Client, term string) *Builder {
	return &Builder{
		client:   c,
		params:   request.Params{Term: term},
		resolver: c.resolver,
	}
}

func (b *Builder) configure(fn func()) *Builder {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frozen {
		if b.err == nil {
			b.err = ErrBuilderFrozen
		}
		return b
	}
	fn()
	return b
}

// Mode sets how the term is interpreted.
func (b *Builder) Mode(m Mode) *Builder {
	return b.configure(func() { b.params.Mode = m })
}

// InNaturalLanguageMode matches any term of the query.
func (b *Builder) InNaturalLanguageMode() *Builder { return b.Mode(NaturalLanguage) }

// InBooleanMode honours +required, -excluded, "phrase" and prefix* operators.
func (b *Builder) InBooleanMode() *Builder { return b.Mode(Boolean) }

// Only restricts matching to the given fields.
func (b *Builder) Only(fields ...string) *Builder {
	return b.configure(func() {
		b.params.Fields = append(b.params.Fields, fields...)
	})
}

// Type restricts matching to one record type.
func (b *Builder) Type(recordType string) *Builder {
	return b.configure(func() { b.params.RecordType = recordType })
}

// Scope adds attribute predicates, applied as an AND step after matching.
func (b *Builder) Scope(fn func(*Scope)) *Builder {
	return b.configure(func() {
		s := &Scope{expr: b.scope}
		fn(s)
		b.scope = s.expr
		if s.err != nil && b.err == nil {
			b.err = s.err
		}
	})
}

// Where keeps records whose attribute key equals value.
func (b *Builder) Where(key, value string) *Builder {
	return b.Scope(func(s *Scope) { s.Where(key, value) })
}

// OrWhere keeps records whose attribute key equals value or that satisfy
// another OrWhere alternative.
func (b *Builder) OrWhere(key, value string) *Builder {
	return b.Scope(func(s *Scope) { s.OrWhere(key, value) })
}

// WhereNot drops records whose attribute key equals value.
func (b *Builder) WhereNot(key, value string) *Builder {
	return b.Scope(func(s *Scope) { s.WhereNot(key, value) })
}

// WhereRange keeps records whose numeric attribute key falls in r.
func (b *Builder) WhereRange(key string, r Range) *Builder {
	return b.Scope(func(s *Scope) { s.WhereRange(key, r) })
}

// OrderByScore orders hits by descending score. Without it hits are
// ordered by record type then id.
func (b *Builder) OrderByScore() *Builder {
	return b.configure(func() { b.params.OrderByScore = true })
}

// Limit caps the number of hits. 0 means no limit.
func (b *Builder) Limit(n int) *Builder {
	return b.configure(func() { b.params.Limit = n })
}

// Offset skips the first n hits.
func (b *Builder) Offset(n int) *Builder {
	return b.configure(func() { b.params.Offset = n })
}

// Keys executes the query and returns ranked hits.
func (b *Builder) Keys(ctx context.Context) ([]Hit, error) {
	req, err := b.freeze()
	if err != nil {
		return nil, err
	}
	hits, _, err := b.searcher().Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return hitsFromDomain(hits), nil
}

// Get executes the query and resolves hits to records in rank order.
func (b *Builder) Get(ctx context.Context) ([]any, error) {
	if b.resolver == nil {
		return nil, fmt.Errorf("textdex: %w: Get requires a resolver (use WithRecords or WithResolver)",
			ErrInvalidConfig)
	}
	hits, err := b.Keys(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]Key, len(hits))
	for i, h := range hits {
		keys[i] = h.Key()
	}
	items, err := b.resolver.Resolve(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	return items, nil
}

// Count executes the query and returns the number of matching records,
// ignoring Limit and Offset.
func (b *Builder) Count(ctx context.Context) (int, error) {
	req, err := b.freeze()
	if err != nil {
		return 0, err
	}
	n, err := b.searcher().Count(ctx, &req)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// freeze validates the accumulated state and locks the builder.
func (b *Builder) freeze() (request.Request, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frozen = true
	if b.err != nil {
		return request.Request{}, b.err
	}

	if b.params.Mode != "" && !b.params.Mode.IsValid() {
		return request.Request{}, fmt.Errorf("%w: %q", ErrUnknownMode, b.params.Mode)
	}
	if b.known != nil {
		for _, f := range b.params.Fields {
			if !b.known[f] {
				return request.Request{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, b.params.RecordType, f)
			}
		}
	}

	p := b.params
	p.Scope = b.scope
	req, err := request.New(p, b.client.defaultMode)
	if err != nil {
		return request.Request{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return req, nil
}

func (b *Builder) searcher() *searchuc.Service {
	if b.filterer == nil {
		return b.client.searchSvc
	}
	return b.client.newSearchService(b.filterer)
}

// Scope accumulates attribute predicates for a Builder.
type Scope struct {
	expr filter.Expression
	err  error
}

// Where requires attribute key to equal value.
func (s *Scope) Where(key, value string) *Scope {
	c, err := filter.NewMatch(key, value)
	if err != nil {
		s.fail(err)
		return s
	}
	s.expr = s.expr.And(c)
	return s
}

// OrWhere adds an alternative: at least one OrWhere pair must hold.
func (s *Scope) OrWhere(key, value string) *Scope {
	c, err := filter.NewMatch(key, value)
	if err != nil {
		s.fail(err)
		return s
	}
	s.expr = s.expr.Or(c)
	return s
}

// WhereNot excludes records whose attribute key equals value.
func (s *Scope) WhereNot(key, value string) *Scope {
	c, err := filter.NewMatch(key, value)
	if err != nil {
		s.fail(err)
		return s
	}
	s.expr = s.expr.Not(c)
	return s
}

// WhereRange requires numeric attribute key to fall in r.
func (s *Scope) WhereRange(key string, r Range) *Scope {
	fr, err := filter.NewRangeFilter(r.GT, r.GTE, r.LT, r.LTE)
	if err != nil {
		s.fail(err)
		return s
	}
	c, err := filter.NewRange(key, fr)
	if err != nil {
		s.fail(err)
		return s
	}
	s.expr = s.expr.And(c)
	return s
}

func (s *Scope) fail(err error) {
	if s.err == nil {
		s.err = fmt.Errorf("%w: scope: %w", ErrInvalidConfig, err)
	}
}
