package textdex

import (
	"context"
	"fmt"
)

// TypedIndex is a schema-first index for one record type.
// Fields and weights are inferred from T's struct tags at construction time.
type TypedIndex[T any] struct {
	recordType string
	client     *Client
	meta       *schemaMeta
	records    *MemoryRecords
}

// NewIndex creates a typed index handle for recordType.
// T must be a struct with textdex tags. Schema is parsed once and cached.
// Items are kept in the client's MemoryRecords when configured, otherwise in
// a private one.
func NewIndex[T any](client *Client, recordType string) (*TypedIndex[T], error) {
	if recordType == "" {
		return nil, fmt.Errorf("new index: %w: record type is required", ErrInvalidConfig)
	}
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", recordType, err)
	}
	idx := &TypedIndex[T]{recordType: recordType, client: client, meta: meta}
	if client != nil && client.records != nil {
		idx.records = client.records
	} else {
		idx.records = NewMemoryRecords()
	}
	return idx, nil
}

// Type returns the record type this index writes.
func (idx *TypedIndex[T]) Type() string { return idx.recordType }

// Searchable projects item onto its searchable fields and attributes.
func (idx *TypedIndex[T]) Searchable(item T) (Record, error) {
	return idx.meta.toRecord(idx.recordType, item)
}

// Index replaces the entries of a single item.
func (idx *TypedIndex[T]) Index(ctx context.Context, item T) error {
	rec, err := idx.Searchable(item)
	if err != nil {
		return fmt.Errorf("index: %w: %w", ErrInvalidRecord, err)
	}
	if _, err := idx.client.indexSvc.Index(ctx, rec); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	idx.records.Put(rec.Key(), item, rec.Attributes())
	return nil
}

// Rebuild re-indexes items in parallel. Results are positional.
func (idx *TypedIndex[T]) Rebuild(ctx context.Context, items []T) ([]BatchResult, error) {
	recs := make([]Record, len(items))
	for i, item := range items {
		var err error
		recs[i], err = idx.Searchable(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w: %w", i, ErrInvalidRecord, err)
		}
	}

	results := idx.client.indexSvc.Rebuild(ctx, recs)
	for i, r := range results {
		if r.Err() == nil {
			idx.records.Put(recs[i].Key(), items[i], recs[i].Attributes())
		}
	}
	return batchFromDomain(results), nil
}

// Remove deletes an item's entries by id.
func (idx *TypedIndex[T]) Remove(ctx context.Context, id string) error {
	if err := idx.client.indexSvc.Remove(ctx, idx.recordType, id); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	idx.records.Delete(Key{Type: idx.recordType, ID: id})
	return nil
}

// Search starts a query restricted to this record type.
func (idx *TypedIndex[T]) Search(term string) *TypedSearch[T] {
	b := newBuilder(idx.client, term)
	b.params.RecordType = idx.recordType
	b.known = idx.meta.known()
	b.resolver = idx.records
	b.filterer = idx.records
	return &TypedSearch[T]{b: b}
}

// TypedSearch is a Builder whose Get returns items of type T.
type TypedSearch[T any] struct {
	b *Builder
}

// Mode sets how the term is interpreted.
func (s *TypedSearch[T]) Mode(m Mode) *TypedSearch[T] { s.b.Mode(m); return s }

// InNaturalLanguageMode matches any term of the query.
func (s *TypedSearch[T]) InNaturalLanguageMode() *TypedSearch[T] {
	s.b.InNaturalLanguageMode()
	return s
}

// InBooleanMode honours boolean operators in the term.
func (s *TypedSearch[T]) InBooleanMode() *TypedSearch[T] { s.b.InBooleanMode(); return s }

// Only restricts matching to the given searchable fields.
func (s *TypedSearch[T]) Only(fields ...string) *TypedSearch[T] { s.b.Only(fields...); return s }

// Scope adds attribute predicates.
func (s *TypedSearch[T]) Scope(fn func(*Scope)) *TypedSearch[T] { s.b.Scope(fn); return s }

// Where keeps items whose attribute key equals value.
func (s *TypedSearch[T]) Where(key, value string) *TypedSearch[T] { s.b.Where(key, value); return s }

// OrWhere keeps items matching any of the OrWhere pairs.
func (s *TypedSearch[T]) OrWhere(key, value string) *TypedSearch[T] {
	s.b.OrWhere(key, value)
	return s
}

// WhereNot drops items whose attribute key equals value.
func (s *TypedSearch[T]) WhereNot(key, value string) *TypedSearch[T] {
	s.b.WhereNot(key, value)
	return s
}

// WhereRange keeps items whose numeric attribute key falls in r.
func (s *TypedSearch[T]) WhereRange(key string, r Range) *TypedSearch[T] {
	s.b.WhereRange(key, r)
	return s
}

// OrderByScore orders hits by descending score.
func (s *TypedSearch[T]) OrderByScore() *TypedSearch[T] { s.b.OrderByScore(); return s }

// Limit caps the number of hits.
func (s *TypedSearch[T]) Limit(n int) *TypedSearch[T] { s.b.Limit(n); return s }

// Offset skips the first n hits.
func (s *TypedSearch[T]) Offset(n int) *TypedSearch[T] { s.b.Offset(n); return s }

// Keys executes the query and returns ranked hits.
func (s *TypedSearch[T]) Keys(ctx context.Context) ([]Hit, error) { return s.b.Keys(ctx) }

// Count executes the query and returns the number of matching items.
func (s *TypedSearch[T]) Count(ctx context.Context) (int, error) { return s.b.Count(ctx) }

// Get executes the query and returns matching items in rank order.
func (s *TypedSearch[T]) Get(ctx context.Context) ([]T, error) {
	raw, err := s.b.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for _, v := range raw {
		item, ok := v.(T)
		if !ok {
			return nil, fmt.Errorf("get: unexpected record %T", v)
		}
		out = append(out, item)
	}
	return out, nil
}
