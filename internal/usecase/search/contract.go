package search

import (
	"context"

	"github.com/kailas-cloud/textdex/internal/db"
	"github.com/kailas-cloud/textdex/internal/domain/record"
	"github.com/kailas-cloud/textdex/internal/domain/search/filter"
)

// Matcher runs a parsed query against the index store.
type Matcher interface {
	Match(ctx context.Context, q *db.MatchQuery) ([]db.Match, error)
}

// Processor turns raw text into index terms, the same way content was indexed.
type Processor interface {
	Terms(raw string) []string
}

// Filterer narrows candidate records by their original attributes.
// It returns the subset of keys whose records satisfy scope.
type Filterer interface {
	Filter(ctx context.Context, keys []record.Key, scope filter.Expression) ([]record.Key, error)
}
