package indexing

import (
	"context"

	"github.com/kailas-cloud/textdex/internal/domain/entry"
	"github.com/kailas-cloud/textdex/internal/domain/record"
)

// Repository defines the storage contract for index entries.
type Repository interface {
	Index(ctx context.Context, rec record.Record) ([]entry.Entry, error)
	Remove(ctx context.Context, recordType, recordID string) error
	Entries(ctx context.Context, recordType, recordID string) ([]entry.Entry, error)
	CountByType(ctx context.Context) (map[string]int, error)
}
