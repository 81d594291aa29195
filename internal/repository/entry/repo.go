package entry

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/textdex/internal/db"
	"github.com/kailas-cloud/textdex/internal/domain"
	domentry "github.com/kailas-cloud/textdex/internal/domain/entry"
	"github.com/kailas-cloud/textdex/internal/domain/record"
)

// store is the consumer interface for entry persistence (ISP).
type store interface {
	Replace(ctx context.Context, recordType, recordID string, rows []db.Row) error
	Delete(ctx context.Context, recordType, recordID string) error
	Entries(ctx context.Context, recordType, recordID string) ([]db.Row, error)
	CountByType(ctx context.Context) (map[string]int, error)
}

// processor turns raw field text into indexable content.
type processor interface {
	Process(raw string) string
}

// Repo implements usecase/indexing.Repository.
// Writes for the same record are serialised; different records proceed in parallel.
type Repo struct {
	store     store
	processor processor
	locks     *keyedMutex
}

// New creates an entry repository.
func New(s store, p processor) *Repo {
	return &Repo{store: s, processor: p, locks: newKeyedMutex()}
}

// Index runs every field through the pipeline and replaces the record's entries.
// Fields with zero weight must be resolved by the caller.
func (r *Repo) Index(ctx context.Context, rec record.Record) ([]domentry.Entry, error) {
	entries, err := r.build(rec)
	if err != nil {
		return nil, err
	}

	rows := make([]db.Row, len(entries))
	for i, e := range entries {
		rows[i] = toRow(e)
	}

	unlock := r.locks.Lock(rec.Key().String())
	defer unlock()

	if err := r.store.Replace(ctx, rec.Type(), rec.ID(), rows); err != nil {
		return nil, fmt.Errorf("replace %s: %w", rec.Key(), err)
	}
	return entries, nil
}

// Remove deletes every entry of a record. Absent records are not an error.
func (r *Repo) Remove(ctx context.Context, recordType, recordID string) error {
	key := record.Key{Type: recordType, ID: recordID}

	unlock := r.locks.Lock(key.String())
	defer unlock()

	if err := r.store.Delete(ctx, recordType, recordID); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Entries returns the stored entries of a record, ordered by field.
func (r *Repo) Entries(ctx context.Context, recordType, recordID string) ([]domentry.Entry, error) {
	rows, err := r.store.Entries(ctx, recordType, recordID)
	if err != nil {
		return nil, fmt.Errorf("entries %s/%s: %w", recordType, recordID, err)
	}
	out := make([]domentry.Entry, len(rows))
	for i, row := range rows {
		out[i] = domentry.Reconstruct(row.RecordType, row.RecordID, row.Field, row.Content, row.Weight)
	}
	return out, nil
}

// CountByType returns the number of stored entries per record type.
func (r *Repo) CountByType(ctx context.Context) (map[string]int, error) {
	counts, err := r.store.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	return counts, nil
}

func (r *Repo) build(rec record.Record) ([]domentry.Entry, error) {
	if rec.Type() == "" || rec.ID() == "" {
		return nil, fmt.Errorf("%w: record type and id are required", domain.ErrInvalidRecord)
	}
	names := rec.FieldNames()
	fields := rec.Fields()
	out := make([]domentry.Entry, 0, len(names))
	for _, name := range names {
		f := fields[name]
		e, err := domentry.New(rec.Type(), rec.ID(), name, r.processor.Process(f.Text), f.Weight)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %w", domain.ErrInvalidRecord, name, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func toRow(e domentry.Entry) db.Row {
	return db.Row{
		RecordType: e.RecordType(),
		RecordID:   e.RecordID(),
		Field:      e.Field(),
		Content:    e.Content(),
		Weight:     e.Weight(),
	}
}
