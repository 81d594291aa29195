package entry

import (
	"context"
	"strings"
	"testing"

	"github.com/kailas-cloud/textdex/internal/db"
	"github.com/kailas-cloud/textdex/internal/domain/record"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	replaceFn     func(ctx context.Context, recordType, recordID string, rows []db.Row) error
	deleteFn      func(ctx context.Context, recordType, recordID string) error
	entriesFn     func(ctx context.Context, recordType, recordID string) ([]db.Row, error)
	countByTypeFn func(ctx context.Context) (map[string]int, error)
}

func (m *mockStore) Replace(ctx context.Context, recordType, recordID string, rows []db.Row) error {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, recordType, recordID, rows)
	}
	return nil
}

func (m *mockStore) Delete(ctx context.Context, recordType, recordID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, recordType, recordID)
	}
	return nil
}

func (m *mockStore) Entries(ctx context.Context, recordType, recordID string) ([]db.Row, error) {
	if m.entriesFn != nil {
		return m.entriesFn(ctx, recordType, recordID)
	}
	return nil, nil
}

func (m *mockStore) CountByType(ctx context.Context) (map[string]int, error) {
	if m.countByTypeFn != nil {
		return m.countByTypeFn(ctx)
	}
	return map[string]int{}, nil
}

// upperProcessor stands in for the text pipeline.
type upperProcessor struct{}

func (upperProcessor) Process(raw string) string { return strings.ToUpper(raw) }

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, upperProcessor{}), ms
}

func testRecord(t *testing.T) record.Record {
	t.Helper()
	rec, err := record.New("post", "1", map[string]record.Field{
		"title": {Text: "hello", Weight: 2},
		"body":  {Text: "world", Weight: 1},
	})
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}
	return rec
}
