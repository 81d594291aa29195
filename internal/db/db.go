package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	EntryWriter
	EntryReader
	Matcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Row is one stored index entry.
type Row struct {
	RecordType string
	RecordID   string
	Field      string
	Content    string
	Weight     float64
}

// EntryWriter replaces and deletes a record's entries.
type EntryWriter interface {
	// Replace atomically swaps every entry of (recordType, recordID) for rows.
	Replace(ctx context.Context, recordType, recordID string, rows []Row) error
	// Delete removes every entry of (recordType, recordID). Absent records are not an error.
	Delete(ctx context.Context, recordType, recordID string) error
}

// EntryReader reads stored entries back.
type EntryReader interface {
	Entries(ctx context.Context, recordType, recordID string) ([]Row, error)
	CountByType(ctx context.Context) (map[string]int, error)
}

// Matcher runs the store's native text-match primitive.
type Matcher interface {
	Match(ctx context.Context, q *MatchQuery) ([]Match, error)
}
