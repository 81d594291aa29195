package db

import "github.com/kailas-cloud/textdex/internal/domain/search/query"

// MatchQuery is the input for a text match over the entries table.
type MatchQuery struct {
	Query      query.Query
	RecordType string   // empty = all types
	Fields     []string // empty = all fields
}

// Match is one entry that satisfied the query.
// Relevance is the store's per-entry score, higher is better, never negative.
type Match struct {
	RecordType string
	RecordID   string
	Field      string
	Weight     float64
	Relevance  float64
}
