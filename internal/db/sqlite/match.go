package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/textdex/internal/db"
)

// Match runs the query against the FTS5 table, one row per matching entry.
func (s *Store) Match(ctx context.Context, q *db.MatchQuery) ([]db.Match, error) {
	expr := renderMatch(q.Query)
	if expr == "" {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT e.record_type, e.record_id, e.field, e.weight,
		       MAX(0.0, -bm25(search_index_fts)) AS relevance
		FROM search_index_fts
		JOIN search_index e ON e.id = search_index_fts.rowid
		WHERE search_index_fts MATCH ?`)
	args := []any{expr}

	if q.RecordType != "" {
		sb.WriteString(" AND e.record_type = ?")
		args = append(args, q.RecordType)
	}
	if len(q.Fields) > 0 {
		sb.WriteString(" AND e.field IN (")
		for i, f := range q.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("?")
			args = append(args, f)
		}
		sb.WriteString(")")
	}
	sb.WriteString(" ORDER BY e.record_type, e.record_id, e.field")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, matchError(err)
	}
	defer rows.Close()

	var out []db.Match
	for rows.Next() {
		var m db.Match
		if err := rows.Scan(&m.RecordType, &m.RecordID, &m.Field, &m.Weight, &m.Relevance); err != nil {
			return nil, &db.Error{Op: db.OpMatch, Err: err}
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, matchError(err)
	}
	return out, nil
}

func matchError(err error) error {
	if isFTSSyntaxError(err) {
		return &db.Error{Op: db.OpMatch, Err: fmt.Errorf("%w: %v", db.ErrSyntax, err)}
	}
	return &db.Error{Op: db.OpMatch, Err: err}
}

func isFTSSyntaxError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "fts5") || strings.Contains(msg, "syntax error")
}
