package sqlite

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/textdex/internal/db"
)

// Replace swaps every entry of a record inside one transaction.
func (s *Store) Replace(ctx context.Context, recordType, recordID string, rows []db.Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpBegin, Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM search_index WHERE record_type = ? AND record_id = ?",
		recordType, recordID,
	); err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}

	if len(rows) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO search_index (record_type, record_id, field, content, weight)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return &db.Error{Op: db.OpInsert, Err: err}
		}
		defer stmt.Close()

		for _, r := range rows {
			if r.RecordType != recordType || r.RecordID != recordID {
				return &db.Error{Op: db.OpInsert, Err: fmt.Errorf(
					"row %s/%s does not belong to record %s/%s", r.RecordType, r.RecordID, recordType, recordID,
				)}
			}
			if _, err := stmt.ExecContext(ctx, r.RecordType, r.RecordID, r.Field, r.Content, r.Weight); err != nil {
				return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("field %s: %w", r.Field, err)}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpCommit, Err: err}
	}
	return nil
}

// Delete removes every entry of a record.
func (s *Store) Delete(ctx context.Context, recordType, recordID string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM search_index WHERE record_type = ? AND record_id = ?",
		recordType, recordID,
	); err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	return nil
}

// Entries returns the stored rows of a record ordered by field.
func (s *Store) Entries(ctx context.Context, recordType, recordID string) ([]db.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT record_type, record_id, field, content, weight
		FROM search_index
		WHERE record_type = ? AND record_id = ?
		ORDER BY field
	`, recordType, recordID)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	var out []db.Row
	for rows.Next() {
		var r db.Row
		if err := rows.Scan(&r.RecordType, &r.RecordID, &r.Field, &r.Content, &r.Weight); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

// CountByType returns the number of entries per record type.
func (s *Store) CountByType(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT record_type, COUNT(*) FROM search_index GROUP BY record_type",
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			recordType string
			n          int
		)
		if err := rows.Scan(&recordType, &n); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		out[recordType] = n
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}
