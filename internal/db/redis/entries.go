package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/textdex/internal/db"
)

// recordPrefix prefixes the per-record set of entry keys.
const recordPrefix = "textdex:record:"

var keyEscaper = strings.NewReplacer(
	"%", "%25",
	":", "%3A",
	"{", "%7B",
	"}", "%7D",
)

// slot keeps every key of one record in the same cluster hash slot,
// which MULTI needs.
func slot(recordType, recordID string) string {
	return "{" + keyEscaper.Replace(recordType) + ":" + keyEscaper.Replace(recordID) + "}"
}

func entryKey(recordType, recordID, field string) string {
	return EntryPrefix + slot(recordType, recordID) + ":" + keyEscaper.Replace(field)
}

func recordKey(recordType, recordID string) string {
	return recordPrefix + slot(recordType, recordID)
}

// Replace swaps every entry of a record inside one MULTI/EXEC.
func (s *Store) Replace(ctx context.Context, recordType, recordID string, rows []db.Row) error {
	rk := recordKey(recordType, recordID)
	old, err := s.members(ctx, rk)
	if err != nil {
		return err
	}

	cmds := make(rueidis.Commands, 0, len(rows)+5)
	cmds = append(cmds, s.b().Multi().Build())
	if len(old) > 0 {
		cmds = append(cmds, s.b().Del().Key(old...).Build())
	}
	cmds = append(cmds, s.b().Del().Key(rk).Build())

	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.RecordType != recordType || r.RecordID != recordID {
			return &db.Error{Op: db.OpExec, Err: fmt.Errorf(
				"row %s/%s does not belong to record %s/%s", r.RecordType, r.RecordID, recordType, recordID,
			)}
		}
		k := entryKey(r.RecordType, r.RecordID, r.Field)
		cmds = append(cmds, s.b().Hset().Key(k).FieldValue().
			FieldValue("record_type", r.RecordType).
			FieldValue("record_id", r.RecordID).
			FieldValue("field", r.Field).
			FieldValue("content", r.Content).
			FieldValue("weight", strconv.FormatFloat(r.Weight, 'g', -1, 64)).
			Build())
		keys = append(keys, k)
	}
	if len(keys) > 0 {
		cmds = append(cmds, s.b().Sadd().Key(rk).Member(keys...).Build())
	}
	cmds = append(cmds, s.b().Exec().Build())

	return s.exec(ctx, cmds)
}

// Delete removes every entry of a record.
func (s *Store) Delete(ctx context.Context, recordType, recordID string) error {
	rk := recordKey(recordType, recordID)
	old, err := s.members(ctx, rk)
	if err != nil {
		return err
	}
	if len(old) == 0 {
		return nil
	}

	return s.exec(ctx, rueidis.Commands{
		s.b().Multi().Build(),
		s.b().Del().Key(old...).Build(),
		s.b().Del().Key(rk).Build(),
		s.b().Exec().Build(),
	})
}

// Entries returns the stored rows of a record ordered by field.
func (s *Store) Entries(ctx context.Context, recordType, recordID string) ([]db.Row, error) {
	keys, err := s.members(ctx, recordKey(recordType, recordID))
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make(rueidis.Commands, len(keys))
	for i, k := range keys {
		cmds[i] = s.b().Hgetall().Key(k).Build()
	}

	out := make([]db.Row, 0, len(keys))
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		m, err := res.AsStrMap()
		if err != nil {
			return nil, &db.Error{Op: db.OpHGetAll, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		if len(m) == 0 {
			continue
		}
		r, err := rowFromHash(m)
		if err != nil {
			return nil, &db.Error{Op: db.OpHGetAll, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out, nil
}

// CountByType returns the number of entries per record type via FT.AGGREGATE.
func (s *Store) CountByType(ctx context.Context) (map[string]int, error) {
	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(
		IndexName, "*",
		"GROUPBY", "1", "@record_type",
		"REDUCE", "COUNT", "0", "AS", "count",
	).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	out := make(map[string]int)
	// [groups, [record_type, t1, count, n1], [record_type, t2, count, n2], ...]
	for i := 1; i < len(raw); i++ {
		pairs, err := raw[i].ToArray()
		if err != nil {
			continue
		}
		m := parseFieldPairs(pairs)
		n, err := strconv.Atoi(m["count"])
		if err != nil {
			continue
		}
		out[m["record_type"]] = n
	}
	return out, nil
}

func (s *Store) members(ctx context.Context, key string) ([]string, error) {
	keys, err := s.do(ctx, s.b().Smembers().Key(key).Build()).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpSMembers, Err: err}
	}
	sort.Strings(keys)
	return keys, nil
}

// exec sends a MULTI ... EXEC pipeline and surfaces the first failure,
// including errors of individual queued commands.
func (s *Store) exec(ctx context.Context, cmds rueidis.Commands) error {
	results := s.client.DoMulti(ctx, cmds...)
	for _, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpExec, Err: err}
		}
	}
	if len(results) == 0 {
		return nil
	}

	replies, err := results[len(results)-1].ToArray()
	if err != nil {
		return &db.Error{Op: db.OpExec, Err: err}
	}
	for _, r := range replies {
		if err := r.Error(); err != nil {
			return &db.Error{Op: db.OpExec, Err: err}
		}
	}
	return nil
}

func rowFromHash(m map[string]string) (db.Row, error) {
	r := db.Row{
		RecordType: m["record_type"],
		RecordID:   m["record_id"],
		Field:      m["field"],
		Content:    m["content"],
	}
	if r.RecordType == "" || r.RecordID == "" || r.Field == "" {
		return db.Row{}, errors.New("incomplete entry hash")
	}
	w, err := strconv.ParseFloat(m["weight"], 64)
	if err != nil {
		return db.Row{}, fmt.Errorf("parse weight: %w", err)
	}
	r.Weight = w
	return r, nil
}
