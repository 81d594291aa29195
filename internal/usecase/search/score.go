package search

import (
	"sort"

	"github.com/kailas-cloud/textdex/internal/db"
	"github.com/kailas-cloud/textdex/internal/domain/record"
	"github.com/kailas-cloud/textdex/internal/domain/search/result"
)

// aggregate groups per-entry matches by record and sums relevance × weight.
// Records whose total is not positive are dropped.
func aggregate(matches []db.Match) []result.Hit {
	type acc struct {
		score  float64
		fields map[string]float64
	}

	byKey := make(map[record.Key]*acc)
	order := make([]record.Key, 0)
	for _, m := range matches {
		k := record.Key{Type: m.RecordType, ID: m.RecordID}
		a, ok := byKey[k]
		if !ok {
			a = &acc{fields: make(map[string]float64)}
			byKey[k] = a
			order = append(order, k)
		}
		contrib := m.Relevance * m.Weight
		a.score += contrib
		a.fields[m.Field] += contrib
	}

	hits := make([]result.Hit, 0, len(order))
	for _, k := range order {
		a := byKey[k]
		if a.score <= 0 {
			continue
		}
		hits = append(hits, result.New(k.Type, k.ID, a.score, a.fields))
	}
	return hits
}

// rank orders hits by score descending when byScore is set, then by
// record type and id ascending. The result is a total order.
func rank(hits []result.Hit, byScore bool) {
	sort.Slice(hits, func(i, j int) bool {
		a, b := &hits[i], &hits[j]
		if byScore && a.Score() != b.Score() {
			return a.Score() > b.Score()
		}
		if a.RecordType() != b.RecordType() {
			return a.RecordType() < b.RecordType()
		}
		return a.ID() < b.ID()
	})
}

// paginate applies offset and limit; limit 0 means no limit.
func paginate(hits []result.Hit, offset, limit int) []result.Hit {
	if offset >= len(hits) {
		return nil
	}
	hits = hits[offset:]
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func keysOf(hits []result.Hit) []record.Key {
	keys := make([]record.Key, len(hits))
	for i := range hits {
		keys[i] = record.Key{Type: hits[i].RecordType(), ID: hits[i].ID()}
	}
	return keys
}

// retain keeps the hits whose key is in allowed, preserving order.
func retain(hits []result.Hit, allowed []record.Key) []result.Hit {
	set := make(map[record.Key]struct{}, len(allowed))
	for _, k := range allowed {
		set[k] = struct{}{}
	}
	out := hits[:0]
	for i := range hits {
		if _, ok := set[record.Key{Type: hits[i].RecordType(), ID: hits[i].ID()}]; ok {
			out = append(out, hits[i])
		}
	}
	return out
}
