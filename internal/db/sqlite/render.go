package sqlite

import (
	"strings"

	"github.com/kailas-cloud/textdex/internal/domain/search/query"
)

// renderMatch turns a query into an FTS5 MATCH expression.
//
// Required clauses are ANDed. Optional clauses are ORed together with the
// required ones so they raise bm25 without narrowing the result. Excluded
// clauses hang off a trailing NOT. Returns "" when nothing can match.
func renderMatch(q query.Query) string {
	var must, should, mustNot []string
	for _, c := range q.Clauses {
		p := renderClause(c)
		if p == "" {
			continue
		}
		switch c.Occur {
		case query.Must:
			must = append(must, p)
		case query.MustNot:
			mustNot = append(mustNot, p)
		default:
			should = append(should, p)
		}
	}

	var expr string
	switch {
	case len(must) > 0 && len(should) > 0:
		either := append(append([]string{}, must...), should...)
		expr = group(must, " AND ") + " AND " + group(either, " OR ")
	case len(must) > 0:
		expr = group(must, " AND ")
	case len(should) > 0:
		expr = group(should, " OR ")
	default:
		return ""
	}

	if len(mustNot) > 0 {
		expr = "(" + expr + ") NOT " + group(mustNot, " OR ")
	}
	return expr
}

func renderClause(c query.Clause) string {
	terms := make([]string, 0, len(c.Terms))
	for _, t := range c.Terms {
		if t != "" {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return ""
	}
	s := quote(strings.Join(terms, " "))
	if c.Prefix && !c.Phrase {
		s += "*"
	}
	return s
}

func group(parts []string, sep string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// quote wraps s as an FTS5 string, which FTS5 reads as a phrase when it
// tokenizes into several words.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
