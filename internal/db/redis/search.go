package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/kailas-cloud/textdex/internal/db"
	"github.com/kailas-cloud/textdex/internal/domain/search/query"
)

const (
	// pageSize is how many entries one FT.SEARCH round-trip returns.
	pageSize = 1000
	// maxResults mirrors the server's default MAXSEARCHRESULTS.
	maxResults = 10000
)

var returnFields = []string{"record_type", "record_id", "field", "weight"}

// Match runs the query via FT.SEARCH with BM25 scores, paging until every
// matching entry is collected.
func (s *Store) Match(ctx context.Context, q *db.MatchQuery) ([]db.Match, error) {
	expr := renderQuery(q.Query)
	if expr == "" {
		return nil, nil
	}
	queryStr := buildSearchQuery(expr, q.RecordType, q.Fields)

	var (
		out   []db.Match
		total int
	)
	for offset := 0; offset < maxResults; offset += pageSize {
		args := []string{IndexName, queryStr, "WITHSCORES", "SCORER", "BM25"}
		args = append(args, "RETURN", strconv.Itoa(len(returnFields)))
		args = append(args, returnFields...)
		args = append(args,
			"LIMIT", strconv.Itoa(offset), strconv.Itoa(pageSize),
			"DIALECT", "2",
		)

		cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
		raw, err := s.do(ctx, cmd).ToArray()
		if err != nil {
			if isRedisErr(err, "syntax error") {
				return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("%w: %v", db.ErrSyntax, err)}
			}
			return nil, &db.Error{Op: db.OpSearch, Err: err}
		}

		n, page, err := parseMatchPage(raw)
		if err != nil {
			return nil, &db.Error{Op: db.OpSearch, Err: err}
		}
		total = n
		out = append(out, page...)
		if len(page) == 0 || offset+pageSize >= total {
			break
		}
	}
	if total > maxResults {
		s.logger.Warn("Match results truncated",
			zap.String("query", queryStr),
			zap.Int("total", total),
			zap.Int("collected", len(out)),
			zap.Int("max_results", maxResults),
		)
	}
	return out, nil
}

// --- Query rendering ---

// renderQuery turns a query into RediSearch syntax. Required clauses are
// intersected, optional ones carry ~ when anything is required and form a
// union otherwise, excluded ones are negated. Returns "" when nothing can match.
func renderQuery(q query.Query) string {
	required := q.HasRequired()
	var positive, negative []string

	for _, c := range q.Clauses {
		p := renderClause(c)
		if p == "" {
			continue
		}
		switch c.Occur {
		case query.Must:
			positive = append(positive, p)
		case query.MustNot:
			negative = append(negative, "-"+p)
		default:
			if required {
				positive = append(positive, "~"+p)
			} else {
				positive = append(positive, p)
			}
		}
	}
	if len(positive) == 0 {
		return ""
	}

	var expr string
	if !required && len(positive) > 1 {
		expr = "(" + strings.Join(positive, " | ") + ")"
	} else {
		expr = strings.Join(positive, " ")
	}
	if len(negative) > 0 {
		expr += " " + strings.Join(negative, " ")
	}
	return expr
}

func renderClause(c query.Clause) string {
	words := make([]string, 0, len(c.Terms))
	for _, t := range c.Terms {
		if t != "" {
			words = append(words, escapeQuery(t))
		}
	}
	switch {
	case len(words) == 0:
		return ""
	case len(words) > 1 || c.Phrase:
		return `"` + strings.Join(words, " ") + `"`
	case c.Prefix:
		return words[0] + "*"
	default:
		return words[0]
	}
}

// buildSearchQuery scopes the text expression to the content field and
// adds tag filters for record type and field names.
func buildSearchQuery(expr, recordType string, fields []string) string {
	var parts []string
	if recordType != "" {
		parts = append(parts, buildTagFilter("record_type", recordType))
	}
	if len(fields) > 0 {
		parts = append(parts, buildTagFilter("field", fields...))
	}
	parts = append(parts, "@content:("+expr+")")
	return strings.Join(parts, " ")
}

func buildTagFilter(key string, values ...string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = tagEscaper.Replace(v)
	}
	return fmt.Sprintf("@%s:{%s}", key, strings.Join(escaped, " | "))
}

// --- Result parsing ---

// parseMatchPage reads a RESP2 WITHSCORES reply:
// [total, key1, score1, fields1, key2, score2, fields2, ...].
func parseMatchPage(raw []rueidis.RedisMessage) (int, []db.Match, error) {
	if len(raw) == 0 {
		return 0, nil, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return 0, nil, nil
	}

	out := make([]db.Match, 0, (len(raw)-1)/3)
	for i := 1; i+2 < len(raw); i += 3 {
		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		fields, err := raw[i+2].ToArray()
		if err != nil {
			continue
		}
		m := parseFieldPairs(fields)
		weight, err := strconv.ParseFloat(m["weight"], 64)
		if err != nil {
			continue
		}

		out = append(out, db.Match{
			RecordType: m["record_type"],
			RecordID:   m["record_id"],
			Field:      m["field"],
			Weight:     weight,
			Relevance:  max(0, score),
		})
	}

	return int(total), out, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Escaping ---

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
)
