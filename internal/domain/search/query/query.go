package query

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/textdex/internal/domain"
)

// MaxClauses bounds the number of clauses in one boolean term.
const MaxClauses = 64

// Occur says how a clause takes part in matching.
type Occur int

const (
	// Should clauses are optional and only add relevance.
	Should Occur = iota
	// Must clauses are required (+term).
	Must
	// MustNot clauses exclude matching entries (-term).
	MustNot
)

func (o Occur) String() string {
	switch o {
	case Must:
		return "must"
	case MustNot:
		return "must_not"
	default:
		return "should"
	}
}

// Clause is one unit of a search term: a single word, a prefix, or a phrase.
// Terms holds processed tokens; a phrase carries more than one.
type Clause struct {
	Occur  Occur
	Terms  []string
	Phrase bool
	Prefix bool
}

// Query is a parsed term, ready to be rendered by a store.
type Query struct {
	Clauses []Clause
}

// IsEmpty reports whether nothing is left to match.
func (q Query) IsEmpty() bool {
	for _, c := range q.Clauses {
		if c.Occur != MustNot && len(c.Terms) > 0 {
			return false
		}
	}
	return true
}

// HasRequired reports whether any clause is a Must.
func (q Query) HasRequired() bool {
	for _, c := range q.Clauses {
		if c.Occur == Must {
			return true
		}
	}
	return false
}

// Any builds a natural-language query: every term optional.
func Any(terms []string) Query {
	q := Query{Clauses: make([]Clause, 0, len(terms))}
	for _, t := range terms {
		q.Clauses = append(q.Clauses, Clause{Occur: Should, Terms: []string{t}})
	}
	return q
}

// Token is a raw, unprocessed boolean clause as typed by the user.
type Token struct {
	Occur  Occur
	Text   string
	Phrase bool
	Prefix bool
}

// ParseBoolean splits a boolean-mode term into raw tokens.
// Supported operators: +required, -excluded, "phrase", trailing * for prefix.
// The MySQL relevance modifiers ~ < > are accepted and treated as optional.
func ParseBoolean(term string) ([]Token, error) {
	var tokens []Token
	rs := []rune(term)

	for i := 0; i < len(rs); {
		if unicode.IsSpace(rs[i]) {
			i++
			continue
		}

		occur := Should
		switch rs[i] {
		case '+':
			occur = Must
			i++
		case '-':
			occur = MustNot
			i++
		case '~', '<', '>':
			i++
		}
		if i >= len(rs) || unicode.IsSpace(rs[i]) {
			return nil, fmt.Errorf("%w: operator without a term at position %d", domain.ErrQuerySyntax, i)
		}
		if rs[i] == '+' || rs[i] == '-' {
			return nil, fmt.Errorf("%w: repeated operator at position %d", domain.ErrQuerySyntax, i)
		}

		if rs[i] == '"' {
			end := indexRune(rs, i+1, '"')
			if end < 0 {
				return nil, fmt.Errorf("%w: unbalanced quote at position %d", domain.ErrQuerySyntax, i)
			}
			text := strings.TrimSpace(string(rs[i+1 : end]))
			i = end + 1
			if text == "" {
				continue
			}
			tokens = append(tokens, Token{Occur: occur, Text: text, Phrase: true})
			continue
		}

		start := i
		for i < len(rs) && !unicode.IsSpace(rs[i]) && rs[i] != '"' {
			i++
		}
		word := string(rs[start:i])
		prefix := strings.HasSuffix(word, "*")
		word = strings.TrimRight(word, "*")
		if word == "" {
			return nil, fmt.Errorf("%w: wildcard without a prefix at position %d", domain.ErrQuerySyntax, start)
		}
		tokens = append(tokens, Token{Occur: occur, Text: word, Prefix: prefix})
	}

	if len(tokens) > MaxClauses {
		return nil, fmt.Errorf("%w: too many clauses (max %d)", domain.ErrQuerySyntax, MaxClauses)
	}
	return tokens, nil
}

func indexRune(rs []rune, from int, r rune) int {
	for i := from; i < len(rs); i++ {
		if rs[i] == r {
			return i
		}
	}
	return -1
}
