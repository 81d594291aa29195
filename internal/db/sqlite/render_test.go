package sqlite

import (
	"testing"

	"github.com/kailas-cloud/textdex/internal/domain/search/query"
)

func TestRenderMatch(t *testing.T) {
	tests := []struct {
		name string
		q    query.Query
		want string
	}{
		{
			name: "empty",
			q:    query.Query{},
			want: "",
		},
		{
			name: "single optional",
			q:    query.Any([]string{"chat"}),
			want: `"chat"`,
		},
		{
			name: "optional terms",
			q:    query.Any([]string{"chat", "noir"}),
			want: `("chat" OR "noir")`,
		},
		{
			name: "required only",
			q: query.Query{Clauses: []query.Clause{
				{Occur: query.Must, Terms: []string{"a"}},
				{Occur: query.Must, Terms: []string{"b"}},
			}},
			want: `("a" AND "b")`,
		},
		{
			name: "required and optional",
			q: query.Query{Clauses: []query.Clause{
				{Occur: query.Must, Terms: []string{"a"}},
				{Occur: query.Should, Terms: []string{"b"}},
			}},
			want: `"a" AND ("a" OR "b")`,
		},
		{
			name: "exclusions",
			q: query.Query{Clauses: []query.Clause{
				{Occur: query.Should, Terms: []string{"a"}},
				{Occur: query.MustNot, Terms: []string{"b"}},
				{Occur: query.MustNot, Terms: []string{"c"}},
			}},
			want: `("a") NOT ("b" OR "c")`,
		},
		{
			name: "exclusion only",
			q:    query.Query{Clauses: []query.Clause{{Occur: query.MustNot, Terms: []string{"b"}}}},
			want: "",
		},
		{
			name: "phrase and prefix",
			q: query.Query{Clauses: []query.Clause{
				{Occur: query.Must, Terms: []string{"chat", "noir"}, Phrase: true},
				{Occur: query.Must, Terms: []string{"bou"}, Prefix: true},
			}},
			want: `("chat noir" AND "bou"*)`,
		},
		{
			name: "empty clause skipped",
			q: query.Query{Clauses: []query.Clause{
				{Occur: query.Must, Terms: nil},
				{Occur: query.Should, Terms: []string{"a"}},
			}},
			want: `"a"`,
		},
		{
			name: "quotes escaped",
			q:    query.Any([]string{`a"b`}),
			want: `"a""b"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := renderMatch(tc.q); got != tc.want {
				t.Errorf("renderMatch() = %s, want %s", got, tc.want)
			}
		})
	}
}
