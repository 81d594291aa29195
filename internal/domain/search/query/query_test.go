package query

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/textdex/internal/domain"
)

func TestParseBoolean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Token
	}{
		{"single word", "chanter", []Token{{Occur: Should, Text: "chanter"}}},
		{"required and excluded", "+apple -pie", []Token{
			{Occur: Must, Text: "apple"},
			{Occur: MustNot, Text: "pie"},
		}},
		{"phrase", `"shut up" donny`, []Token{
			{Occur: Should, Text: "shut up", Phrase: true},
			{Occur: Should, Text: "donny"},
		}},
		{"required phrase", `+"big lebowski"`, []Token{
			{Occur: Must, Text: "big lebowski", Phrase: true},
		}},
		{"prefix", "chaus*", []Token{{Occur: Should, Text: "chaus", Prefix: true}}},
		{"relevance modifiers", "~rug >dude", []Token{
			{Occur: Should, Text: "rug"},
			{Occur: Should, Text: "dude"},
		}},
		{"extra spaces", "  a   b  ", []Token{
			{Occur: Should, Text: "a"},
			{Occur: Should, Text: "b"},
		}},
		{"empty phrase dropped", `"" walter`, []Token{{Occur: Should, Text: "walter"}}},
		{"empty", "", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseBoolean(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d tokens %+v, want %d", len(got), got, len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("token %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestParseBoolean_SyntaxErrors(t *testing.T) {
	inputs := []string{
		`"unbalanced`,
		`+`,
		`apple - pie`,
		`+-apple`,
		`*`,
	}
	for _, in := range inputs {
		_, err := ParseBoolean(in)
		if !errors.Is(err, domain.ErrQuerySyntax) {
			t.Errorf("ParseBoolean(%q) error = %v, want ErrQuerySyntax", in, err)
		}
	}
}

func TestParseBoolean_TooManyClauses(t *testing.T) {
	term := ""
	for range MaxClauses + 1 {
		term += "w "
	}
	if _, err := ParseBoolean(term); !errors.Is(err, domain.ErrQuerySyntax) {
		t.Fatalf("expected ErrQuerySyntax, got %v", err)
	}
}

func TestQuery_IsEmpty(t *testing.T) {
	if !(Query{}).IsEmpty() {
		t.Error("zero query should be empty")
	}
	onlyExcluded := Query{Clauses: []Clause{{Occur: MustNot, Terms: []string{"x"}}}}
	if !onlyExcluded.IsEmpty() {
		t.Error("a query with only exclusions matches nothing")
	}
	if Any([]string{"a"}).IsEmpty() {
		t.Error("Any with a term should not be empty")
	}
}

func TestQuery_HasRequired(t *testing.T) {
	if Any([]string{"a", "b"}).HasRequired() {
		t.Error("natural language queries have no required clause")
	}
	q := Query{Clauses: []Clause{{Occur: Must, Terms: []string{"a"}}}}
	if !q.HasRequired() {
		t.Error("expected HasRequired")
	}
}

func TestOccur_String(t *testing.T) {
	if Should.String() != "should" || Must.String() != "must" || MustNot.String() != "must_not" {
		t.Errorf("unexpected names: %s %s %s", Should, Must, MustNot)
	}
}
