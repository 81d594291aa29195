package record

import "testing"

func TestNew_Valid(t *testing.T) {
	r, err := New("post", "7", map[string]Field{
		"title": {Text: "Hello", Weight: 2},
		"body":  {Text: "World"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Type() != "post" || r.ID() != "7" {
		t.Errorf("identity = %s", r.Key())
	}
	names := r.FieldNames()
	if len(names) != 2 || names[0] != "body" || names[1] != "title" {
		t.Errorf("FieldNames() = %v", names)
	}
	if r.Key().String() != "post/7" {
		t.Errorf("Key().String() = %q", r.Key().String())
	}
}

func TestNew_CopiesFields(t *testing.T) {
	fields := map[string]Field{"title": {Text: "a"}}
	r, err := New("post", "1", fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields["title"] = Field{Text: "mutated"}
	if r.Fields()["title"].Text != "a" {
		t.Error("record shares the caller's map")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		typ    string
		id     string
		fields map[string]Field
	}{
		{"empty type", "", "1", nil},
		{"empty id", "post", "", nil},
		{"empty field name", "post", "1", map[string]Field{"": {Text: "x"}}},
		{"negative weight", "post", "1", map[string]Field{"title": {Text: "x", Weight: -1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.typ, tc.id, tc.fields); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestWithAttributes(t *testing.T) {
	r, _ := New("comment", "1", nil)
	attrs := map[string]any{"author": "gargamel"}
	r2 := r.WithAttributes(attrs)
	attrs["author"] = "changed"

	if r.Attributes() != nil {
		t.Error("original record must stay untouched")
	}
	if r2.Attributes()["author"] != "gargamel" {
		t.Errorf("author = %v", r2.Attributes()["author"])
	}
}
