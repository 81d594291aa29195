package textdex

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type post struct {
	ID     string   `textdex:"id,id"`
	Title  string   `textdex:"title,searchable,weight=2"`
	Body   string   `textdex:"body,searchable"`
	Tags   []string `textdex:"tags,searchable,weight=0.5"`
	Author string   `textdex:"author,attr"`
	Likes  int      `textdex:"likes,attr"`
	Draft  bool
}

type noIDDoc struct {
	Title string `textdex:"title,searchable"`
}

type noSearchableDoc struct {
	ID string `textdex:"id,id"`
}

type badWeightDoc struct {
	ID    string `textdex:"id,id"`
	Title string `textdex:"title,searchable,weight=heavy"`
}

type badModifierDoc struct {
	ID    string `textdex:"id,id"`
	Title string `textdex:"title,vector"`
}

type duplicateIDDoc struct {
	ID   string `textdex:"id,id"`
	Slug string `textdex:"slug,id"`
	Body string `textdex:"body,searchable"`
}

// --- Schema ---

func TestNewIndex_Valid(t *testing.T) {
	// NewIndex only parses schema, doesn't need a real client.
	idx, err := NewIndex[post](nil, "post")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Type() != "post" {
		t.Errorf("Type() = %q, want post", idx.Type())
	}
	if len(idx.meta.searchable) != 3 {
		t.Errorf("searchable = %d, want 3", len(idx.meta.searchable))
	}
	if len(idx.meta.attrs) != 2 {
		t.Errorf("attrs = %d, want 2", len(idx.meta.attrs))
	}
	known := idx.meta.known()
	if !known["title"] || !known["tags"] || known["author"] {
		t.Errorf("known = %v", known)
	}
}

func TestNewIndex_InvalidSchema(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"no id", func() error { _, err := NewIndex[noIDDoc](nil, "x"); return err }},
		{"no searchable", func() error { _, err := NewIndex[noSearchableDoc](nil, "x"); return err }},
		{"bad weight", func() error { _, err := NewIndex[badWeightDoc](nil, "x"); return err }},
		{"bad modifier", func() error { _, err := NewIndex[badModifierDoc](nil, "x"); return err }},
		{"duplicate id", func() error { _, err := NewIndex[duplicateIDDoc](nil, "x"); return err }},
		{"non struct", func() error { _, err := NewIndex[int](nil, "x"); return err }},
		{"empty type", func() error { _, err := NewIndex[post](nil, ""); return err }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.fn(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSearchable(t *testing.T) {
	idx, err := NewIndex[post](nil, "post")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	rec, err := idx.Searchable(post{
		ID: "7", Title: "Salut", Body: "ça boume",
		Tags: []string{"chat", "noir"}, Author: "gargamel", Likes: 3,
	})
	if err != nil {
		t.Fatalf("Searchable: %v", err)
	}
	if rec.Type() != "post" || rec.ID() != "7" {
		t.Errorf("key = %s", rec.Key())
	}
	fields := rec.Fields()
	if fields["title"].Text != "Salut" || fields["title"].Weight != 2 {
		t.Errorf("title = %+v", fields["title"])
	}
	if fields["body"].Weight != 0 {
		t.Errorf("body weight = %v, want 0 (configured default)", fields["body"].Weight)
	}
	if fields["tags"].Text != "chat noir" || fields["tags"].Weight != 0.5 {
		t.Errorf("tags = %+v", fields["tags"])
	}
	if rec.Attributes()["author"] != "gargamel" || rec.Attributes()["likes"] != 3 {
		t.Errorf("attributes = %v", rec.Attributes())
	}
}

func TestSearchable_EmptyID(t *testing.T) {
	idx, err := NewIndex[post](nil, "post")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if _, err := idx.Searchable(post{Title: "x"}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

// --- Typed search ---

func seedPosts(t *testing.T, idx *TypedIndex[post]) {
	t.Helper()
	posts := make([]post, 5)
	for i := range posts {
		posts[i] = post{
			ID:     fmt.Sprint(i),
			Title:  "salut",
			Body:   "les schtroumpfs",
			Author: "schtroumpf",
			Likes:  i,
		}
	}
	posts[4].Author = "gargamel"
	posts[4].Title = "boume"
	posts[4].Body = "salut"

	results, err := idx.Rebuild(context.Background(), posts)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	for _, r := range results {
		if !r.OK {
			t.Fatalf("rebuild %s/%s: %v", r.Type, r.ID, r.Err)
		}
	}
}

func TestTypedIndex_SearchAndGet(t *testing.T) {
	c := newTestClient(t)
	idx, err := NewIndex[post](c, "post")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	seedPosts(t, idx)
	ctx := context.Background()

	got, err := idx.Search("salut").OrderByScore().Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("items = %d, want 5", len(got))
	}
	// post 4 matches only in its body (weight 1), the others in their title (weight 2).
	if got[4].ID != "4" {
		t.Errorf("last item = %s, want 4", got[4].ID)
	}

	byAuthor, err := idx.Search("salut").Where("author", "gargamel").Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(byAuthor) != 1 || byAuthor[0].Author != "gargamel" {
		t.Errorf("byAuthor = %+v", byAuthor)
	}

	n, err := idx.Search("salut").Only("title").Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 4 {
		t.Errorf("Count(title) = %d, want 4", n)
	}
}

func TestTypedIndex_RestrictedToType(t *testing.T) {
	c := newTestClient(t)
	idx, err := NewIndex[post](c, "post")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	seedPosts(t, idx)
	mustIndex(t, c, newRecord(t, "comment", "1", map[string]Field{"body": {Text: "salut"}}))

	hits, err := idx.Search("salut").Keys(context.Background())
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	for _, h := range hits {
		if h.Type != "post" {
			t.Errorf("hit %s/%s leaked into typed search", h.Type, h.ID)
		}
	}
}

func TestTypedIndex_UnknownField(t *testing.T) {
	c := newTestClient(t)
	idx, err := NewIndex[post](c, "post")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	_, err = idx.Search("salut").Only("author").Keys(context.Background())
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestTypedIndex_Remove(t *testing.T) {
	c := newTestClient(t)
	idx, err := NewIndex[post](c, "post")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	ctx := context.Background()
	if err := idx.Index(ctx, post{ID: "1", Title: "salut"}); err != nil {
		t.Fatalf("Index: %v", err)
	}

	if err := idx.Remove(ctx, "1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	n, err := idx.Search("salut").Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
	if idx.records.Len() != 0 {
		t.Errorf("records = %d, want 0", idx.records.Len())
	}
}

func TestTypedIndex_SharesClientRecords(t *testing.T) {
	records := NewMemoryRecords()
	c := newTestClient(t, WithRecords(records))
	idx, err := NewIndex[post](c, "post")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if err := idx.Index(context.Background(), post{ID: "1", Title: "salut"}); err != nil {
		t.Fatalf("Index: %v", err)
	}

	items, err := c.Search("salut").Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if p, ok := items[0].(post); !ok || p.ID != "1" {
		t.Errorf("items[0] = %#v", items[0])
	}
}
