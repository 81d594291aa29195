// Package textdex adds relevance-ranked full-text search to arbitrary record
// types on top of SQLite (FTS5) or Redis 8 (Query Engine).
//
// Records are projected onto searchable fields, run through a text pipeline
// (filters, stopwords, minimum length, stemming) and stored as one entry per
// field. Searches aggregate per-field relevance weighted by field weight.
//
// # Low-level API
//
//	client, _ := textdex.New(textdex.WithSQLite("data/search.db"),
//	    textdex.WithPipeline(textdex.PipelineConfig{Stemmer: "french"}),
//	)
//	rec, _ := textdex.NewRecord("post", "1", map[string]textdex.Field{
//	    "title": {Text: "Salut ça boume", Weight: 2},
//	})
//	_ = client.Index(ctx, rec)
//	hits, _ := client.Search("boume").Type("post").OrderByScore().Keys(ctx)
//
// # Schema-first API with Go generics
//
//	type Post struct {
//	    ID     string `textdex:"id,id"`
//	    Title  string `textdex:"title,searchable,weight=2"`
//	    Body   string `textdex:"body,searchable"`
//	    Author string `textdex:"author,attr"`
//	}
//
//	idx, _ := textdex.NewIndex[Post](client, "post")
//	_ = idx.Index(ctx, post)
//	posts, _ := idx.Search("boume").Where("author", "gargamel").Get(ctx)
package textdex
