package textproc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kljensen/snowball/english"
	"github.com/kljensen/snowball/french"
	"github.com/kljensen/snowball/norwegian"
	"github.com/kljensen/snowball/russian"
	"github.com/kljensen/snowball/spanish"
	"github.com/kljensen/snowball/swedish"

	"github.com/kailas-cloud/textdex/internal/domain"
)

// Stemmer reduces a token to its stem. Implementations must be safe for concurrent use.
type Stemmer interface {
	Stem(word string) string
}

// StemmerFunc adapts a plain function to Stemmer.
type StemmerFunc func(string) string

// Stem calls f(word).
func (f StemmerFunc) Stem(word string) string { return f(word) }

// Identity leaves tokens unchanged.
var Identity Stemmer = StemmerFunc(func(w string) string { return w })

type snowballFunc func(word string, stemStopWords bool) string

// Snowball stemmers lowercase their input.
var snowballStemmers = map[string]snowballFunc{
	"english":   english.Stem,
	"french":    french.Stem,
	"spanish":   spanish.Stem,
	"russian":   russian.Stem,
	"swedish":   swedish.Stem,
	"norwegian": norwegian.Stem,
}

var stemmerAliases = map[string]string{
	"en":      "english",
	"porter2": "english",
	"fr":      "french",
	"es":      "spanish",
	"ru":      "russian",
	"sv":      "swedish",
	"no":      "norwegian",
	"nb":      "norwegian",
}

// LookupStemmer resolves a stemmer by language name or ISO 639-1 code.
// An empty name yields Identity.
func LookupStemmer(name string) (Stemmer, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Identity, nil
	}
	if alias, ok := stemmerAliases[key]; ok {
		key = alias
	}
	fn, ok := snowballStemmers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", domain.ErrUnknownStemmer, name, strings.Join(StemmerNames(), ", "))
	}
	// Stopword removal is a separate stage, so snowball must stem every token.
	return StemmerFunc(func(w string) string { return fn(w, true) }), nil
}

// StemmerNames returns the registered languages in sorted order.
func StemmerNames() []string {
	names := make([]string, 0, len(snowballStemmers))
	for name := range snowballStemmers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
