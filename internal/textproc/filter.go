package textproc

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/textdex/internal/domain"
)

// Filter names accepted in configuration.
const (
	FilterStripTags          = "strip_tags"
	FilterHTMLEntityDecode   = "html_entity_decode"
	FilterLowercase          = "lowercase"
	FilterUnicodeNormalize   = "unicode_normalize"
	FilterRemoveAccents      = "remove_accents"
	FilterCollapseWhitespace = "collapse_whitespace"
)

// Filter is a pure raw-text transform applied before tokenization.
type Filter func(string) string

var filters = map[string]Filter{
	FilterStripTags:          stripTags,
	FilterHTMLEntityDecode:   html.UnescapeString,
	FilterLowercase:          lowercase,
	FilterUnicodeNormalize:   norm.NFC.String,
	FilterRemoveAccents:      removeAccents,
	FilterCollapseWhitespace: collapseWhitespace,
}

// LookupFilter resolves a filter by name.
func LookupFilter(name string) (Filter, error) {
	f, ok := filters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", domain.ErrUnknownFilter, name, strings.Join(FilterNames(), ", "))
	}
	return f, nil
}

// FilterNames returns the registered filter names in sorted order.
func FilterNames() []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// stripTags drops markup and keeps text as written, entities included.
// Each tag becomes a space so adjacent block contents stay separate words.
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	b.Grow(len(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Raw())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

// Casers carry state, so one is built per call.
func lowercase(s string) string {
	return cases.Lower(language.Und).String(s)
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
