// Package textproc turns raw field text into the normalized content stored in the index.
//
// Stages run in a fixed order: filters, tokenization, stopword removal,
// minimum-length pruning, stemming. The same pipeline processes search terms,
// so indexed content and queries always agree.
package textproc

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/textdex/internal/domain"
)

// Config selects the pipeline stages. The zero value tokenizes and nothing else.
type Config struct {
	Filters       []string
	Stopwords     []string
	MinimumLength int
	Stemmer       string
}

// Option customizes a Pipeline beyond what Config can express.
type Option func(*Pipeline)

// WithStemmer injects a stemmer capability, overriding Config.Stemmer.
func WithStemmer(s Stemmer) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.stemmer = s
		}
	}
}

// Pipeline is an immutable, concurrency-safe text processor.
type Pipeline struct {
	filterNames []string
	filters     []Filter
	stopwords   map[string]struct{}
	minLength   int
	stemmer     Stemmer
}

// New validates cfg and builds a Pipeline. Unknown filters and stemmers fail here, not at index time.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if cfg.MinimumLength < 0 {
		return nil, fmt.Errorf("%w: minimum length must not be negative", domain.ErrInvalidConfig)
	}

	p := &Pipeline{
		filterNames: append([]string(nil), cfg.Filters...),
		filters:     make([]Filter, 0, len(cfg.Filters)),
		stopwords:   make(map[string]struct{}, len(cfg.Stopwords)),
		minLength:   cfg.MinimumLength,
	}
	for _, name := range cfg.Filters {
		f, err := LookupFilter(name)
		if err != nil {
			return nil, err
		}
		p.filters = append(p.filters, f)
	}
	for _, w := range cfg.Stopwords {
		p.stopwords[w] = struct{}{}
	}

	stemmer, err := LookupStemmer(cfg.Stemmer)
	if err != nil {
		return nil, err
	}
	p.stemmer = stemmer

	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Process returns the normalized content for raw text: surviving tokens joined by single spaces.
func (p *Pipeline) Process(raw string) string {
	return strings.Join(p.Terms(raw), " ")
}

// Terms returns the surviving tokens after every stage.
func (p *Pipeline) Terms(raw string) []string {
	if raw == "" {
		return nil
	}
	text := raw
	for _, f := range p.filters {
		text = f(text)
	}

	tokens := Tokenize(text)
	out := tokens[:0]
	for _, tok := range tokens {
		if _, stop := p.stopwords[tok]; stop {
			continue
		}
		if p.tooShort(tok) {
			continue
		}
		// A stem shorter than the minimum would be pruned when the content
		// is processed again, so it is pruned now.
		if stemmed := p.stemmer.Stem(tok); stemmed != "" && !p.tooShort(stemmed) {
			out = append(out, stemmed)
		}
	}
	return out
}

func (p *Pipeline) tooShort(tok string) bool {
	return p.minLength > 1 && utf8.RuneCountInString(tok) < p.minLength
}

// Filters returns the configured filter names in application order.
func (p *Pipeline) Filters() []string { return p.filterNames }

// Tokenize splits text on every rune that is not a letter, number or combining mark.
func Tokenize(s string) []string {
	return strings.FieldsFunc(s, isSeparator)
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsMark(r)
}
