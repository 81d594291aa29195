package textproc

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/kailas-cloud/textdex/internal/domain"
)

func mustPipeline(t *testing.T, cfg Config, opts ...Option) *Pipeline {
	t.Helper()
	p, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New(%+v): %v", cfg, err)
	}
	return p
}

func TestProcess_DefaultPipelineOnlyTokenizes(t *testing.T) {
	p := mustPipeline(t, Config{})
	got := p.Process("  Shut the   fuck up, Donny!  ")
	if got != "Shut the fuck up Donny" {
		t.Errorf("Process() = %q", got)
	}
}

func TestProcess_Stopwords(t *testing.T) {
	p := mustPipeline(t, Config{Stopwords: []string{"fuck"}})
	got := p.Process("shut the fuck up donny")
	if got != "shut the up donny" {
		t.Errorf("Process() = %q, want %q", got, "shut the up donny")
	}
}

func TestProcess_StopwordsAreCaseSensitive(t *testing.T) {
	p := mustPipeline(t, Config{Stopwords: []string{"the"}})
	got := p.Process("The dude and the rug")
	if got != "The dude and rug" {
		t.Errorf("Process() = %q", got)
	}
}

func TestProcess_MinimumLength(t *testing.T) {
	p := mustPipeline(t, Config{MinimumLength: 4})
	got := p.Process("shut the fuck up donny")
	if got != "shut fuck donny" {
		t.Errorf("Process() = %q, want %q", got, "shut fuck donny")
	}
}

func TestProcess_MinimumLengthCountsRunes(t *testing.T) {
	p := mustPipeline(t, Config{MinimumLength: 3})
	// "ça" is two runes but three bytes.
	got := p.Process("ça va bien")
	if got != "bien" {
		t.Errorf("Process() = %q, want %q", got, "bien")
	}
}

func TestProcess_StopwordsBeforeMinimumLength(t *testing.T) {
	p := mustPipeline(t, Config{Stopwords: []string{"donny"}, MinimumLength: 4})
	got := p.Process("shut the fuck up donny")
	if got != "shut fuck" {
		t.Errorf("Process() = %q", got)
	}
}

func TestProcess_HTMLFilters(t *testing.T) {
	p := mustPipeline(t, Config{Filters: []string{FilterStripTags, FilterHTMLEntityDecode}})
	got := p.Process("<p>salut &ccedil;a boume ?</p>")
	if got != "salut ça boume" {
		t.Errorf("Process() = %q, want %q", got, "salut ça boume")
	}
}

func TestProcess_FrenchStemmerConflatesForms(t *testing.T) {
	p := mustPipeline(t, Config{Stemmer: "french"})
	pairs := [][2]string{
		{"chanter", "chantées"},
		{"chanté", "chanter"},
		{"sèche", "sèches"},
		{"chaussette", "chaussettes"},
	}
	for _, pair := range pairs {
		a, b := p.Process(pair[0]), p.Process(pair[1])
		if a == "" || a != b {
			t.Errorf("stem(%q) = %q, stem(%q) = %q; want equal", pair[0], a, pair[1], b)
		}
	}
}

func TestProcess_Deterministic(t *testing.T) {
	p := mustPipeline(t, Config{
		Filters:       []string{FilterStripTags, FilterHTMLEntityDecode, FilterLowercase},
		Stopwords:     []string{"the"},
		MinimumLength: 2,
		Stemmer:       "english",
	})
	raw := "<h1>The Running Dogs</h1> were running &amp; jumping"
	first := p.Process(raw)
	for range 5 {
		if again := p.Process(raw); again != first {
			t.Fatalf("Process() not deterministic: %q vs %q", first, again)
		}
	}
}

func TestProcess_MinimumLengthAppliesToStems(t *testing.T) {
	p := mustPipeline(t, Config{MinimumLength: 4, Stemmer: "english"})
	got := p.Process("runs quickly across fields")
	if got != "quick across field" {
		t.Errorf("Process() = %q, want %q", got, "quick across field")
	}
}

func TestProcess_Reapplied(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		raw  string
	}{
		{"stopwords and length", Config{Stopwords: []string{"fuck"}, MinimumLength: 4}, "shut the fuck up donny"},
		{"length and english stems", Config{MinimumLength: 4, Stemmer: "english"}, "runs quickly across fields"},
		{"english stems", Config{Stemmer: "english"}, "the running dogs were jumping"},
		{"french stems", Config{Stemmer: "french"}, "chanter chantées sèches chaussettes"},
		{"markup", Config{Filters: []string{FilterStripTags, FilterHTMLEntityDecode, FilterLowercase}}, "<p>Salut &ccedil;a BOUME ?</p>"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := mustPipeline(t, tc.cfg)
			once := p.Process(tc.raw)
			if twice := p.Process(once); twice != once {
				t.Errorf("Process(Process(%q)) = %q, want %q", tc.raw, twice, once)
			}
		})
	}
}

func TestProcess_EmptyInput(t *testing.T) {
	p := mustPipeline(t, Config{Stemmer: "english"})
	if got := p.Process(""); got != "" {
		t.Errorf("Process(\"\") = %q", got)
	}
	if got := p.Process("?! ..."); got != "" {
		t.Errorf("punctuation-only input = %q, want empty", got)
	}
}

func TestProcess_ConcurrentUse(t *testing.T) {
	p := mustPipeline(t, Config{Filters: []string{FilterLowercase, FilterRemoveAccents}, Stemmer: "french"})
	want := p.Process("Les Chaussettes Sèches")

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := p.Process("Les Chaussettes Sèches"); got != want {
				t.Errorf("concurrent Process() = %q, want %q", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestNew_UnknownFilter(t *testing.T) {
	_, err := New(Config{Filters: []string{"strip_tags", "rot13"}})
	if !errors.Is(err, domain.ErrUnknownFilter) {
		t.Fatalf("expected ErrUnknownFilter, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Error("unknown filter must be a configuration error")
	}
	if !strings.Contains(err.Error(), "rot13") {
		t.Errorf("error should name the filter: %v", err)
	}
}

func TestNew_UnknownStemmer(t *testing.T) {
	_, err := New(Config{Stemmer: "klingon"})
	if !errors.Is(err, domain.ErrUnknownStemmer) {
		t.Fatalf("expected ErrUnknownStemmer, got %v", err)
	}
}

func TestNew_NegativeMinimumLength(t *testing.T) {
	_, err := New(Config{MinimumLength: -1})
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestWithStemmer_Overrides(t *testing.T) {
	upper := StemmerFunc(strings.ToUpper)
	p := mustPipeline(t, Config{Stemmer: "english"}, WithStemmer(upper))
	if got := p.Process("dude"); got != "DUDE" {
		t.Errorf("Process() = %q, want DUDE", got)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"hello world", []string{"hello", "world"}},
		{"e-mail, don't", []string{"e", "mail", "don", "t"}},
		{"café 42 naïve", []string{"café", "42", "naïve"}},
		{"", nil},
		{"... !!!", nil},
	}
	for _, tc := range tests {
		got := Tokenize(tc.in)
		if strings.Join(got, "|") != strings.Join(tc.want, "|") {
			t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
