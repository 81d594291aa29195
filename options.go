package textdex

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/textdex/internal/domain"
	"github.com/kailas-cloud/textdex/internal/domain/search/mode"
	"github.com/kailas-cloud/textdex/internal/textproc"
)

// PipelineConfig selects the text pipeline stages applied to indexed fields and search terms.
type PipelineConfig = textproc.Config

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "sqlite" or "redis"
	path     string
	addrs    []string
	password string

	pipeline    textproc.Config
	defaultMode mode.Mode
	weights     domain.WeightTable
	workers     int

	records  *MemoryRecords
	resolver Resolver
	filterer Filterer

	readinessTimeout time.Duration
	logger           *zap.Logger
}

// WithSQLite stores the index in a SQLite database file.
// Pass MemoryPath for a private in-memory database.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "sqlite"
		c.path = path
	})
}

// WithRedis stores the index in Redis 8+ with the Query Engine.
func WithRedis(addrs []string, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = addrs
		c.password = password
	})
}

// WithPipeline configures filters, stopwords, minimum token length and stemmer.
// Unknown filters or stemmers make New fail.
func WithPipeline(cfg PipelineConfig) Option {
	return optionFunc(func(c *clientConfig) {
		c.pipeline = cfg
	})
}

// WithDefaultMode sets the search mode used when a query does not pick one.
// Default: NaturalLanguage.
func WithDefaultMode(m Mode) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultMode = m
	})
}

// WithFields declares the searchable fields of a record type.
// Field restrictions naming other fields fail with ErrUnknownField.
func WithFields(recordType string, fields ...string) Option {
	return optionFunc(func(c *clientConfig) {
		w := make(map[string]float64, len(fields))
		for _, f := range fields {
			w[f] = 0
		}
		c.weights = c.weights.Merge(domain.WeightTable{recordType: w})
	})
}

// WithWeights declares fields and their default weights for a record type.
// Fields indexed without a weight use these.
func WithWeights(recordType string, weights map[string]float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.weights = c.weights.Merge(domain.WeightTable{recordType: weights})
	})
}

// WithWorkers sets Rebuild parallelism. Default: 4.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithRecords keeps indexed records in m so that searches can resolve and
// scope them. It sets both the resolver and the filterer.
func WithRecords(m *MemoryRecords) Option {
	return optionFunc(func(c *clientConfig) {
		c.records = m
		c.resolver = m
		c.filterer = m
	})
}

// WithResolver sets the collaborator that turns hits into records for Get.
func WithResolver(r Resolver) Option {
	return optionFunc(func(c *clientConfig) {
		c.resolver = r
	})
}

// WithFilterer sets the collaborator that applies Where predicates.
func WithFilterer(f Filterer) Option {
	return optionFunc(func(c *clientConfig) {
		c.filterer = f
	})
}

// WithReadinessTimeout bounds how long New waits for the store. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
