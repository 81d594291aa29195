package textdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/textdex/internal/db"
	dbRedis "github.com/kailas-cloud/textdex/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/textdex/internal/db/sqlite"
	"github.com/kailas-cloud/textdex/internal/domain"
	"github.com/kailas-cloud/textdex/internal/domain/search/mode"
	entryrepo "github.com/kailas-cloud/textdex/internal/repository/entry"
	"github.com/kailas-cloud/textdex/internal/textproc"
	indexinguc "github.com/kailas-cloud/textdex/internal/usecase/indexing"
	searchuc "github.com/kailas-cloud/textdex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the textdex entry point.
type Client struct {
	store       db.Store
	pipeline    *textproc.Pipeline
	indexSvc    *indexinguc.Service
	searchSvc   *searchuc.Service
	weights     domain.WeightTable
	defaultMode mode.Mode
	records     *MemoryRecords
	resolver    Resolver
	logger      *zap.Logger
}

// New creates a Client, connects to the store and prepares its schema.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("textdex: store required (use WithSQLite or WithRedis)")
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	pipeline, err := textproc.New(cfg.pipeline)
	if err != nil {
		return nil, fmt.Errorf("textdex: build pipeline: %w", err)
	}
	if cfg.defaultMode != "" && !cfg.defaultMode.IsValid() {
		return nil, fmt.Errorf("textdex: %w: %q", ErrUnknownMode, cfg.defaultMode)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("textdex: store not ready: %w", err)
	}

	return wireClient(store, pipeline, cfg), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "sqlite":
		s, err := dbSQLite.NewStore(dbSQLite.Config{Path: cfg.path})
		if err != nil {
			return nil, fmt.Errorf("textdex: create sqlite store: %w", err)
		}
		return s, nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
			Logger:   cfg.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("textdex: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("textdex: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, pipeline *textproc.Pipeline, cfg *clientConfig) *Client {
	repo := entryrepo.New(store, pipeline)

	indexSvc := indexinguc.New(repo, cfg.logger).
		WithWeights(cfg.weights).
		WithWorkers(cfg.workers)

	c := &Client{
		store:       store,
		pipeline:    pipeline,
		indexSvc:    indexSvc,
		weights:     cfg.weights,
		defaultMode: cfg.defaultMode,
		records:     cfg.records,
		resolver:    cfg.resolver,
		logger:      cfg.logger,
	}
	c.searchSvc = c.newSearchService(cfg.filterer)
	return c
}

func (c *Client) newSearchService(f Filterer) *searchuc.Service {
	svc := searchuc.New(c.store, c.pipeline, c.logger).WithWeights(c.weights)
	if f != nil {
		svc = svc.WithFilterer(filtererAdapter{inner: f})
	}
	return svc
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Process runs raw text through the configured pipeline.
func (c *Client) Process(raw string) string {
	return c.pipeline.Process(raw)
}

// Index replaces every entry of rec. With WithRecords, rec is also kept for
// resolution and scoping.
func (c *Client) Index(ctx context.Context, rec Record) error {
	if _, err := c.indexSvc.Index(ctx, rec); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	if c.records != nil {
		c.records.Put(rec.Key(), rec, rec.Attributes())
	}
	return nil
}

// Remove deletes every entry of a record. Absent records are not an error.
func (c *Client) Remove(ctx context.Context, recordType, id string) error {
	if err := c.indexSvc.Remove(ctx, recordType, id); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	if c.records != nil {
		c.records.Delete(Key{Type: recordType, ID: id})
	}
	return nil
}

// Rebuild re-indexes recs in parallel. A failing record never stops the others.
func (c *Client) Rebuild(ctx context.Context, recs []Record) []BatchResult {
	results := c.indexSvc.Rebuild(ctx, recs)
	if c.records != nil {
		for i, r := range results {
			if r.Err() == nil {
				c.records.Put(recs[i].Key(), recs[i], recs[i].Attributes())
			}
		}
	}
	return batchFromDomain(results)
}

// Entries returns the stored entries of a record ordered by field.
func (c *Client) Entries(ctx context.Context, recordType, id string) ([]Entry, error) {
	entries, err := c.indexSvc.Entries(ctx, recordType, id)
	if err != nil {
		return nil, fmt.Errorf("entries: %w", err)
	}
	return entriesFromDomain(entries), nil
}

// CountByType returns the number of stored entries per record type.
func (c *Client) CountByType(ctx context.Context) (map[string]int, error) {
	counts, err := c.indexSvc.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	return counts, nil
}

// Search starts a query for term.
func (c *Client) Search(term string) *Builder {
	return newBuilder(c, term)
}

// filtererAdapter wraps the public Filterer to satisfy the search use case.
type filtererAdapter struct {
	inner Filterer
}

func (a filtererAdapter) Filter(ctx context.Context, keys []Key, scope Predicate) ([]Key, error) {
	out, err := a.inner.Filter(ctx, keys, scope)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	return out, nil
}
