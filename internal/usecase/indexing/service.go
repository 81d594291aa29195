package indexing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/textdex/internal/domain"
	dombatch "github.com/kailas-cloud/textdex/internal/domain/batch"
	"github.com/kailas-cloud/textdex/internal/domain/entry"
	"github.com/kailas-cloud/textdex/internal/domain/record"
	"github.com/kailas-cloud/textdex/internal/metrics"
)

// DefaultWorkers is the rebuild parallelism when none is configured.
const DefaultWorkers = 4

// Service indexes and removes records and rebuilds the index in bulk.
type Service struct {
	repo    Repository
	weights domain.WeightTable
	workers int
	logger  *zap.Logger
}

// New creates an indexing service.
func New(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, workers: DefaultWorkers, logger: logger}
}

// WithWeights sets default field weights applied to fields supplied without one.
func (s *Service) WithWeights(w domain.WeightTable) *Service {
	s.weights = w
	return s
}

// WithWorkers configures rebuild parallelism.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// Index replaces every entry of the record with freshly processed content.
func (s *Service) Index(ctx context.Context, rec record.Record) ([]entry.Entry, error) {
	start := time.Now()
	entries, err := s.index(ctx, rec)
	observe("index", start, err)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Record indexed",
		zap.String("record_type", rec.Type()),
		zap.String("record_id", rec.ID()),
		zap.Int("entries", len(entries)),
	)
	return entries, nil
}

// Remove deletes every entry of the record. Removing an absent record succeeds.
func (s *Service) Remove(ctx context.Context, recordType, recordID string) error {
	start := time.Now()
	err := s.repo.Remove(ctx, recordType, recordID)
	observe("remove", start, err)
	if err != nil {
		return domain.NewIndexingError(recordType, recordID, err)
	}
	return nil
}

// Entries returns the stored entries of a record.
func (s *Service) Entries(ctx context.Context, recordType, recordID string) ([]entry.Entry, error) {
	entries, err := s.repo.Entries(ctx, recordType, recordID)
	if err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}
	return entries, nil
}

// CountByType returns the number of index entries per record type.
func (s *Service) CountByType(ctx context.Context) (map[string]int, error) {
	counts, err := s.repo.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	return counts, nil
}

// Rebuild re-indexes every record on a bounded worker pool.
// A failing record never aborts the others; results are positional.
func (s *Service) Rebuild(ctx context.Context, recs []record.Record) []dombatch.Result {
	start := time.Now()
	results := make([]dombatch.Result, len(recs))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(s.workers, len(recs)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rec := recs[i]
				if err := ctx.Err(); err != nil {
					results[i] = dombatch.NewError(rec.Type(), rec.ID(), domain.NewIndexingError(rec.Type(), rec.ID(), err))
					continue
				}
				if _, err := s.index(ctx, rec); err != nil {
					results[i] = dombatch.NewError(rec.Type(), rec.ID(), err)
					continue
				}
				results[i] = dombatch.NewOK(rec.Type(), rec.ID())
			}
		}()
	}
	for i := range recs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	failed := dombatch.Failed(results)
	metrics.RebuildRecordsTotal.WithLabelValues("ok").Add(float64(len(recs) - failed))
	metrics.RebuildRecordsTotal.WithLabelValues("error").Add(float64(failed))
	observe("rebuild", start, nil)

	logFn := s.logger.Info
	if failed > 0 {
		logFn = s.logger.Warn
	}
	logFn("Rebuild finished",
		zap.Int("records", len(recs)),
		zap.Int("failed", failed),
		zap.Int("workers", s.workers),
		zap.Duration("duration", time.Since(start)),
	)
	return results
}

func (s *Service) index(ctx context.Context, rec record.Record) ([]entry.Entry, error) {
	resolved, err := s.resolveWeights(rec)
	if err != nil {
		return nil, domain.NewIndexingError(rec.Type(), rec.ID(), err)
	}
	entries, err := s.repo.Index(ctx, resolved)
	if err != nil {
		return nil, domain.NewIndexingError(rec.Type(), rec.ID(), err)
	}
	return entries, nil
}

// resolveWeights fills fields supplied without a weight from the configured
// table, falling back to domain.DefaultFieldWeight.
func (s *Service) resolveWeights(rec record.Record) (record.Record, error) {
	fields := rec.Fields()
	missing := false
	for _, f := range fields {
		if f.Weight <= 0 {
			missing = true
			break
		}
	}
	if !missing {
		return rec, nil
	}

	resolved := make(map[string]record.Field, len(fields))
	for name, f := range fields {
		if f.Weight <= 0 {
			f.Weight = s.weights.Lookup(rec.Type(), name)
		}
		resolved[name] = f
	}
	out, err := record.New(rec.Type(), rec.ID(), resolved)
	if err != nil {
		return record.Record{}, err
	}
	return out.WithAttributes(rec.Attributes()), nil
}

func observe(op string, start time.Time, err error) {
	metrics.IndexOperationsTotal.WithLabelValues(op, metrics.Status(err)).Inc()
	metrics.IndexOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
