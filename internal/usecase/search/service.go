package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/textdex/internal/db"
	"github.com/kailas-cloud/textdex/internal/domain"
	"github.com/kailas-cloud/textdex/internal/domain/search/mode"
	"github.com/kailas-cloud/textdex/internal/domain/search/query"
	"github.com/kailas-cloud/textdex/internal/domain/search/request"
	"github.com/kailas-cloud/textdex/internal/domain/search/result"
	"github.com/kailas-cloud/textdex/internal/metrics"
)

// Service turns a search request into ranked record hits.
type Service struct {
	matcher  Matcher
	proc     Processor
	filterer Filterer
	weights  domain.WeightTable
	logger   *zap.Logger
}

// New creates a search service.
func New(matcher Matcher, proc Processor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{matcher: matcher, proc: proc, logger: logger}
}

// WithFilterer enables scope predicates.
func (s *Service) WithFilterer(f Filterer) *Service {
	s.filterer = f
	return s
}

// WithWeights registers known fields per record type for field restriction checks.
func (s *Service) WithWeights(w domain.WeightTable) *Service {
	s.weights = w
	return s
}

// Search returns one page of ranked hits and the total number of hits.
// An empty term or a term that processes to nothing yields no hits.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Hit, int, error) {
	start := time.Now()
	hits, err := s.rankAll(ctx, req)
	metrics.SearchQueriesTotal.WithLabelValues(string(req.Mode()), metrics.Status(err)).Inc()
	metrics.SearchQueryDuration.WithLabelValues(string(req.Mode())).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, 0, err
	}
	metrics.SearchHits.Observe(float64(len(hits)))

	page := paginate(hits, req.Offset(), req.Limit())
	s.logger.Debug("Search completed",
		zap.String("mode", string(req.Mode())),
		zap.String("record_type", req.RecordType()),
		zap.Int("total", len(hits)),
		zap.Int("returned", len(page)),
		zap.Duration("duration", time.Since(start)),
	)
	return page, len(hits), nil
}

// Count returns the number of records the request matches, ignoring pagination.
func (s *Service) Count(ctx context.Context, req *request.Request) (int, error) {
	hits, err := s.rankAll(ctx, req)
	if err != nil {
		return 0, err
	}
	return len(hits), nil
}

func (s *Service) rankAll(ctx context.Context, req *request.Request) ([]result.Hit, error) {
	if err := s.checkFields(req); err != nil {
		return nil, err
	}

	q, err := s.buildQuery(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrQueryFailed, err)
	}
	if q.IsEmpty() {
		return nil, nil
	}

	matches, err := s.matcher.Match(ctx, &db.MatchQuery{
		Query:      q,
		RecordType: req.RecordType(),
		Fields:     req.Fields(),
	})
	if errors.Is(err, db.ErrSyntax) {
		return nil, fmt.Errorf("%w: %w: %w", domain.ErrQueryFailed, domain.ErrQuerySyntax, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: match: %w", domain.ErrQueryFailed, err)
	}

	hits := aggregate(matches)
	if !req.Scope().IsEmpty() && len(hits) > 0 {
		if s.filterer == nil {
			return nil, fmt.Errorf("%w: scope requires a record filterer", domain.ErrInvalidConfig)
		}
		allowed, err := s.filterer.Filter(ctx, keysOf(hits), req.Scope())
		if err != nil {
			return nil, fmt.Errorf("%w: scope: %w", domain.ErrQueryFailed, err)
		}
		hits = retain(hits, allowed)
	}

	rank(hits, req.OrderByScore())
	return hits, nil
}

// checkFields rejects restrictions naming a field the record type is not known
// to have. Without a type, the field must belong to some configured type.
func (s *Service) checkFields(req *request.Request) error {
	if req.RecordType() == "" {
		for _, f := range req.Fields() {
			if !s.weights.KnowsAnyType(f) {
				return fmt.Errorf("%w: %s", domain.ErrUnknownField, f)
			}
		}
		return nil
	}
	for _, f := range req.Fields() {
		if !s.weights.Knows(req.RecordType(), f) {
			return fmt.Errorf("%w: %s.%s", domain.ErrUnknownField, req.RecordType(), f)
		}
	}
	return nil
}

// buildQuery runs the term through the same pipeline as indexed content.
func (s *Service) buildQuery(req *request.Request) (query.Query, error) {
	if req.Term() == "" {
		return query.Query{}, nil
	}
	if req.Mode() != mode.Boolean {
		return query.Any(s.proc.Terms(req.Term())), nil
	}

	tokens, err := query.ParseBoolean(req.Term())
	if err != nil {
		return query.Query{}, err
	}
	q := query.Query{Clauses: make([]query.Clause, 0, len(tokens))}
	for _, tok := range tokens {
		terms := s.proc.Terms(tok.Text)
		if len(terms) == 0 {
			continue
		}
		q.Clauses = append(q.Clauses, query.Clause{
			Occur:  tok.Occur,
			Terms:  terms,
			Phrase: tok.Phrase || len(terms) > 1,
			Prefix: tok.Prefix && len(terms) == 1,
		})
	}
	return q, nil
}
