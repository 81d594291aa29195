package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the database answers but the index does not.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckSkipped indicates a check that did not run because a dependency failed.
	CheckSkipped CheckResult = "skipped"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	// Entries is the number of index entries per record type, when the index answered.
	Entries map[string]int
}

// Service coordinates health checks.
type Service struct {
	db    DBPinger
	index IndexProbe
}

// New creates a Service. index can be nil.
func New(db DBPinger, index IndexProbe) *Service {
	return &Service{db: db, index: index}
}

// Check pings the database, then probes the index.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: Healthy, Checks: make(map[string]CheckResult)}

	if err := s.db.Ping(ctx); err != nil {
		r.Checks["database"] = CheckError
		if s.index != nil {
			r.Checks["index"] = CheckSkipped
		}
		r.Status = Unhealthy
		return r
	}
	r.Checks["database"] = CheckOK

	if s.index == nil {
		return r
	}
	counts, err := s.index.CountByType(ctx)
	if err != nil {
		r.Checks["index"] = CheckError
		r.Status = Degraded
		return r
	}
	r.Checks["index"] = CheckOK
	r.Entries = counts
	return r
}
