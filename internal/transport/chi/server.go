package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/textdex/internal/domain"
	dombatch "github.com/kailas-cloud/textdex/internal/domain/batch"
	"github.com/kailas-cloud/textdex/internal/domain/entry"
	"github.com/kailas-cloud/textdex/internal/domain/record"
	"github.com/kailas-cloud/textdex/internal/domain/search/mode"
	"github.com/kailas-cloud/textdex/internal/domain/search/request"
	"github.com/kailas-cloud/textdex/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/textdex/internal/logger"
	healthuc "github.com/kailas-cloud/textdex/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/textdex/internal/usecase/indexing"
	searchuc "github.com/kailas-cloud/textdex/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Options tunes request limits and query defaults.
type Options struct {
	DefaultMode     mode.Mode
	DefaultPageSize int
	MaxPageSize     int
	MaxBatchSize    int
}

// Server exposes indexing and search over HTTP.
type Server struct {
	indexing      *indexinguc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	indexing *indexinguc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	opts Options,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = opts.DefaultPageSize
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = 500
	}

	s := &Server{
		indexing: indexing,
		search:   search,
		health:   health,
		opts:     opts,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRecord, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrUnknownField, http.StatusBadRequest, CodeUnknownField),
		sentinelHandler(domain.ErrQuerySyntax, http.StatusBadRequest, CodeQuerySyntax),
		sentinelHandler(domain.ErrInvalidConfig, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrQueryFailed, http.StatusServiceUnavailable, CodeQueryFailed),
		sentinelHandler(domain.ErrIndexingFailed, http.StatusServiceUnavailable, CodeIndexingFailed),
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/stats", s.Stats)
	r.Get("/search", s.Search)
	r.Post("/rebuild", s.Rebuild)
	r.Put("/records/{type}/{id}", s.IndexRecord)
	r.Delete("/records/{type}/{id}", s.RemoveRecord)
	r.Get("/records/{type}/{id}/entries", s.GetEntries)
}

// IndexRecord handles PUT /records/{type}/{id}.
func (s *Server) IndexRecord(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Fields) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "At least one field is required")
		return
	}

	rec, err := recordFromRequest(chi.URLParam(r, "type"), chi.URLParam(r, "id"), req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	rec = rec.WithAttributes(req.Attributes)

	entries, err := s.indexing.Index(r.Context(), rec)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse(rec.Type(), rec.ID(), entries))
}

// RemoveRecord handles DELETE /records/{type}/{id}.
func (s *Server) RemoveRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.indexing.Remove(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetEntries handles GET /records/{type}/{id}/entries.
func (s *Server) GetEntries(w http.ResponseWriter, r *http.Request) {
	recordType, id := chi.URLParam(r, "type"), chi.URLParam(r, "id")
	entries, err := s.indexing.Entries(r.Context(), recordType, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if len(entries) == 0 {
		writeError(w, http.StatusNotFound, CodeNotFound, "record is not indexed")
		return
	}
	writeJSON(w, http.StatusOK, recordResponse(recordType, id, entries))
}

// Rebuild handles POST /rebuild. Invalid items fail individually.
func (s *Server) Rebuild(w http.ResponseWriter, r *http.Request) {
	var req RebuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "records must not be empty")
		return
	}
	if len(req.Records) > s.opts.MaxBatchSize {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("too many records (max %d)", s.opts.MaxBatchSize))
		return
	}

	results := make([]dombatch.Result, len(req.Records))
	recs := make([]record.Record, 0, len(req.Records))
	positions := make([]int, 0, len(req.Records))
	for i, item := range req.Records {
		rec, err := recordFromRequest(item.Type, item.ID, item.Fields)
		if err != nil {
			results[i] = dombatch.NewError(item.Type, item.ID, fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err))
			continue
		}
		recs = append(recs, rec)
		positions = append(positions, i)
	}

	for j, res := range s.indexing.Rebuild(r.Context(), recs) {
		results[positions[j]] = res
	}

	resp := RebuildResponse{
		Results: make([]BatchResultItem, len(results)),
		Failed:  dombatch.Failed(results),
	}
	for i, res := range results {
		resp.Results[i] = batchResultToResponse(res)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Stats handles GET /stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.indexing.CountByType(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	resp := StatsResponse{Entries: counts}
	for _, n := range counts {
		resp.Total += n
	}
	writeJSON(w, http.StatusOK, resp)
}

// searchParams are the query parameters of GET /search.
type searchParams struct {
	Q      *string
	Mode   *string
	Type   *string
	Only   []string
	Order  *string
	Limit  *int
	Offset *int
}

func bindSearchParams(r *http.Request) (searchParams, error) {
	var p searchParams
	q := r.URL.Query()
	binds := []struct {
		name    string
		explode bool
		dest    any
	}{
		{"q", true, &p.Q},
		{"mode", true, &p.Mode},
		{"type", true, &p.Type},
		{"only", false, &p.Only},
		{"order", true, &p.Order},
		{"limit", true, &p.Limit},
		{"offset", true, &p.Offset},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", b.explode, false, b.name, q, b.dest); err != nil {
			return searchParams{}, err
		}
	}
	return p, nil
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	req, err := s.searchRequest(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	hits, total, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := SearchResponse{
		Hits:   make([]HitResponse, len(hits)),
		Total:  total,
		Limit:  req.Limit(),
		Offset: req.Offset(),
		Mode:   string(req.Mode()),
	}
	for i := range hits {
		resp.Hits[i] = hitToResponse(&hits[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) searchRequest(p searchParams) (request.Request, error) {
	m, err := mode.Parse(deref(p.Mode))
	if err != nil {
		return request.Request{}, err
	}

	var orderByScore bool
	switch deref(p.Order) {
	case "", "id":
	case "score":
		orderByScore = true
	default:
		return request.Request{}, fmt.Errorf("order must be \"score\" or \"id\", got %q", deref(p.Order))
	}

	limit := s.opts.DefaultPageSize
	if p.Limit != nil {
		limit = *p.Limit
	}
	if limit <= 0 || limit > s.opts.MaxPageSize {
		return request.Request{}, fmt.Errorf("limit must be between 1 and %d", s.opts.MaxPageSize)
	}
	var offset int
	if p.Offset != nil {
		offset = *p.Offset
	}

	return request.New(request.Params{
		Term:         deref(p.Q),
		Mode:         m,
		Fields:       p.Only,
		RecordType:   deref(p.Type),
		OrderByScore: orderByScore,
		Limit:        limit,
		Offset:       offset,
	}, s.opts.DefaultMode)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Entries: report.Entries,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRecord,
		domain.ErrNotFound,
		domain.ErrUnknownField,
		domain.ErrUnknownMode,
		domain.ErrQuerySyntax,
		domain.ErrInvalidConfig,
		domain.ErrQueryFailed,
		domain.ErrIndexingFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContextOr(r.Context(), s.logger)
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func recordFromRequest(recordType, id string, fields map[string]FieldPayload) (record.Record, error) {
	out := make(map[string]record.Field, len(fields))
	for name, f := range fields {
		out[name] = record.Field{Text: f.Text, Weight: f.Weight}
	}
	return record.New(recordType, id, out)
}

func recordResponse(recordType, id string, entries []entry.Entry) RecordResponse {
	resp := RecordResponse{Type: recordType, ID: id, Entries: make([]EntryResponse, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = EntryResponse{Field: e.Field(), Content: e.Content(), Weight: e.Weight()}
	}
	return resp
}

func batchResultToResponse(r dombatch.Result) BatchResultItem {
	item := BatchResultItem{Type: r.RecordType(), ID: r.ID(), Status: string(r.Status())}
	if r.Err() != nil {
		code := CodeIndexingFailed
		if errors.Is(r.Err(), domain.ErrInvalidRecord) {
			code = CodeValidationFailed
		}
		item.Error = &ErrorResponse{Code: code, Message: r.Err().Error()}
	}
	return item
}

func hitToResponse(h *result.Hit) HitResponse {
	return HitResponse{
		Type:   h.RecordType(),
		ID:     h.ID(),
		Score:  h.Score(),
		Fields: h.Fields(),
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
