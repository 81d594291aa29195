package chi

// ErrorCode is a machine-readable error identifier returned in error bodies.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeNotFound         ErrorCode = "not_found"
	CodeUnknownField     ErrorCode = "unknown_field"
	CodeQuerySyntax      ErrorCode = "query_syntax"
	CodeQueryFailed      ErrorCode = "query_failed"
	CodeIndexingFailed   ErrorCode = "indexing_failed"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// FieldPayload is one searchable field of an indexed record.
type FieldPayload struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight,omitempty"`
}

// RecordRequest is the body of PUT /records/{type}/{id}.
type RecordRequest struct {
	Fields     map[string]FieldPayload `json:"fields"`
	Attributes map[string]any          `json:"attributes,omitempty"`
}

// RebuildItem is one record of POST /rebuild.
type RebuildItem struct {
	Type   string                  `json:"type"`
	ID     string                  `json:"id"`
	Fields map[string]FieldPayload `json:"fields"`
}

// RebuildRequest is the body of POST /rebuild.
type RebuildRequest struct {
	Records []RebuildItem `json:"records"`
}

// EntryResponse is one stored index entry.
type EntryResponse struct {
	Field   string  `json:"field"`
	Content string  `json:"content"`
	Weight  float64 `json:"weight"`
}

// RecordResponse describes the stored entries of a record.
type RecordResponse struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Entries []EntryResponse `json:"entries"`
}

// BatchResultItem is the outcome of one rebuilt record.
type BatchResultItem struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// RebuildResponse lists per-record outcomes in request order.
type RebuildResponse struct {
	Results []BatchResultItem `json:"results"`
	Failed  int               `json:"failed"`
}

// HitResponse is one ranked record.
type HitResponse struct {
	Type   string             `json:"type"`
	ID     string             `json:"id"`
	Score  float64            `json:"score"`
	Fields map[string]float64 `json:"fields,omitempty"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Hits   []HitResponse `json:"hits"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
	Mode   string        `json:"mode"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Entries map[string]int `json:"entries"`
	Total   int            `json:"total"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Entries map[string]int    `json:"entries,omitempty"`
}
