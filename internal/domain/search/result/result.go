package result

// Hit is one ranked record: its identity and aggregated score.
type Hit struct {
	recordType string
	id         string
	score      float64
	fields     map[string]float64
}

// New creates a search hit. fields holds the per-field weighted contributions.
func New(recordType, id string, score float64, fields map[string]float64) Hit {
	return Hit{recordType: recordType, id: id, score: score, fields: fields}
}

// RecordType returns the record type.
func (h *Hit) RecordType() string { return h.recordType }

// ID returns the record identifier.
func (h *Hit) ID() string { return h.id }

// Score returns the weighted relevance sum.
func (h *Hit) Score() float64 { return h.score }

// Fields returns the weighted relevance per matched field.
func (h *Hit) Fields() map[string]float64 { return h.fields }
