package entry

import (
	"fmt"
	"math"
)

// Entry is one indexed (record type, record id, field) row holding processed text.
type Entry struct {
	recordType string
	recordID   string
	field      string
	content    string
	weight     float64
}

// New validates and creates an Entry. Content must already be pipeline output.
func New(recordType, recordID, field, content string, weight float64) (Entry, error) {
	if recordType == "" {
		return Entry{}, fmt.Errorf("record type is required")
	}
	if recordID == "" {
		return Entry{}, fmt.Errorf("record id is required")
	}
	if field == "" {
		return Entry{}, fmt.Errorf("field is required")
	}
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return Entry{}, fmt.Errorf("field %q: weight must be a positive finite number", field)
	}
	return Entry{
		recordType: recordType,
		recordID:   recordID,
		field:      field,
		content:    content,
		weight:     weight,
	}, nil
}

// Reconstruct creates an Entry without validation (storage hydration).
func Reconstruct(recordType, recordID, field, content string, weight float64) Entry {
	return Entry{
		recordType: recordType,
		recordID:   recordID,
		field:      field,
		content:    content,
		weight:     weight,
	}
}

// RecordType returns the owning record's type.
func (e Entry) RecordType() string { return e.recordType }

// RecordID returns the owning record's identifier.
func (e Entry) RecordID() string { return e.recordID }

// Field returns the field name.
func (e Entry) Field() string { return e.field }

// Content returns the processed text.
func (e Entry) Content() string { return e.content }

// Weight returns the field weight fixed at index time.
func (e Entry) Weight() float64 { return e.weight }
