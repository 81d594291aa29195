package record

import (
	"fmt"
	"sort"
)

// MaxTextSize is the maximum raw text size of a single field in bytes.
const MaxTextSize = 1 << 20

// Field is the raw text of a searchable field and its weight.
// A zero weight means "use the configured default".
type Field struct {
	Text   string
	Weight float64
}

// Record is a host record projected onto its searchable fields (immutable value object).
type Record struct {
	recordType string
	id         string
	fields     map[string]Field
	attributes map[string]any
}

// New validates and creates a Record.
func New(recordType, id string, fields map[string]Field) (Record, error) {
	if recordType == "" {
		return Record{}, fmt.Errorf("record type is required")
	}
	if id == "" {
		return Record{}, fmt.Errorf("record id is required")
	}
	for name, f := range fields {
		if name == "" {
			return Record{}, fmt.Errorf("field name is required")
		}
		if f.Weight < 0 {
			return Record{}, fmt.Errorf("field %q: weight must not be negative", name)
		}
		if len(f.Text) > MaxTextSize {
			return Record{}, fmt.Errorf("field %q: text too large (max %d bytes)", name, MaxTextSize)
		}
	}
	return Record{
		recordType: recordType,
		id:         id,
		fields:     cloneFields(fields),
	}, nil
}

// WithAttributes returns a copy of r carrying scope attributes.
func (r Record) WithAttributes(attrs map[string]any) Record {
	out := r
	out.attributes = make(map[string]any, len(attrs))
	for k, v := range attrs {
		out.attributes[k] = v
	}
	return out
}

// Type returns the record type.
func (r Record) Type() string { return r.recordType }

// ID returns the record identifier.
func (r Record) ID() string { return r.id }

// Fields returns the searchable fields.
func (r Record) Fields() map[string]Field { return r.fields }

// Attributes returns the non-searchable attributes used by scope predicates.
func (r Record) Attributes() map[string]any { return r.attributes }

// FieldNames returns field names in sorted order.
func (r Record) FieldNames() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Key identifies a record across types.
type Key struct {
	Type string
	ID   string
}

// Key returns the record's identity.
func (r Record) Key() Key { return Key{Type: r.recordType, ID: r.id} }

func (k Key) String() string { return k.Type + "/" + k.ID }

func cloneFields(m map[string]Field) map[string]Field {
	out := make(map[string]Field, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
