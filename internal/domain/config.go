package domain

import "sort"

// DefaultFieldWeight applies to fields with no configured or supplied weight.
const DefaultFieldWeight = 1.0

// WeightTable maps record type to field name to configured weight.
// It doubles as the registry of known searchable fields per record type.
type WeightTable map[string]map[string]float64

// Lookup returns the configured weight of a field, or DefaultFieldWeight.
func (w WeightTable) Lookup(recordType, field string) float64 {
	if fields, ok := w[recordType]; ok {
		if weight, ok := fields[field]; ok && weight > 0 {
			return weight
		}
	}
	return DefaultFieldWeight
}

// Fields returns the sorted field names configured for a record type.
// Returns nil when the type has no configuration.
func (w WeightTable) Fields(recordType string) []string {
	fields, ok := w[recordType]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(fields))
	for name := range fields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Knows reports whether the field is configured for the record type.
// A type without configuration knows every field.
func (w WeightTable) Knows(recordType, field string) bool {
	fields, ok := w[recordType]
	if !ok {
		return true
	}
	_, ok = fields[field]
	return ok
}

// KnowsAnyType reports whether some configured record type has the field.
// An empty table knows every field.
func (w WeightTable) KnowsAnyType(field string) bool {
	if len(w) == 0 {
		return true
	}
	for _, fields := range w {
		if _, ok := fields[field]; ok {
			return true
		}
	}
	return false
}

// Merge returns a copy of w with other layered on top.
func (w WeightTable) Merge(other WeightTable) WeightTable {
	out := make(WeightTable, len(w)+len(other))
	for _, src := range []WeightTable{w, other} {
		for typ, fields := range src {
			dst, ok := out[typ]
			if !ok {
				dst = make(map[string]float64, len(fields))
				out[typ] = dst
			}
			for name, weight := range fields {
				dst[name] = weight
			}
		}
	}
	return out
}
