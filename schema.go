package textdex

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const tagKey = "textdex"

// schemaMeta holds parsed struct tag metadata, cached per TypedIndex.
type schemaMeta struct {
	typ   reflect.Type
	idIdx int

	searchable []searchField
	attrs      []fieldMapping
}

type searchField struct {
	structIdx int
	name      string
	weight    float64
}

type fieldMapping struct {
	structIdx int
	name      string
}

// parseSchema reflects on T and extracts textdex struct tag metadata.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, fmt.Errorf("textdex: type parameter must be a struct")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("textdex: type %s is not a struct", t)
	}

	meta := &schemaMeta{typ: t, idIdx: -1}
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if !f.IsExported() {
			return nil, fmt.Errorf("textdex: tagged field %s is not exported", f.Name)
		}
		if err := applyTag(meta, i, f.Name, tag); err != nil {
			return nil, err
		}
	}

	return validateSchema(meta, t)
}

// applyTag processes a single struct field's textdex tag:
// "name,id", "name,searchable[,weight=N]" or "name,attr".
func applyTag(meta *schemaMeta, idx int, fieldName, tag string) error {
	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		name = strings.ToLower(fieldName)
	}
	modifier := ""
	if len(parts) > 1 {
		modifier = parts[1]
	}

	switch modifier {
	case "id":
		if meta.idIdx != -1 {
			return fmt.Errorf("textdex: duplicate id tag on field %s", fieldName)
		}
		meta.idIdx = idx
	case "searchable":
		sf := searchField{structIdx: idx, name: name}
		for _, opt := range parts[2:] {
			w, ok := strings.CutPrefix(opt, "weight=")
			if !ok {
				return fmt.Errorf("textdex: unknown option %q on field %s", opt, fieldName)
			}
			weight, err := strconv.ParseFloat(w, 64)
			if err != nil || weight <= 0 {
				return fmt.Errorf("textdex: invalid weight %q on field %s", w, fieldName)
			}
			sf.weight = weight
		}
		meta.searchable = append(meta.searchable, sf)
	case "attr":
		meta.attrs = append(meta.attrs, fieldMapping{structIdx: idx, name: name})
	default:
		return fmt.Errorf("textdex: unknown modifier %q on field %s", modifier, fieldName)
	}
	return nil
}

func validateSchema(meta *schemaMeta, t reflect.Type) (*schemaMeta, error) {
	if meta.idIdx == -1 {
		return nil, fmt.Errorf("textdex: no field with `textdex:\"...,id\"` tag in %s", t)
	}
	if len(meta.searchable) == 0 {
		return nil, fmt.Errorf("textdex: no searchable field in %s", t)
	}
	seen := make(map[string]bool, len(meta.searchable))
	for _, f := range meta.searchable {
		if seen[f.name] {
			return nil, fmt.Errorf("textdex: duplicate searchable field %q in %s", f.name, t)
		}
		seen[f.name] = true
	}
	return meta, nil
}

// known returns the set of searchable field names.
func (m *schemaMeta) known() map[string]bool {
	out := make(map[string]bool, len(m.searchable))
	for _, f := range m.searchable {
		out[f.name] = true
	}
	return out
}

// toRecord projects a typed struct onto its searchable fields and attributes.
func (m *schemaMeta) toRecord(recordType string, item any) (Record, error) {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return Record{}, fmt.Errorf("textdex: nil %s", m.typ)
		}
		v = v.Elem()
	}

	id := fmt.Sprint(v.Field(m.idIdx).Interface())

	fields := make(map[string]Field, len(m.searchable))
	for _, sf := range m.searchable {
		fields[sf.name] = Field{
			Text:   toText(v.Field(sf.structIdx)),
			Weight: sf.weight,
		}
	}
	rec, err := NewRecord(recordType, id, fields)
	if err != nil {
		return Record{}, err
	}

	if len(m.attrs) == 0 {
		return rec, nil
	}
	attrs := make(map[string]any, len(m.attrs))
	for _, af := range m.attrs {
		attrs[af.name] = v.Field(af.structIdx).Interface()
	}
	return rec.WithAttributes(attrs), nil
}

// toText renders a field value as indexable text. String slices are joined by spaces.
func toText(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Slice:
		if v.Type().Elem().Kind() != reflect.String {
			return fmt.Sprint(v.Interface())
		}
		parts := make([]string, v.Len())
		for i := range v.Len() {
			parts[i] = v.Index(i).String()
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(v.Interface())
	}
}
