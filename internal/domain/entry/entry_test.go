package entry

import (
	"math"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	e, err := New("post", "1", "title", "hello world", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.RecordType() != "post" || e.RecordID() != "1" || e.Field() != "title" {
		t.Errorf("unexpected identity: %+v", e)
	}
	if e.Content() != "hello world" {
		t.Errorf("Content() = %q", e.Content())
	}
	if e.Weight() != 2 {
		t.Errorf("Weight() = %v, want 2", e.Weight())
	}
}

func TestNew_EmptyContentAllowed(t *testing.T) {
	if _, err := New("post", "1", "body", "", 1); err != nil {
		t.Fatalf("empty content should be stored: %v", err)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name                  string
		recordType, id, field string
		weight                float64
	}{
		{"empty type", "", "1", "title", 1},
		{"empty id", "post", "", "title", 1},
		{"empty field", "post", "1", "", 1},
		{"zero weight", "post", "1", "title", 0},
		{"negative weight", "post", "1", "title", -1},
		{"nan weight", "post", "1", "title", math.NaN()},
		{"inf weight", "post", "1", "title", math.Inf(1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.recordType, tc.id, tc.field, "x", tc.weight); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReconstruct_SkipsValidation(t *testing.T) {
	e := Reconstruct("", "", "", "raw", 0)
	if e.Content() != "raw" {
		t.Errorf("Content() = %q", e.Content())
	}
}
