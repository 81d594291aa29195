package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockIndexProbe struct {
	counts map[string]int
	err    error
	called bool
}

func (m *mockIndexProbe) CountByType(_ context.Context) (map[string]int, error) {
	m.called = true
	return m.counts, m.err
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockIndexProbe{counts: map[string]int{"post": 3}})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK || r.Checks["index"] != CheckOK {
		t.Errorf("checks = %v", r.Checks)
	}
	if r.Entries["post"] != 3 {
		t.Errorf("entries = %v", r.Entries)
	}
}

func TestCheck_DBError(t *testing.T) {
	probe := &mockIndexProbe{}
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, probe)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
	if r.Checks["index"] != CheckSkipped {
		t.Errorf("expected index %q, got %q", CheckSkipped, r.Checks["index"])
	}
	if probe.called {
		t.Error("index must not be probed when the database is down")
	}
}

func TestCheck_IndexError(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockIndexProbe{err: errors.New("unknown index name")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Checks["index"] != CheckError {
		t.Errorf("expected index %q, got %q", CheckError, r.Checks["index"])
	}
}

func TestCheck_NoIndexProbe(t *testing.T) {
	svc := New(&mockDBPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["index"]; ok {
		t.Error("index check should be absent when probe is nil")
	}
}
