package gateway

import (
	"net/http"
	"testing"

	"github.com/pmezzich/MezzAI-Backend/internal/metrics"
	"github.com/pmezzich/MezzAI-Backend/internal/store"
	"github.com/pmezzich/MezzAI-Backend/pkg/llm"
)

func TestMetrics_PeekBeforeSeed(t *testing.T) {
	srv := newTestServer(t, llm.Absent{})

	w := do(t, srv, http.MethodGet, "/api/metrics/peek", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != "{}\n" {
		t.Errorf("expected empty object, got %q", got)
	}
}

func TestMetrics_SeedThenPeek(t *testing.T) {
	srv := newTestServer(t, llm.Absent{})

	w := do(t, srv, http.MethodPost, "/api/metrics/seed", "")
	if w.Code != http.StatusOK {
		t.Fatalf("seed: expected 200, got %d", w.Code)
	}
	seeded := decode[metrics.Snapshot](t, w)

	if seeded.OpensToday < 40 || seeded.OpensToday >= 280 {
		t.Errorf("opensToday out of range: %d", seeded.OpensToday)
	}
	if seeded.LeadsThisWeek < 5 || seeded.LeadsThisWeek >= 40 {
		t.Errorf("leadsThisWeek out of range: %d", seeded.LeadsThisWeek)
	}
	if seeded.Proposals < 1 || seeded.Proposals >= 17 {
		t.Errorf("proposals out of range: %d", seeded.Proposals)
	}
	if seeded.At != 1700000000000 {
		t.Errorf("expected at from the injected clock, got %d", seeded.At)
	}

	w = do(t, srv, http.MethodGet, "/api/metrics/peek", "")
	if peeked := decode[metrics.Snapshot](t, w); peeked != seeded {
		t.Errorf("peek %+v does not match seed %+v", peeked, seeded)
	}
}

func TestMetrics_StoreErrors(t *testing.T) {
	srv := NewServer(llm.Absent{}, failingStore{}, Options{Metrics: testGenerator()})

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/metrics/seed"},
		{http.MethodGet, "/api/metrics/peek"},
	} {
		w := do(t, srv, tc.method, tc.path, "")
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s: expected 500, got %d", tc.path, w.Code)
		}
		if got := decode[map[string]string](t, w); got["error"] != "database unreachable" {
			t.Errorf("%s: unexpected error body %v", tc.path, got)
		}
	}
}

func TestPie(t *testing.T) {
	srv := newTestServer(t, llm.Absent{})

	tests := []struct {
		path   string
		labels []string
	}{
		{"/api/metrics/pie", []string{"Inbound", "Outbound", "Referral", "Partner", "Events"}},
		{"/api/pie?type=tickets", []string{"Bug", "How-to", "Feature", "Billing", "Other"}},
		{"/pie?type=outcomes", []string{"Resolved", "Escalated", "Pending", "Closed-No-Action"}},
		{"/pie?type=weather", []string{"A", "B", "C", "D"}},
	}

	for _, tt := range tests {
		w := do(t, srv, http.MethodGet, tt.path, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", tt.path, w.Code)
			continue
		}
		pie := decode[metrics.Pie](t, w)
		if len(pie.Labels) != len(tt.labels) || len(pie.Values) != len(pie.Labels) {
			t.Errorf("%s: unexpected shape %+v", tt.path, pie)
			continue
		}
		sum := 0
		for i, v := range pie.Values {
			if pie.Labels[i] != tt.labels[i] {
				t.Errorf("%s: label %d = %q, want %q", tt.path, i, pie.Labels[i], tt.labels[i])
			}
			if v < 10 || v >= 100 {
				t.Errorf("%s: value %d out of range", tt.path, v)
			}
			sum += v
		}
		if pie.Total != sum {
			t.Errorf("%s: total %d != sum %d", tt.path, pie.Total, sum)
		}
	}
}

func TestNewServer_DefaultGenerator(t *testing.T) {
	srv := NewServer(llm.Absent{}, store.NewMemoryStore(), Options{})
	w := do(t, srv, http.MethodGet, "/pie", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with default generator, got %d", w.Code)
	}
}
