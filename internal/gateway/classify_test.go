package gateway

import (
	"net/http"
	"testing"

	"github.com/pmezzich/MezzAI-Backend/internal/classify"
	"github.com/pmezzich/MezzAI-Backend/pkg/llm"
)

func TestClassify(t *testing.T) {
	srv := newTestServer(t, llm.Absent{})

	w := do(t, srv, http.MethodPost, "/api/classify", `{"text":"Can we schedule a demo? --- Login is failing, urgent"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	got := decode[classifyResponse](t, w)
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	want := []classify.Item{
		{ID: 1, Text: "Can we schedule a demo?", Bucket: classify.BucketLead, Priority: classify.PriorityNormal},
		{ID: 2, Text: "Login is failing, urgent", Bucket: classify.BucketSupport, Priority: classify.PriorityHigh},
	}
	for i := range want {
		if got.Items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, got.Items[i], want[i])
		}
	}
}

func TestClassify_LeadsRouteAcceptsMessagesString(t *testing.T) {
	srv := newTestServer(t, llm.Absent{})

	w := do(t, srv, http.MethodPost, "/api/leads/classify", `{"messages":"pricing please---site is down"}`)
	got := decode[classifyResponse](t, w)
	if len(got.Items) != 2 || got.Items[0].Bucket != classify.BucketLead || got.Items[1].Bucket != classify.BucketSupport {
		t.Errorf("unexpected items %+v", got.Items)
	}
}

func TestClassify_NullTextFallsBackToMessages(t *testing.T) {
	srv := newTestServer(t, llm.Absent{})

	w := do(t, srv, http.MethodPost, "/api/leads/classify", `{"text":null,"messages":"pricing please"}`)
	got := decode[classifyResponse](t, w)
	if len(got.Items) != 1 || got.Items[0].Text != "pricing please" {
		t.Errorf("unexpected items %+v", got.Items)
	}
}

func TestClassify_EmptyInput(t *testing.T) {
	srv := newTestServer(t, llm.Absent{})

	for _, body := range []string{``, `{}`, `{"text":" --- "}`, `{"messages":["not","a","string"]}`, `garbage`} {
		w := do(t, srv, http.MethodPost, "/api/classify", body)
		if w.Code != http.StatusOK {
			t.Errorf("body %q: expected 200, got %d", body, w.Code)
		}
		if got := w.Body.String(); got != "{\"items\":[]}\n" {
			t.Errorf("body %q: expected empty items, got %q", body, got)
		}
	}
}
