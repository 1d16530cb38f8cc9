package gateway

import (
	"log/slog"
	"net/http"

	"github.com/pmezzich/MezzAI-Backend/internal/metrics"
)

func (s *Server) handleMetricsSeed(w http.ResponseWriter, r *http.Request) {
	snap := s.metrics.Snapshot()
	if err := s.store.Set(r.Context(), metrics.SnapshotPath, snap); err != nil {
		slog.Error("seed metrics failed", "request_id", RequestIDFrom(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleMetricsPeek(w http.ResponseWriter, r *http.Request) {
	raw, ok, err := s.store.Get(r.Context(), metrics.SnapshotPath)
	if err != nil {
		slog.Error("peek metrics failed", "request_id", RequestIDFrom(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

func (s *Server) handlePie(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	if kind == "" {
		kind = metrics.DefaultPieType
	}
	writeJSON(w, http.StatusOK, s.metrics.Pie(kind))
}
