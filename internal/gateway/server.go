// Package gateway is the HTTP dispatcher of the MezzAI backend. It routes
// requests to the chat, email, classification and metrics operations and
// degrades to local behavior when the completion provider is absent.
package gateway

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/pmezzich/MezzAI-Backend/internal/metrics"
	"github.com/pmezzich/MezzAI-Backend/internal/store"
	"github.com/pmezzich/MezzAI-Backend/pkg/llm"
)

// ServiceName is reported by the root route.
const ServiceName = "mezzai-backend"

// Options configures a Server.
type Options struct {
	// CORSOrigins lists allowed origins. Empty reflects any origin.
	CORSOrigins []string
	// Metrics generates snapshots and pies. Defaults to a clock-seeded generator.
	Metrics *metrics.Generator
}

// Server is the gateway's http.Handler.
type Server struct {
	provider llm.Provider
	store    store.KeyValueStore
	metrics  *metrics.Generator
	router   *mux.Router
	handler  http.Handler
}

// NewServer wires the routes around the given provider and store. Both are
// required; pass llm.Absent{} when no provider is configured.
func NewServer(provider llm.Provider, kv store.KeyValueStore, opts Options) *Server {
	s := &Server{
		provider: provider,
		store:    kv,
		metrics:  opts.Metrics,
		router:   mux.NewRouter(),
	}
	if s.metrics == nil {
		s.metrics = metrics.NewGenerator()
	}

	s.routes()
	s.handler = newCORS(opts.CORSOrigins).Handler(withRequestLogging(s.router))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	for _, p := range []string{"/api/health", "/health", "/.well-known/health"} {
		r.HandleFunc(p, s.handleHealth).Methods(http.MethodGet)
	}

	r.HandleFunc("/api/chat", s.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/api/stream-gpt", s.handleStream).Methods(http.MethodPost)
	r.HandleFunc("/api/email-draft", s.handleEmailDraft).Methods(http.MethodPost)
	r.HandleFunc("/api/email/draft", s.handleEmailDraftHTML).Methods(http.MethodPost)
	r.HandleFunc("/api/classify", s.handleClassify).Methods(http.MethodPost)
	r.HandleFunc("/api/leads/classify", s.handleClassify).Methods(http.MethodPost)

	r.HandleFunc("/api/metrics/seed", s.handleMetricsSeed).Methods(http.MethodPost)
	r.HandleFunc("/api/metrics/peek", s.handleMetricsPeek).Methods(http.MethodGet)
	for _, p := range []string{"/api/metrics/pie", "/api/pie", "/pie"} {
		r.HandleFunc(p, s.handlePie).Methods(http.MethodGet)
	}

	for from, to := range legacyAliases {
		r.Handle(from, redirectTo(to)).Methods(http.MethodPost)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// legacyAliases maps old client paths to their canonical routes.
var legacyAliases = map[string]string{
	"/chat":        "/api/chat",
	"/v1/chat":     "/api/chat",
	"/email-draft": "/api/email-draft",
	"/v1/email":    "/api/email-draft",
	"/classify":    "/api/classify",
	"/v1/classify": "/api/classify",
}

// redirectTo answers with 307 so clients repeat the same method and body.
func redirectTo(target string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	})
}

func newCORS(origins []string) *cors.Cors {
	opts := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	if len(origins) > 0 {
		opts.AllowedOrigins = origins
	} else {
		opts.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(opts)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": ServiceName})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "OK"})
}
