// Package httpapi serves the item store and the planning operations over
// REST, with a server-sent event stream of store changes.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/felixgeelhaar/daybrief/pkg/application"
	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
	"github.com/felixgeelhaar/daybrief/pkg/storage"
)

// ServiceName and Version are reported by the index route.
const (
	ServiceName = "daybrief"
	Version     = "1.0.0"
)

// Server is the REST API server.
type Server struct {
	addr     string
	items    *application.ItemService
	insights *application.InsightService
	clock    planning.Clock
	events   *EventStream
	logger   *slog.Logger
	server   *http.Server
}

// NewServer creates a server bound to the given services. store feeds the
// /api/events stream.
func NewServer(addr string, items *application.ItemService, insights *application.InsightService, store *storage.InMemoryItemRepository, clock planning.Clock, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = planning.SystemClock{}
	}
	return &Server{
		addr:     addr,
		items:    items,
		insights: insights,
		clock:    clock,
		events:   NewEventStream(store),
		logger:   logger,
	}
}

// Handler returns the routed handler with CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/tasks/stats", s.handleStats)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PUT /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /api/tasks/{id}/transition", s.handleTransitionTask)

	mux.HandleFunc("POST /api/ai/priorities", s.handlePriorities)
	mux.HandleFunc("POST /api/ai/daily-plan", s.handleDailyPlan)
	mux.HandleFunc("POST /api/ai/suggest", s.handleSuggest)

	mux.Handle("GET /api/events", s.events)

	return withCORS(s.withRequestLog(mux))
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("http server starting", "addr", ln.Addr().String())
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("http server stopping")
	return s.server.Shutdown(ctx)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
