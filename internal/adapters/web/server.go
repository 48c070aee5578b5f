package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/avelasq/wifisentry/internal/adapters/reporting"
	"github.com/avelasq/wifisentry/internal/adapters/web/middleware"
	"github.com/avelasq/wifisentry/internal/core/ports"
	"github.com/avelasq/wifisentry/internal/core/services/monitor"
)

// Server handles HTTP and WebSocket connections.
type Server struct {
	Addr      string
	Monitor   *monitor.Monitor
	Threats   ports.ThreatStore
	Lists     ports.ListStore
	WSManager *WSManager
	Exporter  *reporting.PDFExporter

	apiKeyHash []byte
	srv        *http.Server
}

// NewServer creates a new web server. keyHash is the bcrypt hash of the API
// key; pass nil to disable authentication.
func NewServer(addr string, mon *monitor.Monitor, threats ports.ThreatStore, lists ports.ListStore, wsManager *WSManager, keyHash []byte) *Server {
	return &Server{
		Addr:       addr,
		Monitor:    mon,
		Threats:    threats,
		Lists:      lists,
		WSManager:  wsManager,
		Exporter:   reporting.NewPDFExporter(),
		apiKeyHash: keyHash,
	}
}

// Routes assembles the HTTP handler tree.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()

	auth := middleware.APIKeyMiddleware(s.apiKeyHash)
	scanLimiter := middleware.NewRateLimiter(10, 1*time.Minute)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth)

	api.Handle("/scan", middleware.RateLimitMiddleware(scanLimiter)(http.HandlerFunc(s.handleScan))).Methods(http.MethodPost)

	api.HandleFunc("/monitor/start", s.handleMonitorStart).Methods(http.MethodPost)
	api.HandleFunc("/monitor/stop", s.handleMonitorStop).Methods(http.MethodPost)
	api.HandleFunc("/monitor/status", s.handleMonitorStatus).Methods(http.MethodGet)

	api.HandleFunc("/failures", s.handleRecordFailure).Methods(http.MethodPost)

	api.HandleFunc("/threats", s.handleListThreats).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.handleThreatStats).Methods(http.MethodGet)
	api.HandleFunc("/summaries", s.handleListSummaries).Methods(http.MethodGet)

	api.HandleFunc("/lists/{kind}", s.handleListEntries).Methods(http.MethodGet)
	api.HandleFunc("/lists/{kind}", s.handleListAdd).Methods(http.MethodPost)
	api.HandleFunc("/lists/{kind}/{bssid}", s.handleListRemove).Methods(http.MethodDelete)

	api.HandleFunc("/reports/download", s.handleDownloadReport).Methods(http.MethodGet)

	r.Handle("/ws", auth(http.HandlerFunc(s.WSManager.HandleWebSocket)))
	r.Handle("/metrics", auth(promhttp.Handler()))

	return r
}

// Run starts the server and the WebSocket pump, blocking until ctx is
// cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	s.WSManager.Start(ctx)

	instrumented := otelhttp.NewHandler(s.Routes(), "wifisentry-server")

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           instrumented,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("Web server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Web server shutdown error", "error", err)
		}
	}()

	slog.Info("Web server listening", "addr", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
