package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/terra-money/alliance-estimator/internal/datafetcher"
	"github.com/terra-money/alliance-estimator/internal/estimator"
	"github.com/terra-money/alliance-estimator/internal/logger"
	"github.com/terra-money/alliance-estimator/internal/registry"
	"github.com/terra-money/alliance-estimator/internal/types"
)

var webLogger = logger.GetForComponent("web_server")

var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "alliance_estimator_http_requests_total",
	Help: "HTTP requests by route, method and status code.",
}, []string{"route", "method", "status"})

// InputSetStore persists named snapshots.
type InputSetStore interface {
	Save(ctx context.Context, name string, snap types.Snapshot) (types.InputSet, error)
	Load(ctx context.Context, id uuid.UUID) (types.InputSet, error)
	List(ctx context.Context, limit int) ([]types.InputSetSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NativeRefresher pulls native inputs from chain into the registry.
type NativeRefresher interface {
	Refresh(ctx context.Context) (datafetcher.NativeChainData, error)
}

// Config wires the server's collaborators. Store and Refresher are optional.
type Config struct {
	Port      int
	PublicURL string
	Registry  *registry.Registry
	Engine    *estimator.Engine
	Store     InputSetStore
	Refresher NativeRefresher
	// StoreHealth reports database health; nil when no database is configured.
	StoreHealth func() error
}

// WebServer serves the estimator JSON API.
type WebServer struct {
	router      *mux.Router
	port        int
	publicURL   string
	registry    *registry.Registry
	engine      *estimator.Engine
	store       InputSetStore
	refresher   NativeRefresher
	storeHealth func() error
	startedAt   time.Time

	httpServer *http.Server
}

// NewWebServer creates a new web server instance
func NewWebServer(cfg Config) *WebServer {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}

	server := &WebServer{
		router:      mux.NewRouter(),
		port:        cfg.Port,
		publicURL:   cfg.PublicURL,
		registry:    cfg.Registry,
		engine:      cfg.Engine,
		store:       cfg.Store,
		refresher:   cfg.Refresher,
		storeHealth: cfg.StoreHealth,
		startedAt:   time.Now(),
	}

	server.setupRoutes()
	server.httpServer = &http.Server{
		Addr:         ":" + strconv.Itoa(server.port),
		Handler:      server.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	// Health and metrics endpoints (direct routes)
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")
	ws.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API endpoints
	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")
	api.HandleFunc("/fields", ws.handleGetFields).Methods("GET")
	api.HandleFunc("/estimate", ws.handleGetEstimate).Methods("GET")

	api.HandleFunc("/native", ws.handleGetNative).Methods("GET")
	api.HandleFunc("/native", ws.handlePatchNative).Methods("PATCH")
	api.HandleFunc("/native/refresh", ws.handleRefreshNative).Methods("POST")

	api.HandleFunc("/alliance", ws.handleListAlliance).Methods("GET")
	api.HandleFunc("/alliance", ws.handleAddAlliance).Methods("POST")
	api.HandleFunc("/alliance/{id}", ws.handlePatchAlliance).Methods("PATCH")
	api.HandleFunc("/alliance/{id}/name", ws.handleRenameAlliance).Methods("PUT")
	api.HandleFunc("/alliance/{id}", ws.handleDeleteAlliance).Methods("DELETE")

	api.HandleFunc("/share", ws.handleGetShare).Methods("GET")
	api.HandleFunc("/import", ws.handleImport).Methods("POST")
	api.HandleFunc("/example", ws.handleLoadExample).Methods("POST")

	api.HandleFunc("/input-sets", ws.handleListInputSets).Methods("GET")
	api.HandleFunc("/input-sets", ws.handleSaveInputSet).Methods("POST")
	api.HandleFunc("/input-sets/{id}", ws.handleGetInputSet).Methods("GET")
	api.HandleFunc("/input-sets/{id}", ws.handleDeleteInputSet).Methods("DELETE")
	api.HandleFunc("/input-sets/{id}/load", ws.handleLoadInputSet).Methods("POST")

	// CORS preflight for every path
	ws.router.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Handler exposes the router, e.g. for httptest.
func (ws *WebServer) Handler() http.Handler {
	return ws.router
}

// Start starts the web server and blocks until it stops. It returns nil after Shutdown.
func (ws *WebServer) Start() error {
	webLogger.Info().Int("port", ws.port).Msg("Starting web server")

	if err := ws.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (ws *WebServer) Shutdown(ctx context.Context) error {
	webLogger.Info().Msg("Shutting down web server")
	return ws.httpServer.Shutdown(ctx)
}

// writeJSONResponse writes a JSON response
func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// corsMiddleware adds CORS headers
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests and counts them per route template
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(wrapper.statusCode)).Inc()

		webLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", duration).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
