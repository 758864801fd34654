// Package http serves the JSON API the dashboard UI talks to.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"earnings/internal/analytics"
	"earnings/internal/backup"
	"earnings/internal/earnings"
	"earnings/internal/entities"
	"earnings/internal/export"
	"earnings/internal/goals"
	"earnings/internal/log"
	"earnings/internal/middleware/ratelimit"
	"earnings/internal/middleware/security"
	"earnings/internal/middleware/trace"
	"earnings/internal/services"
)

// Deps are the engines and services behind the routes.
type Deps struct {
	Store     *entities.Store
	Earnings  *earnings.Repository
	Analytics *analytics.Engine
	Goals     *goals.Engine
	Service   *services.EarningService
	Dashboard *services.Dashboard
	Backup    *backup.Service
	Export    *export.Service

	// RateLimit applies to writes; the zero value uses the defaults.
	RateLimit ratelimit.Config
}

type Server struct {
	http.Server
	deps     Deps
	router   *mux.Router
	limiter  *ratelimit.Limiter
	detector *security.Detector
	logger   *log.Logger

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Wrap(nil, log.ComponentHTTP)
	}
	s := &Server{
		deps:     deps,
		router:   mux.NewRouter(),
		limiter:  ratelimit.NewLimiter(deps.RateLimit),
		detector: security.NewDetector(),
		logger:   logger.WithComponent(log.ComponentHTTP),
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.router.Use(
		trace.RequestID,
		log.Middleware(s.logger, trace.FromRequest),
		security.Headers(security.DefaultHeadersConfig()),
		s.detector.Middleware,
		s.limiter.Middleware(s.detector.ClientIP, s.rateLimited,
			http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete),
	)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.router
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/earnings", s.handleListEarnings).Methods(http.MethodGet)
	api.HandleFunc("/earnings", s.handleCreateEarning).Methods(http.MethodPost)
	api.HandleFunc("/earnings/{id}", s.handleGetEarning).Methods(http.MethodGet)
	api.HandleFunc("/earnings/{id}", s.handleUpdateEarning).Methods(http.MethodPut)
	api.HandleFunc("/earnings/{id}", s.handleDeleteEarning).Methods(http.MethodDelete)

	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/analytics", s.handleAnalytics).Methods(http.MethodGet)
	api.HandleFunc("/insights", s.handleInsights).Methods(http.MethodGet)
	api.HandleFunc("/streak", s.handleStreak).Methods(http.MethodGet)
	api.HandleFunc("/progress", s.handleProgress).Methods(http.MethodGet)
	api.HandleFunc("/by-source", s.handleBySource).Methods(http.MethodGet)
	api.HandleFunc("/by-date", s.handleByDate).Methods(http.MethodGet)
	api.HandleFunc("/monthly", s.handleMonthly).Methods(http.MethodGet)
	api.HandleFunc("/overview", s.handleOverview).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/tips", s.handleTips).Methods(http.MethodGet)

	api.HandleFunc("/profile", s.handleGetProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile", s.handlePatchProfile).Methods(http.MethodPatch)
	api.HandleFunc("/settings", s.handleGetSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.handlePatchSettings).Methods(http.MethodPatch)
	api.HandleFunc("/achievements", s.handleAchievements).Methods(http.MethodGet)
	api.HandleFunc("/achievements/check", s.handleCheckAchievements).Methods(http.MethodPost)

	api.HandleFunc("/backup", s.handleExportBackup).Methods(http.MethodGet)
	api.HandleFunc("/backup", s.handleImportBackup).Methods(http.MethodPost)
	api.HandleFunc("/data", s.handleClearData).Methods(http.MethodDelete)
	api.HandleFunc("/export.xlsx", s.handleExportXLSX).Methods(http.MethodGet)
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		"client_ip", s.detector.ClientIP(r), log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
}

// Shutdown stops accepting requests and releases the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady checks that the entity store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.deps.Store.Settings(r.Context()); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Readiness check failed", log.FieldError, err)
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
