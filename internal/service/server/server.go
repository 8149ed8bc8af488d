package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gridfall/desktop-organizer/internal/engine"
	"github.com/gridfall/desktop-organizer/internal/port"
	"github.com/gridfall/desktop-organizer/internal/snapshot"
	"go.uber.org/zap"
)

// Config contains HTTP server configuration
type Config struct {
	BindAddr     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// CorrectionLimit bounds how many recent corrections accompany a
	// rule-generation request.
	CorrectionLimit int
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		BindAddr:        "127.0.0.1:8745",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     60 * time.Second,
		CorrectionLimit: defaultCorrectionLimit,
	}
}

// Server exposes the organizer's status and control API.
type Server struct {
	config *Config
	store  port.Store
	logger *zap.Logger
	server *http.Server
	api    *APIHandler
}

// New creates a new HTTP server. generator may be nil when no rule service is
// configured; the generate endpoint then answers 501.
func New(cfg *Config, eng *engine.Engine, taker *snapshot.Taker, generator RuleGenerator, store port.Store, logger *zap.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		config: cfg,
		store:  store,
		logger: logger,
	}
	s.api = NewAPIHandler(eng, taker, generator, store, cfg.CorrectionLimit, logger)

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/stats", s.api.HandleStats).Methods(http.MethodGet)
	api.HandleFunc("/rules", s.api.HandleGetRules).Methods(http.MethodGet)
	api.HandleFunc("/rules", s.api.HandleLoadRules).Methods(http.MethodPost)
	api.HandleFunc("/rules/generate", s.api.HandleGenerateRules).Methods(http.MethodPost)
	api.HandleFunc("/organize", s.api.HandleOrganize).Methods(http.MethodPost)
	api.HandleFunc("/snapshot", s.api.HandleSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/corrections", s.api.HandleRecordCorrection).Methods(http.MethodPost)

	r.Use(LoggingMiddleware(logger))

	s.server = &http.Server{
		Addr:         cfg.BindAddr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		http.Error(w, "Database connection failed", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"healthy","time":"` + time.Now().Format(time.RFC3339) + `"}`))
}
