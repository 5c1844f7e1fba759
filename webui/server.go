// Package webui exposes the local HTTP surface of the rename service: the
// download event endpoint consumed by the browser extension, plus history,
// stats, connection-test, and health endpoints for the extension popup.
package webui

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"go_renamer/caption"
	"go_renamer/core"
	"go_renamer/history"
	"go_renamer/logging"
	"go_renamer/renamer"
)

// RenameHandler runs the rename pipeline for one download event.
type RenameHandler interface {
	Handle(ctx context.Context, req core.DownloadRequest, s core.Settings) renamer.Result
}

// HistoryReader serves the rename log and counters.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
	Stats(ctx context.Context) (history.Stats, error)
}

// ConnectionTester probes the remote model endpoint.
type ConnectionTester interface {
	TestConnection(ctx context.Context, s core.Settings) caption.TestResult
}

// ServerConfig configures the Server.
type ServerConfig struct {
	// Host to bind to (default: "localhost")
	Host string

	// Port to listen on (default: 8632)
	Port int

	// ReadTimeout for HTTP requests (default: 30s)
	ReadTimeout time.Duration

	// WriteTimeout for HTTP responses. Rename requests block on the remote
	// model, so this must exceed the model timeout (default: 120s).
	WriteTimeout time.Duration

	// IdleTimeout for keep-alive connections (default: 120s)
	IdleTimeout time.Duration

	// ShutdownTimeout for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "localhost",
		Port:            8632,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    120 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server wiring the pipeline behind REST endpoints.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	config     ServerConfig
}

// NewServer creates a configured Server. The settings func is called per
// request so settings changes apply without restart; apiToken, when
// non-empty, is required as a bearer token on /api/v1 routes.
func NewServer(
	config ServerConfig,
	pipeline RenameHandler,
	store HistoryReader,
	tester ConnectionTester,
	settings func() core.Settings,
	apiToken string,
	logger *logging.Logger,
) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.Named("webui")

	if pipeline == nil || store == nil || tester == nil || settings == nil {
		return nil, fmt.Errorf("webui: all handler dependencies are required")
	}

	var tokenHash []byte
	if apiToken != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(apiToken), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("webui: failed to hash API token: %w", err)
		}
		tokenHash = h
	}

	api := &apiHandlers{
		pipeline: pipeline,
		store:    store,
		tester:   tester,
		settings: settings,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", api.health)

	protected := http.NewServeMux()
	protected.HandleFunc("POST /api/v1/rename", api.rename)
	protected.HandleFunc("GET /api/v1/history", api.history)
	protected.HandleFunc("GET /api/v1/stats", api.stats)
	protected.HandleFunc("POST /api/v1/test-connection", api.testConnection)
	mux.Handle("/api/v1/", authMiddleware(tokenHash, logger, protected))

	handler := loggingMiddleware(logger, mux)

	s := &Server{
		mux:    mux,
		config: config,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}
	return s, nil
}

// Start begins listening. It blocks until the server stops and returns nil
// on graceful shutdown.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("webui: server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, waiting up to ShutdownTimeout for
// in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultServerConfig().ShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler exposes the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
