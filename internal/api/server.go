package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wayneindustries/security-core/internal/accesslog"
	"github.com/wayneindustries/security-core/internal/area"
	"github.com/wayneindustries/security-core/internal/auth"
	"github.com/wayneindustries/security-core/internal/dashboard"
	"github.com/wayneindustries/security-core/internal/infrastructure/config"
	"github.com/wayneindustries/security-core/internal/infrastructure/logging"
	"github.com/wayneindustries/security-core/internal/resource"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HealthChecker is implemented by infrastructure the health endpoint checks.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config        config.APIConfig
	WS            config.WebSocketConfig
	Logger        *logging.Logger
	Guard         *auth.Guard
	Authenticator *auth.Authenticator
	Users         *auth.UserService
	Resources     *resource.Service
	Areas         *area.Service
	AccessLog     *accesslog.Repository
	Dashboard     *dashboard.Service
	Hub           *Hub                     // optional; created when nil
	Health        map[string]HealthChecker // checked by GET /api/health
	Version       string
}

// Server is the HTTP API server.
//
// It owns the HTTP listener, routes, middleware and the live feed hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	wsCfg     config.WebSocketConfig
	logger    *logging.Logger
	guard     *auth.Guard
	authn     *auth.Authenticator
	users     *auth.UserService
	resources *resource.Service
	areas     *area.Service
	accessLog *accesslog.Repository
	dashboard *dashboard.Service
	health    map[string]HealthChecker
	metrics   *Metrics
	version   string
	hub       *Hub
	ownHub    bool
	router    http.Handler
	server    *http.Server
	cancel    context.CancelFunc
}

// New creates a new API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	switch {
	case deps.Logger == nil:
		return nil, fmt.Errorf("logger is required")
	case deps.Guard == nil:
		return nil, fmt.Errorf("guard is required")
	case deps.Authenticator == nil:
		return nil, fmt.Errorf("authenticator is required")
	case deps.Users == nil, deps.Resources == nil, deps.Areas == nil:
		return nil, fmt.Errorf("user, resource and area services are required")
	case deps.AccessLog == nil:
		return nil, fmt.Errorf("access log is required")
	case deps.Dashboard == nil:
		return nil, fmt.Errorf("dashboard is required")
	}

	s := &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		logger:    deps.Logger.Component("api"),
		guard:     deps.Guard,
		authn:     deps.Authenticator,
		users:     deps.Users,
		resources: deps.Resources,
		areas:     deps.Areas,
		accessLog: deps.AccessLog,
		dashboard: deps.Dashboard,
		health:    deps.Health,
		version:   deps.Version,
		hub:       deps.Hub,
	}
	if s.hub == nil {
		s.hub = NewHub(deps.WS, deps.Logger)
		s.ownHub = true
	}
	s.metrics = NewMetrics(s.hub.ClientCount)
	s.router = s.buildRouter()
	return s, nil
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the live feed hub so it can be registered as an access-log sink.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.ownHub {
		go s.hub.Run(srvCtx)
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server, waiting up to 10 seconds
// for in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
