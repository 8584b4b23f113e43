package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wayneindustries/security-core/internal/auth"
)

// healthTimeout bounds the dependency checks behind GET /api/health.
const healthTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "Rota não encontrada.")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		// The live feed authenticates from the query string.
		r.Get("/ws", s.handleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(s.require(auth.LevelAuthenticated))

			r.Get("/me", s.handleMe)

			r.Route("/recursos", func(r chi.Router) {
				r.Get("/", s.handleListResources)
				r.Post("/", s.handleCreateResource)
				r.Get("/{id}", s.handleGetResource)
				r.Put("/{id}", s.handleUpdateResource)
				r.Delete("/{id}", s.handleDeleteResource)
			})

			r.Get("/logs", s.handleListLogs)
			r.Get("/areas", s.handleListAreas)
			r.Get("/dashboard/stats", s.handleDashboardStats)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.require(auth.LevelManager))

			r.Get("/usuarios", s.handleListUsers)
			r.Put("/areas/{id}", s.handleUpdateArea)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.require(auth.LevelAdmin))

			r.Post("/usuarios", s.handleCreateUser)
			r.Put("/usuarios/{id}", s.handleUpdateUser)
			r.Delete("/usuarios/{id}", s.handleDeleteUser)
		})
	})

	return r
}

// handleHealth reports the server version and the state of each checked
// dependency. Any failing dependency turns the response into 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	checks := make(map[string]string, len(s.health))
	for name, hc := range s.health {
		if err := hc.HealthCheck(ctx); err != nil {
			checks[name] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"version":   s.version,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
