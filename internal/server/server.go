// Package server wires the chi router: middleware chain, route table,
// health endpoints, and the static uploads directory.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kharelpawan/uaebackend/internal/auth"
	"github.com/kharelpawan/uaebackend/internal/handler"
	"github.com/kharelpawan/uaebackend/internal/server/middleware"
	"github.com/kharelpawan/uaebackend/internal/store"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	MaxBodyBytes    int64
	UploadsDir      string

	// Per-IP rate limits. AuthMaxRequests applies only under /api/auth
	// and is deliberately tighter to slow down credential guessing.
	RateLimitWindow time.Duration
	MaxRequests     int
	AuthMaxRequests int
}

// DefaultConfig returns a Config with production defaults matching the
// deployed site: 100 requests per 15 minutes globally, 20 on auth routes,
// 10 KB JSON bodies.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            5000,
		ShutdownTimeout: 30 * time.Second,
		CORSOrigins:     []string{"http://localhost:8080"},
		MaxBodyBytes:    10 * 1024,
		UploadsDir:      "./uploads",
		RateLimitWindow: 15 * time.Minute,
		MaxRequests:     100,
		AuthMaxRequests: 20,
	}
}

// Server is the top-level HTTP server. It owns the chi router, the store,
// and the auth service.
type Server struct {
	cfg        Config
	router     chi.Router
	store      *store.Store
	authSvc    *auth.Service
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new Server, wires up all routes and middleware, and returns
// it ready to listen. Call ListenAndServe to start accepting connections.
func New(cfg Config, st *store.Store, authSvc *auth.Service, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		store:   st,
		authSvc: authSvc,
		logger:  logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(s.cfg.MaxRequests, s.cfg.RateLimitWindow))

	// --- Health checks (no auth required) ---
	r.Get("/health", s.handleHealth)
	r.Get("/health/ready", s.handleReady)

	gate := middleware.RequireAdmin(s.authSvc)

	authHandler := handler.NewAuthHandler(s.store, s.authSvc, s.logger)
	serviceHandler := handler.NewServiceHandler(s.store, s.logger)
	pageHandler := handler.NewPageHandler(s.store, s.logger)
	highlightHandler := handler.NewHighlightHandler(s.store, s.logger)
	messageHandler := handler.NewMessageHandler(s.store, s.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(maxBody(s.cfg.MaxBodyBytes))

		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimit(s.cfg.AuthMaxRequests, s.cfg.RateLimitWindow))

			r.Post("/login", authHandler.Login)
			// Setup is unauthenticated by design: it only works while no
			// admin exists, and there is nobody to hold a token yet.
			r.Post("/setup", authHandler.Setup)

			r.Group(func(r chi.Router) {
				r.Use(gate)
				r.Get("/me", authHandler.Me)
			})
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", serviceHandler.ListActive)
			r.Get("/all", serviceHandler.ListAll)
			r.Get("/{id}", serviceHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(gate)
				r.Post("/", serviceHandler.Create)
				r.Put("/{id}", serviceHandler.Update)
				r.Delete("/{id}", serviceHandler.Delete)
			})
		})

		r.Route("/pages", func(r chi.Router) {
			r.Get("/", pageHandler.List)
			r.Get("/{slug}", pageHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(gate)
				r.Put("/{slug}", pageHandler.Update)
			})
		})

		r.Route("/highlights", func(r chi.Router) {
			r.Get("/", highlightHandler.ListActive)
			r.Get("/all", highlightHandler.ListAll)

			r.Group(func(r chi.Router) {
				r.Use(gate)
				r.Post("/", highlightHandler.Create)
				r.Put("/{id}", highlightHandler.Update)
				r.Delete("/{id}", highlightHandler.Delete)
			})
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", messageHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(gate)
				r.Get("/", messageHandler.List)
				r.Get("/{id}", messageHandler.Get)
				r.Patch("/{id}/read", messageHandler.MarkRead)
				r.Delete("/{id}", messageHandler.Delete)
			})
		})
	})

	// --- Uploaded site assets ---
	if s.cfg.UploadsDir != "" {
		fileServer := http.FileServer(http.Dir(s.cfg.UploadsDir))
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))
	}

	// JSON 404 instead of chi's plain-text default.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":404,"message":"Route not found"}}`))
	})

	s.router = r
}

// maxBody caps the request body size. Oversized JSON payloads fail during
// decode with a 400 rather than tying up memory.
func maxBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// handleHealth is the liveness check. Returns 200 if the process is running.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady is the readiness check. Returns 200 when the database is
// reachable, or 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.store.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "degraded", "database": err.Error()})
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ListenAndServe starts the HTTP server and blocks until a SIGINT or SIGTERM
// is received. It then performs a graceful shutdown, draining in-flight
// requests before returning.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
