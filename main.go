package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"activities-be/internal/config"
	"activities-be/internal/container"
	"activities-be/internal/handler"
	"activities-be/internal/middleware"
	"activities-be/pkg/logger"
)

// Resources holds all resources that need cleanup
type Resources struct {
	container *container.Container
	server    *http.Server
	log       *logger.Logger
	mu        sync.Mutex
	closed    bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	r.log.Info("Starting graceful shutdown...")

	var cleanupErr error

	// Stop accepting new requests first
	if r.server != nil {
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			cleanupErr = fmt.Errorf("HTTP server shutdown: %w", err)
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.container != nil {
		r.container.Close()
		r.log.Info("Connections closed")
	}

	if cleanupErr != nil {
		return cleanupErr
	}
	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting activities-be server")

	// Create dependency injection container
	ctx := context.Background()
	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	// Setup router
	router := setupRouter(c)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	resources := &Resources{
		container: c,
		server:    server,
		log:       log,
	}

	// Setup graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.GetConfig()
	log := c.GetLogger()
	authService := c.GetAuthService()

	r := chi.NewRouter()

	// The authoring API is origin-restricted; embed surfaces below override
	// this with their own open policy.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Create handlers
	healthHandler := handler.NewHealthHandler(c)
	authHandler := handler.NewAuthHandler(c)
	activityHandler := handler.NewActivityHandler(c)
	embedHandler := handler.NewEmbedHandler(c)
	sdkHandler := handler.NewSDKHandler(c)

	// Health check (no auth required)
	r.Get("/health", healthHandler.Check)

	// Embed script for third-party pages
	r.Get("/sdk/activities.js", sdkHandler.GetScript)

	r.Route("/api", func(r chi.Router) {
		// Embed surfaces are consumed cross-origin from arbitrary sites.
		r.Route("/embed", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type"},
				MaxAge:         86400,
			}))
			r.Get("/{slug}", embedHandler.GetActivity)
			r.Get("/{slug}/render", embedHandler.RenderDocument)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(authService, log))
				r.Get("/me", authHandler.Me)
			})
		})

		r.Route("/activities", func(r chi.Router) {
			// Reads work anonymously and widen with a token.
			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalAuth(authService, log))
				r.Get("/", activityHandler.List)
				r.Get("/{slug}", activityHandler.Get)
			})

			// Writes require authentication. Item routes address the
			// activity by its current slug.
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(authService, log))
				r.Post("/", activityHandler.Create)
				r.Put("/{slug}", activityHandler.Update)
				r.Delete("/{slug}", activityHandler.Delete)
			})
		})
	})

	// Unknown routes answer in the same envelope as everything else.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"type":"not_found","message":"route not found"}}`))
	})

	return r
}
