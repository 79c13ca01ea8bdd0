package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/DukeRupert/kuidash/internal"
	"github.com/DukeRupert/kuidash/internal/handler"
	"github.com/DukeRupert/kuidash/internal/metrics"
	"github.com/DukeRupert/kuidash/internal/middleware"
	"github.com/DukeRupert/kuidash/internal/progress"
	"github.com/DukeRupert/kuidash/internal/router"
	"github.com/DukeRupert/kuidash/internal/routes"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// ==========================================================================
	// Navigation: route table, guards and hooks
	// ==========================================================================

	indicator := progress.New(progress.Options{
		Minimum:      progress.DefaultMinimum,
		Speed:        cfg.ProgressSpeed,
		Trickle:      cfg.ProgressTrickle,
		TrickleSpeed: cfg.ProgressTrickleSpeed,
	})

	nav, err := routes.Setup(routes.Default(), routes.Options{
		Indicator:         indicator,
		SidebarBreakpoint: cfg.SidebarBreakpoint,
		Logger:            logger,
	})
	if err != nil {
		return fmt.Errorf("router initialization failed: %w", err)
	}
	history := router.NewWebHistory(cfg.BasePath)
	logger.Info("Routes ready", "base", history.Base())

	isSecure := cfg.IsSecure()

	// Initialize middleware
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	navMw := middleware.NewNavigationMiddleware(nav, history, logger, middleware.NavigationConfig{
		IsSecure:           isSecure,
		SidebarDefaultOpen: cfg.SidebarDefaultOpen,
	})

	// 10 sign-in attempts per IP per 15 minutes
	authLimiter := middleware.NewRateLimiter(10, 15*time.Minute)
	stopPrune := make(chan struct{})
	defer close(stopPrune)
	go authLimiter.Run(stopPrune)

	// Initialize handlers
	pages := handler.NewPageHandler(nav, history, logger, handler.Config{
		IsSecure:           isSecure,
		SidebarDefaultOpen: cfg.SidebarDefaultOpen,
	})

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(securityMw.Handler)
	r.Use(loggingMw.Handler)
	r.Use(metrics.Middleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics (protected by basic auth if configured)
	r.With(metricsAuthMw.Handler).Handle("/metrics", promhttp.Handler())

	base := strings.TrimSuffix(history.Base(), "/")
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Limit(logger))
		r.Post(base+"/login", pages.Login)
		r.Post(base+"/register", pages.Register)
	})
	r.Post(base+"/logout", pages.Logout)
	r.Post(base+"/sidebar/toggle", pages.ToggleSidebar)

	// Every other GET is a navigation
	r.With(navMw.Handler).Get("/*", pages.ShowPage)
	r.With(navMw.Handler).Head("/*", pages.ShowPage)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-sigChan:
	}
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
