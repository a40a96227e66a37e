// Package main is the entry point for the Rater discovery API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Adetisola/Rater/internal/api"
	"github.com/Adetisola/Rater/internal/catalog"
	"github.com/Adetisola/Rater/internal/config"
	"github.com/Adetisola/Rater/internal/middleware"
	"github.com/Adetisola/Rater/internal/ranking"
	"github.com/Adetisola/Rater/internal/search"
	"github.com/Adetisola/Rater/internal/tracing"
)

const serviceName = "rater-api"

func main() {
	help := flag.Bool("help", false, "display help message")
	configPath := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	if *help {
		fmt.Println("Rater Discovery API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// Load .env if present; environment variables still win
	_ = godotenv.Load()

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	logger.Info("configuration loaded", "config", cfg.LogSummary())

	tracerProvider, err := tracing.NewProvider(tracing.Config{
		ServiceName:  serviceName,
		Enabled:      cfg.TracingEnabled,
		Environment:  cfg.Env,
		ExporterType: cfg.TracingExporterType,
		OTLPEndpoint: cfg.TracingOTLPEndpoint,
		SamplingRate: cfg.TracingSamplingRate,
		InsecureMode: cfg.TracingInsecure,
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	tuning, err := ranking.LoadCalibration(cfg.CalibrationPath)
	if err != nil {
		// Defaults are already applied; log and continue
		logger.Warn("calibration load failed, using defaults", "error", err)
	}

	repo := catalog.NewRepository()
	now := time.Now()
	if cfg.CatalogPath != "" {
		if err := catalog.LoadSeedFile(repo, cfg.CatalogPath, now); err != nil {
			logger.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
			os.Exit(1)
		}
	} else {
		if err := catalog.LoadDefaultSeed(repo, now); err != nil {
			logger.Error("failed to load embedded catalog", "error", err)
			os.Exit(1)
		}
	}
	logger.Info("catalog loaded", "version", repo.Version())

	// Metrics on a non-global registry so tests never collide
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	httpMetrics := middleware.NewMetrics()
	if err := httpMetrics.Register(registry); err != nil {
		logger.Error("failed to register http metrics", "error", err)
		os.Exit(1)
	}
	searchMetrics := search.NewMetrics()
	if err := searchMetrics.Register(registry); err != nil {
		logger.Error("failed to register search metrics", "error", err)
		os.Exit(1)
	}

	feedHandlers := api.NewFeedHandlers(repo, tuning)
	searchHandlers := api.NewSearchHandlers(repo, tuning, searchMetrics)
	healthHandlers := api.NewHealthHandlers(repo)

	rateLimitStore := middleware.NewRateLimitStore()
	searchRateLimit := middleware.RateLimitConfig{
		RequestsPerWindow: cfg.SearchRateLimit,
		WindowDuration:    time.Duration(cfg.SearchRateLimitWindow) * time.Second,
	}
	if err := searchRateLimit.Validate(); err != nil {
		logger.Error("invalid rate limit configuration", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /feed", feedHandlers.Feed)
	mux.HandleFunc("GET /badges", feedHandlers.Badges)
	mux.HandleFunc("GET /categories", feedHandlers.Categories)
	mux.HandleFunc("GET /posts/{id}", feedHandlers.PostDetail)

	rateLimited := middleware.RateLimit(rateLimitStore, searchRateLimit, httpMetrics)
	mux.Handle("GET /search", rateLimited(http.HandlerFunc(searchHandlers.Search)))
	mux.Handle("GET /search/posts", rateLimited(http.HandlerFunc(searchHandlers.SearchPosts)))

	mux.HandleFunc("GET /health", healthHandlers.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			api.WriteError(w, r, http.StatusNotFound, api.ErrCodeNotFound, "The requested resource was not found")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"service":"rater-api","version":"0.0.1"}`)); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	// Middleware chain: RequestID -> Tracing -> Logging -> CORS -> HTTPMetrics
	var handler http.Handler = mux
	handler = middleware.HTTPMetrics(httpMetrics)(handler)
	handler = middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.AllowedOriginList()})(handler)
	handler = middleware.Logging(logger)(handler)
	if cfg.TracingEnabled {
		handler = middleware.Tracing(serviceName)(handler)
	}
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Periodic rate-limit bucket cleanup
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rateLimitStore.Cleanup()
			case <-cleanupDone:
				return
			}
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	close(cleanupDone)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := tracerProvider.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown tracer provider", "error", err)
	}

	logger.Info("server stopped")
}
