package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/currency-converter/internal/config"
	domain "github.com/damon-houk/currency-converter/internal/domain/service"
	"github.com/damon-houk/currency-converter/internal/infrastructure/api"
	"github.com/damon-houk/currency-converter/internal/infrastructure/format"
	"github.com/damon-houk/currency-converter/internal/infrastructure/handler"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewZapLogger(os.Stdout, level)
	defer log.Sync()
	logger.SetDefaultLogger(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Fatal("Server stopped with error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func run(ctx context.Context, cfg config.Config, log logger.Logger) error {
	log.Info("Starting currency converter", map[string]interface{}{
		"listen_addr":    cfg.ListenAddr,
		"rate_api_url":   cfg.RateAPIURL,
		"locale":         cfg.Locale,
		"rate_cache_ttl": cfg.RateCacheTTL.String(),
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           newRouter(cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": cfg.ListenAddr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		log.Info("Shutdown signal received, stopping HTTP server", nil)
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", map[string]interface{}{"error": err.Error()})
	}

	log.Info("HTTP server stopped gracefully", nil)
	return nil
}

// newRouter builds the HTTP surface. Rates are refreshed remotely only when
// cfg.RateAPIURL is set.
func newRouter(cfg config.Config, log logger.Logger) *mux.Router {
	formatter := format.NewFormatter(format.Defaults{
		Locale:                cfg.Locale,
		MinimumFractionDigits: cfg.MinimumFractionDigits,
		MaximumFractionDigits: cfg.MaximumFractionDigits,
	})

	var source domain.RateSource
	if cfg.RateAPIURL != "" {
		source = api.NewRateAPIClient(cfg.RateAPIURL,
			&http.Client{Timeout: cfg.HTTPTimeout},
			api.WithCacheTTL(cfg.RateCacheTTL),
			api.WithClientLogger(log),
		)
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.MetricsMiddleware)
	router.Use(middleware.RecoveryMiddleware(log))

	handler.NewConversionHandler(source, formatter, log).RegisterRoutes(router)
	handler.NewFormatHandler(formatter, log).RegisterRoutes(router)
	router.HandleFunc("/health", handler.HealthHandler(source != nil)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}
