package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hauntedbnb/internal/api/handlers"
	"github.com/zatekoja/hauntedbnb/internal/api/middleware"
	"github.com/zatekoja/hauntedbnb/internal/api/routes"
	"github.com/zatekoja/hauntedbnb/internal/api/views"
	"github.com/zatekoja/hauntedbnb/internal/application/services"
	"github.com/zatekoja/hauntedbnb/internal/infrastructure/clients/hbnbapi"
	"github.com/zatekoja/hauntedbnb/internal/infrastructure/observability"
	"github.com/zatekoja/hauntedbnb/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize structured logging
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	log.Info().
		Str("service", cfg.OTEL.ServiceName).
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", cfg.Env).
		Str("api", cfg.API.BaseURL).
		Msg("Starting Haunted BnB web frontend")

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	// Haunted BnB REST API client
	apiClient := hbnbapi.NewClientWithTimeout(cfg.API.BaseURL, cfg.API.Timeout()).WithMetrics(metrics)

	renderer, err := views.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse page templates")
	}

	tokens := middleware.NewTokenStore(cfg.Cookie.Secure)

	// Page controllers
	placesService := services.NewPlacesService(apiClient)
	placeDetailService := services.NewPlaceDetailService(apiClient, metrics)
	reviewService := services.NewReviewService(apiClient)
	authService := services.NewAuthService(apiClient)
	adminService := services.NewAdminService(apiClient)

	router := routes.NewRouter(
		handlers.NewPlacesHandler(placesService, placeDetailService, reviewService, renderer),
		handlers.NewAuthHandler(authService, tokens, renderer),
		handlers.NewAdminHandler(adminService, renderer),
		tokens,
		metrics,
	)

	serverAddr := cfg.Server.Addr()
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("address", serverAddr).Msg("Web server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Web server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Web server stopped")
}
