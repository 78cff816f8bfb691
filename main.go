// ABOUTME: Entry point for the SkyFlow sector congestion backend service
// ABOUTME: Provides HTTP API for hotspot detection, reroute planning, and map data

package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/skyflow/skyflow-backend/cache"
	"github.com/skyflow/skyflow-backend/config"
	"github.com/skyflow/skyflow-backend/handlers"
	"github.com/skyflow/skyflow-backend/logger"
	"github.com/skyflow/skyflow-backend/middleware"
	"github.com/skyflow/skyflow-backend/services"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting SkyFlow Sector Congestion Backend")
	slog.Info("Flight data configured", "path", cfg.FlightDataPath)
	if len(cfg.StormAirports) > 0 {
		slog.Info("Storm-impacted airports configured", "airports", cfg.StormAirports)
	}
	if cfg.NarratorConfigured() {
		slog.Info("Narrative service configured", "model", cfg.AnthropicModel)
	} else {
		slog.Info("Narrative service not configured, using template explanations")
	}

	// Initialize cache
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	c := cache.New(cacheTTL)
	slog.Info("Cache initialized", "ttl", cacheTTL)

	// Flight dataset loads lazily on first request
	dataset := services.NewDataset(cfg.FlightDataPath, cfg.StormAirports)
	narrator := services.NewNarrator(cfg.AnthropicAPIKey, cfg.AnthropicModel)

	// Initialize handlers
	h := handlers.NewHandler(cfg, c, dataset, narrator)

	var writeLimiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		writeLimiter = middleware.NewRateLimiter(cfg.RateLimitWrite, time.Minute)
	}

	// Register routes with logging, CORS, and (for writes) rate limiting
	mux := http.NewServeMux()
	cors := middleware.CORS(cfg.CORSAllowedOrigins)
	for _, route := range h.Routes() {
		mws := []func(http.HandlerFunc) http.HandlerFunc{middleware.LogRequest, cors}
		if route.Write {
			mws = append(mws, middleware.RateLimit(writeLimiter))
		}
		mux.HandleFunc(route.Path, middleware.Chain(route.Handler, mws...))
	}

	// Start server
	addr := ":" + cfg.Port
	slog.Info("Server listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
