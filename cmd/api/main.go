package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"repair-tracker/internal/core/cache"
	"repair-tracker/internal/core/config"
	"repair-tracker/internal/core/logger"
	"repair-tracker/internal/core/server"
	bookingadapter "repair-tracker/internal/features/booking/adapters"
	bookinghandler "repair-tracker/internal/features/booking/handler"
	trackinghandler "repair-tracker/internal/features/tracking/handler"
	trackingservice "repair-tracker/internal/features/tracking/service"

	"go.uber.org/zap"
)

// @title Repair Tracker API
// @version 1.0
// @description Live mechanic position simulation, ETA and booking progress for repair bookings.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Initialize Booking Backend and run Health Check
	backend := bookingadapter.NewBackendAdapter(bookingadapter.BackendConfig{
		URL:     cfg.Backend.URL,
		APIKey:  cfg.Backend.APIKey,
		Timeout: time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
	})
	checkCtx, cancelCheck := context.WithTimeout(context.Background(), 5*time.Second)
	if err := backend.HealthCheck(checkCtx); err != nil {
		l.Warn("Booking backend health check failed", zap.Error(err))
	} else {
		l.Info("Booking backend connection verified")
	}
	cancelCheck()

	// Initialize Redis booking cache
	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL, "repair-tracker")
	if err != nil {
		l.Fatal("Failed to configure Redis", zap.Error(err))
	}
	defer redisCache.Close()

	bookings := bookingadapter.NewCachedBookingProvider(
		backend,
		redisCache,
		time.Duration(cfg.Redis.BookingTTLSeconds)*time.Second,
	)

	// Initialize Tracking Service & Handlers
	trackingSvc, err := trackingservice.NewTrackingService(bookings, trackingservice.Options{
		Defaults:    trackingservice.DefaultsFromConfig(cfg.Simulation),
		Invalidator: bookings,
	})
	if err != nil {
		l.Fatal("Invalid simulation settings", zap.Error(err))
	}
	trackingHdl := trackinghandler.NewTrackingHandler(trackingSvc)
	bookingHdl := bookinghandler.NewBookingHandler(bookings, trackingSvc)

	// New sessions pick up edited simulation settings; running ones keep theirs.
	if _, err := config.Watch(".", func(next *config.AppConfig) {
		if err := trackingSvc.UpdateDefaults(trackingservice.DefaultsFromConfig(next.Simulation)); err != nil {
			l.Warn("Ignoring reloaded simulation settings", zap.Error(err))
		}
	}, func(err error) {
		l.Warn("Config reload failed", zap.Error(err))
	}); err != nil {
		l.Warn("Config watch disabled", zap.Error(err))
	}

	srv := server.New(cfg)
	srv.RegisterHealth(map[string]server.HealthCheck{
		"redis":   redisCache.Ping,
		"backend": backend.HealthCheck,
	})

	// Register Routes
	srv.App.Post("/tracking/sessions", trackingHdl.OpenSession)
	srv.App.Get("/tracking/sessions/:id", trackingHdl.GetSession)
	srv.App.Delete("/tracking/sessions/:id", trackingHdl.CloseSession)
	srv.App.Get("/bookings/:id/timeline", bookingHdl.GetTimeline)
	srv.App.Post("/bookings/:id/status", bookingHdl.UpdateStatus)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		trackingSvc.Shutdown()
		l.Fatal("Server failed to start", zap.Error(err))
	case <-ctx.Done():
	}

	l.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("Server shutdown failed", zap.Error(err))
	}
	trackingSvc.Shutdown()
}
