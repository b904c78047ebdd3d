package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"spendlog/internal/auth"
	"spendlog/internal/backend"
	"spendlog/internal/cache"
	"spendlog/internal/config"
	apphttp "spendlog/internal/http"
	"spendlog/internal/log"
)

func main() {
	// Local development convenience; absent .env files are fine.
	_ = godotenv.Load()

	logger := log.New(log.Config{Level: slog.LevelInfo, Component: log.ComponentApp})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	result, err := backend.Build(cfg, logger)
	if err != nil {
		logger.Error("Failed to build backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	sessions := auth.NewSessions(cfg.SessionTTL)
	authn := auth.NewAuthenticator(result.Users, sessions, logger)

	caches := cache.NewManager()
	caches.Register(sessions)
	caches.StartCleanup(5 * time.Minute)
	defer caches.Stop()

	srv := apphttp.NewServer(apphttp.Options{
		Addr:             ":" + cfg.Port,
		AllowedOrigins:   cfg.AllowedOrigins,
		SimulatedLatency: cfg.SimulatedLatency,
	}, result.Store, authn, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting spendlog server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"simulated_latency", cfg.SimulatedLatency.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
