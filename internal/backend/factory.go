// Package backend assembles the storage stack selected by
// configuration.
package backend

import (
	"errors"
	"fmt"

	"spendlog/internal/amqp"
	"spendlog/internal/auth"
	"spendlog/internal/config"
	"spendlog/internal/log"
	"spendlog/internal/services"
	"spendlog/internal/storage"
	"spendlog/internal/store"
	"spendlog/internal/store/memory"
)

// Result bundles everything a backend gives the rest of the app.
type Result struct {
	Store   store.Store
	Users   store.UserReader
	Cleanup func() error
}

// Dev account seeded into the memory backend so the app is usable
// without any provisioning step.
const (
	DevUserID    = "1"
	DevUserEmail = "dev@spendlog.local"
	devPassword  = "password"
)

// Build assembles the backend named in the configuration. The SQLite
// backend gets an event publisher when an AMQP URL is configured; a
// broker that is down at startup only disables events.
func Build(cfg *config.Config, logger *log.Logger) (*Result, error) {
	switch cfg.DataBackend {
	case config.BackendSQLite:
		return buildSQLite(cfg, logger)
	case config.BackendMemory:
		return buildMemory(logger)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
}

func buildSQLite(cfg *config.Config, logger *log.Logger) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without events", log.FieldError, err)
			events = nil
		} else {
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	var publisher services.EventPublisher
	if events != nil {
		publisher = events
	}
	svc := services.NewExpenseService(repo, publisher, logger)

	cleanup := func() error {
		var errs []error
		if events != nil {
			if err := events.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close amqp client: %w", err))
			}
		}
		if err := repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close sqlite repository: %w", err))
		}
		return errors.Join(errs...)
	}

	logger.Info("Initialized SQLite backend",
		"db_path", cfg.SQLiteDBPath,
		"events_enabled", events != nil)

	return &Result{Store: svc, Users: repo, Cleanup: cleanup}, nil
}

func buildMemory(logger *log.Logger) (*Result, error) {
	mem := memory.New()

	hash, err := auth.HashPassword(devPassword)
	if err != nil {
		return nil, fmt.Errorf("seed dev user: %w", err)
	}
	mem.SeedUser(store.User{ID: DevUserID, Email: DevUserEmail, PasswordHash: hash})

	svc := services.NewExpenseService(mem, nil, logger)

	logger.Info("Initialized memory backend", "dev_user", DevUserEmail)

	return &Result{
		Store:   svc,
		Users:   mem,
		Cleanup: func() error { return nil },
	}, nil
}
