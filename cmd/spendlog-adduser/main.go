// Command spendlog-adduser provisions an account in the SQLite
// database so the API has someone to authenticate.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"spendlog/internal/auth"
	"spendlog/internal/config"
	"spendlog/internal/log"
	"spendlog/internal/storage"
	"spendlog/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{Level: slog.LevelInfo, Component: log.ComponentApp})
	log.SetDefault(logger)

	var (
		email    = flag.String("email", "", "account email (required)")
		password = flag.String("password", "", "account password (required)")
		id       = flag.String("id", "", "account id (random when omitted)")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: spendlog-adduser -email <email> -password <password> [-id <id>]")
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	userID := *id
	if userID == "" {
		userID = randomID()
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		logger.Error("Failed to hash password", log.FieldError, err)
		os.Exit(1)
	}

	err = repo.CreateUser(context.Background(), store.User{
		ID:           userID,
		Email:        *email,
		PasswordHash: hash,
	})
	if err != nil {
		logger.Error("Failed to create user", log.FieldError, err, "email", *email)
		os.Exit(1)
	}

	fmt.Printf("Created user %s (%s)\n", *email, userID)
}

func randomID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
