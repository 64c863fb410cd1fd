// Command seed loads sample books, the demo reader and reading records into a
// development database.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/5w1tchy/library-api/internal/config"
	"github.com/5w1tchy/library-api/internal/logger"
	"github.com/5w1tchy/library-api/internal/repository/sqlconnect"
	"github.com/5w1tchy/library-api/internal/security/password"
	"github.com/5w1tchy/library-api/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.LogLevel)
	if !cfg.IsDevelopment() {
		log.Error(seed.ErrNotDevelopment.Error())
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := sqlconnect.ConnectDB(ctx, cfg.Database)
	if err != nil {
		log.Error("database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if _, err := seed.New(db, password.NewHasher(cfg.Argon2)).Dev(ctx, cfg.AppEnv); err != nil {
		log.Error("seed failed", "err", err)
		os.Exit(1)
	}
}
