// Command migrate applies the embedded goose migrations.
//
//	migrate [up|down|status|reset]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/5w1tchy/library-api/internal/config"
	"github.com/5w1tchy/library-api/internal/logger"
	"github.com/5w1tchy/library-api/internal/repository/sqlconnect"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate [up|down|status|reset]")
	}
	flag.Parse()
	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.LogLevel)

	ctx := context.Background()
	db, err := sqlconnect.ConnectDB(ctx, cfg.Database)
	if err != nil {
		log.Error("database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := sqlconnect.Migrate(ctx, db, command); err != nil {
		log.Error("migrate failed", "command", command, "err", err)
		os.Exit(1)
	}
	log.Info("migrate done", "command", command)
}
