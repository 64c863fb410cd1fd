package sqlconnect

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/5w1tchy/library-api/migrations"
	"github.com/pressly/goose/v3"
)

const migrationTable = "goose_db_version"

// Migrate runs a goose command ("up", "down", "status", "reset") against the
// embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(slogGooseLogger{l: slog.Default().With("component", "migrations")})
	goose.SetTableName(migrationTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, ".")
	case "down":
		err = goose.DownContext(ctx, db, ".")
	case "status":
		err = goose.StatusContext(ctx, db, ".")
	case "reset":
		err = goose.ResetContext(ctx, db, ".")
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

type slogGooseLogger struct{ l *slog.Logger }

func (g slogGooseLogger) Printf(format string, v ...any) {
	g.l.Info(fmt.Sprintf(format, v...))
}

func (g slogGooseLogger) Fatalf(format string, v ...any) {
	g.l.Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}
