package migrations

import (
	"context"
	"embed"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // драйвер pgx для database/sql
	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var files embed.FS

const dir = "sql"

// Up применяет все миграции к базе по DSN.
func Up(ctx context.Context, dsn string, log *slog.Logger) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	goose.SetBaseFS(files)
	defer goose.SetBaseFS(nil)

	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return err
	}
	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return err
	}
	log.Info("migrations applied", "version", version)
	return nil
}

// Down откатывает последнюю миграцию.
func Down(ctx context.Context, dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	goose.SetBaseFS(files)
	defer goose.SetBaseFS(nil)
	return goose.DownContext(ctx, sqlDB, dir)
}
