// Package dbtest: подмена db.DB для тестов сервисов с in-memory репозиториями.
package dbtest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/Spok95/warehouse-ops/internal/infra/db"
	"github.com/Spok95/warehouse-ops/internal/infra/migrations"
)

// Fake не ходит в базу: репозитории в тестах игнорируют Querier.
type Fake struct {
	db.Querier

	mu        sync.Mutex
	Commits   int
	Rollbacks int
}

var _ db.DB = (*Fake)(nil)

func (f *Fake) InTx(_ context.Context, fn func(q db.Querier) error) error {
	err := fn(f)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.Rollbacks++
		return err
	}
	f.Commits++
	return nil
}

// Postgres подключается к тестовой базе из TEST_POSTGRES_DSN и накатывает
// миграции. Без базы тест пропускается.
func Postgres(t *testing.T) *db.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("Postgres not available: TEST_POSTGRES_DSN is not set")
	}
	ctx := context.Background()

	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	t.Cleanup(pool.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := migrations.Up(ctx, dsn, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}
