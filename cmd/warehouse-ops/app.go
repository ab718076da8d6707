package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Spok95/warehouse-ops/internal/config"
	"github.com/Spok95/warehouse-ops/internal/domain/audit"
	"github.com/Spok95/warehouse-ops/internal/domain/dashboard"
	"github.com/Spok95/warehouse-ops/internal/domain/inventory"
	"github.com/Spok95/warehouse-ops/internal/domain/orders"
	"github.com/Spok95/warehouse-ops/internal/domain/refs"
	"github.com/Spok95/warehouse-ops/internal/domain/suppliers"
	"github.com/Spok95/warehouse-ops/internal/domain/warehouses"
	"github.com/Spok95/warehouse-ops/internal/infra/cache"
	"github.com/Spok95/warehouse-ops/internal/infra/db"
	"github.com/Spok95/warehouse-ops/internal/infra/logger"
	"github.com/Spok95/warehouse-ops/internal/infra/notify"
)

// app: собранные зависимости одного запуска команды.
type app struct {
	cfg  config.Config
	log  *slog.Logger
	pool *db.Pool

	redis    *redis.Client
	telegram *notify.Telegram

	suppliers  *suppliers.Service
	warehouses *warehouses.Service
	inventory  *inventory.Service
	orders     *orders.Service
	dashboard  *dashboard.Service
}

func loadConfig(path string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger.New(cfg.App.Env), nil
}

// open подключается к базе и необязательным Redis и Telegram.
// Недоступный Redis или Telegram только отключает соответствующую функцию.
func open(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}
	log.Info("db connected")

	a := &app{cfg: cfg, log: log, pool: pool}

	if cfg.Telegram.Token != "" && cfg.Telegram.AdminChatID != 0 {
		api, err := notify.Connect(cfg.Telegram.Token)
		if err != nil {
			log.Warn("telegram disabled", "err", err)
		} else {
			a.telegram = notify.NewTelegram(api, cfg.Telegram.AdminChatID, log)
			log.Info("telegram connected", "bot", api.Self.UserName)
		}
	}

	lookup := refs.New()
	rec := audit.NewLog(audit.NewRepo(), log)
	loc := cfg.Location()

	a.suppliers = suppliers.NewService(pool, suppliers.NewRepo(), rec, log)
	a.warehouses = warehouses.NewService(pool, warehouses.NewRepo(), lookup, rec, log)
	a.inventory = inventory.NewService(pool, inventory.NewRepo(), lookup, rec, log).
		WithUpdateAudit(cfg.Audit.InventoryUpdates)
	if a.telegram != nil {
		a.inventory.WithAlerter(a.telegram)
	}
	a.orders = orders.NewService(pool, orders.NewRepo(), orders.NewSequencer(), lookup, rec, log).
		WithClock(func() time.Time { return time.Now().In(loc) })

	a.dashboard = dashboard.NewService(pool, dashboard.NewRepo(), log)
	if cfg.Redis.Addr != "" {
		client, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis disabled", "addr", cfg.Redis.Addr, "err", err)
		} else {
			a.redis = client
			a.dashboard.WithCache(cache.NewRedis(client), cfg.Dashboard.CacheTTL)
			log.Info("redis connected", "addr", cfg.Redis.Addr)
		}
	}

	a.suppliers.WithInvalidator(a.dashboard)
	a.warehouses.WithInvalidator(a.dashboard)
	a.inventory.WithInvalidator(a.dashboard)
	a.orders.WithInvalidator(a.dashboard)
	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.pool.Close()
}
