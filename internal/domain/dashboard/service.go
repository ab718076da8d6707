package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/Spok95/warehouse-ops/internal/apperr"
	"github.com/Spok95/warehouse-ops/internal/infra/db"
	"github.com/Spok95/warehouse-ops/internal/infra/metrics"
)

const cacheKey = "dashboard:summary"

type Store interface {
	Summary(ctx context.Context, q db.Querier) (*Summary, error)
}

// Cache: необязательный кэш сводки; ошибки кэша не ломают чтение.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Service struct {
	db    db.Querier
	store Store
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
	now   func() time.Time
}

func NewService(q db.Querier, store Store, log *slog.Logger) *Service {
	return &Service{db: q, store: store, log: log, now: time.Now}
}

func (s *Service) WithCache(c Cache, ttl time.Duration) *Service {
	s.cache = c
	s.ttl = ttl
	return s
}

func (s *Service) Summary(ctx context.Context) (out *Summary, err error) {
	defer func(start time.Time) { metrics.Observe("dashboard", "summary", start, err) }(time.Now())

	if s.cache != nil {
		var cached Summary
		ok, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			s.log.Warn("dashboard cache read failed", "err", err)
		}
		if ok {
			return &cached, nil
		}
	}

	out, err = s.store.Summary(ctx, s.db)
	if err != nil {
		return nil, apperr.Wrap(err, "dashboard summary")
	}
	out.GeneratedAt = s.now().UTC()

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, cacheKey, out, s.ttl); err != nil {
			s.log.Warn("dashboard cache write failed", "err", err)
		}
	}
	return out, nil
}

// Invalidate сбрасывает закэшированную сводку; вызывается после записи
// в инвентарь, заказы, поставщики или склады.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		s.log.Warn("dashboard cache invalidate failed", "err", err)
	}
}
