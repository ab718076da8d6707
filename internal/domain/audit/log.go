package audit

import (
	"context"
	"log/slog"

	"github.com/Spok95/warehouse-ops/internal/infra/db"
	"github.com/Spok95/warehouse-ops/internal/infra/metrics"
)

// Recorder: то, через что сервисы пишут журнал действий.
type Recorder interface {
	Record(ctx context.Context, q db.Querier, e Entry)
}

type appender interface {
	Append(ctx context.Context, q db.Querier, e Entry) error
}

// Log пишет журнал «по возможности». Ошибка записи логируется и не
// возвращается, основная запись к этому моменту уже прошла.
type Log struct {
	store appender
	log   *slog.Logger
}

func NewLog(store appender, log *slog.Logger) *Log {
	return &Log{store: store, log: log}
}

func (l *Log) Record(ctx context.Context, q db.Querier, e Entry) {
	if err := l.store.Append(ctx, q, e); err != nil {
		metrics.AuditFailures.WithLabelValues(string(e.EntityType)).Inc()
		l.log.Warn("activity log write failed",
			"entity_type", e.EntityType,
			"entity_id", e.EntityID,
			"action", e.Action,
			"err", err,
		)
	}
}
