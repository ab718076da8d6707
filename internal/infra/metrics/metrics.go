package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Spok95/warehouse-ops/internal/apperr"
)

var (
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehouse_ops",
		Name:      "operations_total",
		Help:      "Domain operations by entity, operation and result kind.",
	}, []string{"entity", "op", "result"})

	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "warehouse_ops",
		Name:      "operation_duration_seconds",
		Help:      "Duration of domain operations including the store round trip.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"entity", "op"})

	AuditFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehouse_ops",
		Name:      "audit_write_failures_total",
		Help:      "Activity log writes that failed and were skipped.",
	}, []string{"entity"})

	OrderNumbers = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "warehouse_ops",
		Name:      "order_numbers_allocated_total",
		Help:      "Order numbers handed out by the per-year sequence.",
	})
)

// Observe фиксирует результат операции; вызывать через defer.
func Observe(entity, op string, started time.Time, err error) {
	result := "ok"
	if err != nil {
		result = string(apperr.KindOf(err))
	}
	Operations.WithLabelValues(entity, op, result).Inc()
	OperationDuration.WithLabelValues(entity, op).Observe(time.Since(started).Seconds())
}
