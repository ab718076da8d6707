package dashboard

import (
	"context"

	"github.com/Spok95/warehouse-ops/internal/infra/db"
)

type Repo struct{}

func NewRepo() *Repo { return &Repo{} }

// Summary читает все счётчики из одного снимка: транзакция переводится в
// REPEATABLE READ READ ONLY до первого запроса, поэтому q: пул, а не
// открытая транзакция.
// Низкий остаток считается от minimum_stock_level самой позиции.
func (r *Repo) Summary(ctx context.Context, q db.Querier) (*Summary, error) {
	tx, err := q.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if _, err := tx.Exec(ctx, `SET TRANSACTION ISOLATION LEVEL REPEATABLE READ READ ONLY`); err != nil {
		return nil, err
	}

	var s Summary
	if err := tx.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE quantity_available > 0 AND quantity_available <= minimum_stock_level),
			COUNT(*) FILTER (WHERE quantity_available <= 0),
			COALESCE(SUM(unit_price * GREATEST(quantity_available, 0)), 0)
		FROM inventory
	`).Scan(&s.InventoryItems, &s.LowStockItems, &s.OutOfStockItems, &s.InventoryValue); err != nil {
		return nil, err
	}

	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'active') FROM suppliers
	`).Scan(&s.Suppliers, &s.ActiveSuppliers); err != nil {
		return nil, err
	}

	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(ROUND(AVG(capacity_utilization), 2), 0) FROM warehouses
	`).Scan(&s.Warehouses, &s.AverageUtilization); err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s.OrdersByStatus = map[string]int64{}
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		s.OrdersByStatus[status] = n
		s.Orders += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}
